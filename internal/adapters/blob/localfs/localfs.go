// Package localfs guarda fotos en disco bajo MEDIA_ROOT y las sirve en MEDIA_URL.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store struct {
	root    string
	baseURL string
}

func New(root, baseURL string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("localfs: empty media root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("localfs: create root: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Store{root: root, baseURL: baseURL}, nil
}

func (s *Store) Root() string {
	return s.root
}

// Put escribe <root>/<folder>/<uuid><ext>. El nombre original sólo aporta la
// extensión.
func (s *Store) Put(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" {
		return "", errors.New("localfs: empty folder")
	}

	key := folder + "/" + uuid.NewString() + extOf(filename)
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("localfs: mkdir: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("localfs: create: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("localfs: write: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("localfs: close: %w", err)
	}
	return key, nil
}

// Delete descarta una foto que no llegó a persistirse.
func (s *Store) Delete(_ context.Context, key string) error {
	key = strings.Trim(path.Clean("/"+key), "/")
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("localfs: delete: %w", err)
	}
	return nil
}

func (s *Store) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + strings.TrimPrefix(key, "/")
}

func extOf(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > 8 {
		return ""
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return ext
}
