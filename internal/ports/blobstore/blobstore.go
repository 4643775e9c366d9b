// Package blobstore define el colaborador que guarda fotos y las expone por URL.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Carpetas lógicas de las fotos subidas.
const (
	FolderPetPhotos       = "pet_photos"
	FolderHealthLogPhotos = "health_log_photos"
)

var ErrNotImage = errors.New("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")

type Store interface {
	// Put guarda el contenido y devuelve la key relativa (p.ej. "pet_photos/<uuid>.png").
	Put(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	// URL resuelve una key a una URL pública. Key vacía => "".
	URL(key string) string
	// Delete borra la key. Una key inexistente no es error.
	Delete(ctx context.Context, key string) error
}

// File es un archivo recibido en un request, ya abierto.
type File struct {
	Name   string
	Reader io.Reader
}

// OpenUpload abre un archivo multipart. El llamador cierra el io.Closer.
func OpenUpload(fh *multipart.FileHeader) (*File, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &File{Name: fh.Filename, Reader: f}, f, nil
}

// SniffImage verifica que el contenido sea una imagen y devuelve un reader que
// incluye los bytes ya leídos.
func SniffImage(r io.Reader) (io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]
	if n == 0 || !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return nil, ErrNotImage
	}
	return io.MultiReader(bytes.NewReader(head), r), nil
}
