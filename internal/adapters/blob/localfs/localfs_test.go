package localfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPut_WritesUnderFolder(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, "/media")
	require.NoError(t, err)

	key, err := s.Put(context.Background(), "pet_photos", "Milo.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "pet_photos/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))

	assert.Equal(t, "/media/"+key, s.URL(key))
	assert.Equal(t, "", s.URL(""))
}

func TestPut_UniqueKeysAndSafeNames(t *testing.T) {
	s, err := New(t.TempDir(), "http://cdn.example/media/")
	require.NoError(t, err)
	ctx := context.Background()

	k1, err := s.Put(ctx, "pet_photos", "a.jpg", strings.NewReader("1"))
	require.NoError(t, err)
	k2, err := s.Put(ctx, "pet_photos", "a.jpg", strings.NewReader("2"))
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	k3, err := s.Put(ctx, "../../etc", "x.sh;rm", strings.NewReader("3"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(k3, "etc/"), k3)
	assert.Equal(t, "", filepath.Ext(k3))
	assert.Equal(t, "http://cdn.example/media/"+k3, s.URL(k3))
}

func TestPut_CanceledContext(t *testing.T) {
	s, err := New(t.TempDir(), "/media/")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Put(ctx, "pet_photos", "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelete_RemovesAndToleratesMissing(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	key, err := s.Put(ctx, "health_log_photos", "x.jpg", strings.NewReader("jpg"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, key))
	assert.NoError(t, s.Delete(ctx, ""))
}
