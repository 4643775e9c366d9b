package blobstore

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestSniffImage_KeepsAllBytes(t *testing.T) {
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 2048)...)
	r, err := SniffImage(bytes.NewReader(body))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestSniffImage_RejectsNonImages(t *testing.T) {
	for _, in := range []string{"", "hello world", "%PDF-1.4"} {
		_, err := SniffImage(strings.NewReader(in))
		assert.True(t, errors.Is(err, ErrNotImage), "input %q", in)
	}
}
