package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.White)
	}
	return img
}

func TestCheck_Empty(t *testing.T) {
	assert.ErrorIs(t, Check(""), ErrEmptyImage)
}

func TestCheck_InvalidBase64(t *testing.T) {
	assert.ErrorContains(t, Check("%%%"), "failed to decode base64")
}

func TestCheck_NotAnImage(t *testing.T) {
	blob := base64.StdEncoding.EncodeToString([]byte("definitely not an image"))
	assert.Error(t, Check(blob))
}

func TestCheck_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))

	assert.NoError(t, Check(base64.StdEncoding.EncodeToString(buf.Bytes())))
}

func TestCheck_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(), nil))

	assert.NoError(t, Check(base64.StdEncoding.EncodeToString(buf.Bytes())))
}
