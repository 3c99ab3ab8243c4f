// Package render checks whether an image blob can actually be displayed.
package render

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

var ErrEmptyImage = errors.New("image is empty")

// Decode turns a base64 image blob into pixels through MuPDF.
func Decode(b64 string) (image.Image, error) {
	if b64 == "" {
		return nil, ErrEmptyImage
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("failed to render image: %w", err)
	}
	return img, nil
}

// Check reports whether b64 decodes into a displayable image.
func Check(b64 string) error {
	_, err := Decode(b64)
	return err
}
