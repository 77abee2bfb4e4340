package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned for image formats that cannot be decoded
var ErrUnsupportedImage = errors.New("unsupported image format")

// Image is a decoded-once picture ready to be placed on any number of documents
type Image struct {
	Name   string // registration key inside a document
	Type   string // PNG, JPG or GIF
	Data   []byte
	Width  int // pixels
	Height int // pixels
}

// Assets are the images shared by every letter of a batch
type Assets struct {
	Background *Image
	Signature  *Image // nil when no signature was supplied
}

// LoadAssets reads the background and the optional signature.
// An empty signaturePath means no signature.
func LoadAssets(backgroundPath, signaturePath string) (*Assets, error) {
	background, err := LoadImage("background", backgroundPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load background image: %w", err)
	}

	assets := &Assets{Background: background}
	if signaturePath != "" {
		signature, err := LoadImage("signature", signaturePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load signature image: %w", err)
		}
		assets.Signature = signature
	}
	return assets, nil
}

// LoadImage reads an image file and normalises it to a format the PDF writer embeds natively.
// BMP, TIFF and WebP are decoded and re-encoded as PNG.
func LoadImage(name, path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedImage, filepath.Base(path), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrUnsupportedImage, filepath.Base(path))
	}

	img := &Image{Name: name, Data: data, Width: cfg.Width, Height: cfg.Height}
	switch {
	case format == "png" && !pngNeedsReencode(data):
		img.Type = "PNG"
	case format == "jpeg":
		img.Type = "JPG"
	case format == "gif":
		img.Type = "GIF"
	default:
		img.Type = "PNG"
		if img.Data, err = reencodePNG(data); err != nil {
			return nil, fmt.Errorf("failed to convert %s image: %w", format, err)
		}
	}

	return img, nil
}

// pngNeedsReencode reports PNG variants the PDF writer rejects: 16-bit depth and interlacing.
// IHDR starts at byte 16; bit depth is at 24 and the interlace method at 28.
func pngNeedsReencode(data []byte) bool {
	if len(data) < 29 {
		return true
	}
	return data[24] == 16 || data[28] != 0
}

// reencodePNG decodes any supported image into 8-bit NRGBA and encodes it as a plain PNG
func reencodePNG(data []byte) ([]byte, error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := decoded.Bounds()
	flat := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flat, flat.Bounds(), decoded, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
