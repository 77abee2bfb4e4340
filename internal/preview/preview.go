// Package preview rasterises generated letters for display in a browser.
package preview

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// DefaultDPI keeps previews of full-resolution backgrounds small
const DefaultDPI = 24

// Rasterizer renders PDF pages to PNG
type Rasterizer struct {
	dpi    float64
	logger *zap.Logger
}

// NewRasterizer creates a Rasterizer. A non-positive dpi selects DefaultDPI.
func NewRasterizer(dpi float64, logger *zap.Logger) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Rasterizer{dpi: dpi, logger: logger}
}

// FirstPagePNG returns page 1 of the PDF at pdfPath encoded as PNG
func (r *Rasterizer) FirstPagePNG(pdfPath string) ([]byte, error) {
	return r.PagePNG(pdfPath, 0)
}

// PagePNG returns the zero-based page of the PDF at pdfPath encoded as PNG
func (r *Rasterizer) PagePNG(pdfPath string, page int) ([]byte, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if page < 0 || page >= doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range (document has %d)", page+1, doc.NumPage())
	}

	img, err := doc.ImageDPI(page, r.dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}

	r.logger.Debug("Rendered preview",
		zap.String("path", pdfPath),
		zap.Int("page", page+1),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))

	return buf.Bytes(), nil
}
