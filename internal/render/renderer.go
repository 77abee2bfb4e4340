// Package render draws offer letters as PDF documents on top of a background image.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/garyjia/offer-letters/internal/letter"
	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// Letter is the per-recipient content of one document
type Letter struct {
	IssueDate string
	UniqueID  string
	Name      string
	Body      string
}

// Rendered describes a written document
type Rendered struct {
	Path  string
	Pages int
}

// Renderer composes letters with a fixed layout
type Renderer struct {
	layout Layout
	logger *zap.Logger
}

// NewRenderer creates a Renderer
func NewRenderer(layout Layout, logger *zap.Logger) (*Renderer, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return &Renderer{layout: layout, logger: logger}, nil
}

// Render draws one letter and writes it to outputPath.
// The page size equals the background's pixel size; the body may flow onto further pages.
func (r *Renderer) Render(ctx context.Context, assets *Assets, l Letter, outputPath string) (*Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if assets == nil || assets.Background == nil {
		return nil, fmt.Errorf("background image is required")
	}

	bg := assets.Background
	c := newPDFCanvas(float64(bg.Width), float64(bg.Height))
	c.register(bg)
	if assets.Signature != nil {
		c.register(assets.Signature)
	}

	if r.layout.RepeatBackground {
		c.pdf.SetHeaderFunc(func() { c.drawFullPage(bg) })
	}

	// Step 1: background
	c.NewPage()
	if !r.layout.RepeatBackground {
		c.drawFullPage(bg)
	}

	// Step 2: bold header lines
	y := r.layout.HeaderTop
	c.SetFont(styleBold, r.layout.HeaderFontSize)
	for i, line := range letter.Header(l.IssueDate, l.UniqueID, l.Name) {
		c.DrawText(r.layout.MarginX, y, line)
		y += r.layout.HeaderAdvances[i]
	}

	// Step 3: wrapped body
	y, err := DrawWrapped(c, l.Body, y, WrapOptions{
		X:            r.layout.MarginX,
		MaxWidth:     r.layout.bodyWidth(c.width),
		FontStyle:    styleReg,
		FontSize:     r.layout.BodyFontSize,
		LineSpacing:  r.layout.LineSpacing,
		BottomMargin: r.layout.BottomMargin,
		TopOffset:    r.layout.TopOffset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to lay out body: %w", err)
	}

	// Step 4: closing block, kept together on one page
	y = r.drawClosing(c, y)

	// Step 5: signature on the last page
	if sig := assets.Signature; sig != nil {
		x, clamped := r.layout.signatureX(c.width)
		if clamped {
			r.logger.Warn("Signature offset exceeds page width, clamping to margin",
				zap.Float64("page_width", c.width),
				zap.Float64("signature_right", r.layout.SignatureRight))
		}
		top := c.height - r.layout.SignatureBottom - r.layout.SignatureHeight
		c.drawImage(sig, x, top, r.layout.SignatureWidth, r.layout.SignatureHeight)
	}

	// Step 6: persist
	pages := c.pdf.PageCount()
	if err := c.pdf.OutputFileAndClose(outputPath); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	r.logger.Debug("Letter rendered",
		zap.String("unique_id", l.UniqueID),
		zap.String("output_path", outputPath),
		zap.Int("pages", pages),
		zap.Float64("final_cursor", y))

	return &Rendered{Path: outputPath, Pages: pages}, nil
}

// drawClosing prints the salutation, the signature caption and the signatory
func (r *Renderer) drawClosing(c *pdfCanvas, y float64) float64 {
	adv := r.layout.ClosingAdvances
	if y+adv[0]+adv[1]+adv[2] > c.height-r.layout.BottomMargin {
		c.NewPage()
		y = r.layout.TopOffset
	}

	c.SetFont(styleReg, r.layout.ClosingFontSize)
	y += adv[0]
	c.DrawText(r.layout.MarginX, y, letter.ClosingSalute)
	y += adv[1]
	c.DrawText(r.layout.MarginX, y, letter.SignatureCaption)
	y += adv[2]
	c.SetFont(styleBold, r.layout.ClosingFontSize)
	c.DrawText(r.layout.MarginX, y, letter.Signatory)
	return y
}

// pdfCanvas adapts fpdf to Canvas. Text goes through a cp1252 translator
// so Latin-1 names render with the core fonts.
type pdfCanvas struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
	width     float64
	height    float64
}

// newPDFCanvas sizes every page to width x height. fpdf swaps the size for "L",
// so the orientation stays "P" for landscape backgrounds too.
func newPDFCanvas(width, height float64) *pdfCanvas {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	return &pdfCanvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		width:     width,
		height:    height,
	}
}

func (c *pdfCanvas) register(img *Image) {
	c.pdf.RegisterImageOptionsReader(img.Name, fpdf.ImageOptions{ImageType: img.Type}, bytes.NewReader(img.Data))
}

func (c *pdfCanvas) drawImage(img *Image, x, y, w, h float64) {
	c.pdf.ImageOptions(img.Name, x, y, w, h, false, fpdf.ImageOptions{ImageType: img.Type}, 0, "")
}

func (c *pdfCanvas) drawFullPage(img *Image) {
	c.drawImage(img, 0, 0, c.width, c.height)
}

func (c *pdfCanvas) SetFont(style string, size float64) {
	c.pdf.SetFont(fontFamily, style, size)
}

func (c *pdfCanvas) StringWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.translate(s))
}

func (c *pdfCanvas) DrawText(x, y float64, s string) {
	c.pdf.Text(x, y, c.translate(s))
}

func (c *pdfCanvas) NewPage() {
	c.pdf.AddPage()
}

func (c *pdfCanvas) PageHeight() float64 {
	return c.height
}
