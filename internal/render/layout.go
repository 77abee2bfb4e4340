package render

import "fmt"

// Font families available to the renderer (PDF core fonts)
const (
	fontFamily = "Helvetica"
	styleBold  = "B"
	styleReg   = ""
)

// Layout holds every position and size used on a letter page.
// Units are PDF points on a page whose size equals the background image in pixels.
// Vertical values are measured from the top of the page.
type Layout struct {
	MarginX        float64    // left edge of all text; the body also keeps it on the right
	HeaderTop      float64    // baseline of the first header line
	HeaderFontSize float64    // bold header size
	HeaderAdvances [3]float64 // cursor advance after each header line

	BodyFontSize float64
	LineSpacing  float64 // body baseline to baseline
	BottomMargin float64 // body lines never go below page height minus this
	TopOffset    float64 // cursor after a page break

	ClosingFontSize  float64
	ClosingAdvances  [3]float64 // advance before "Sincerely,", the caption and the signatory
	SignatureWidth   float64
	SignatureHeight  float64
	SignatureRight   float64 // gap between the signature's right edge and the page's right edge
	SignatureBottom  float64 // gap between the signature's bottom edge and the page's bottom edge
	RepeatBackground bool    // draw the background on continuation pages too
}

// DefaultLayout returns the layout the Infiedge letter template was designed for
func DefaultLayout() Layout {
	return Layout{
		MarginX:         40,
		HeaderTop:       600,
		HeaderFontSize:  30,
		HeaderAdvances:  [3]float64{70, 60, 50},
		BodyFontSize:    30,
		LineSpacing:     50,
		BottomMargin:    50,
		TopOffset:       50,
		ClosingFontSize: 25,
		ClosingAdvances: [3]float64{30, 120, 30},
		SignatureWidth:  200,
		SignatureHeight: 80,
		SignatureRight:  1200,
		SignatureBottom: 600,
	}
}

// Validate rejects layouts that cannot produce a page
func (l Layout) Validate() error {
	if l.HeaderFontSize <= 0 || l.BodyFontSize <= 0 || l.ClosingFontSize <= 0 {
		return fmt.Errorf("font sizes must be positive")
	}
	if l.LineSpacing <= 0 {
		return fmt.Errorf("line spacing must be positive")
	}
	if l.SignatureWidth <= 0 || l.SignatureHeight <= 0 {
		return fmt.Errorf("signature size must be positive")
	}
	return nil
}

// bodyWidth is the width budget for wrapped body lines on a page of the given width
func (l Layout) bodyWidth(pageWidth float64) float64 {
	return pageWidth - 2*l.MarginX
}

// signatureX returns the signature's left edge and whether it had to be clamped
// because the fixed right offset pushed it off the page.
func (l Layout) signatureX(pageWidth float64) (float64, bool) {
	x := pageWidth - l.SignatureWidth - l.SignatureRight
	if x < 0 {
		return l.MarginX, true
	}
	return x, false
}
