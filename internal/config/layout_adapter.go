package config

import "github.com/garyjia/offer-letters/internal/render"

// RenderLayout converts the layout section to the renderer's Layout.
// Values absent from configuration keep the renderer defaults.
func (c *Config) RenderLayout() render.Layout {
	l := render.DefaultLayout()
	lc := c.Layout

	l.MarginX = lc.MarginX
	l.HeaderTop = lc.HeaderTop
	l.HeaderFontSize = lc.HeaderFontSize
	copy(l.HeaderAdvances[:], lc.HeaderAdvances)
	l.BodyFontSize = lc.BodyFontSize
	l.LineSpacing = lc.LineSpacing
	l.BottomMargin = lc.BottomMargin
	l.TopOffset = lc.TopOffset
	l.ClosingFontSize = lc.ClosingFontSize
	l.SignatureWidth = lc.SignatureWidth
	l.SignatureHeight = lc.SignatureHeight
	l.SignatureRight = lc.SignatureRight
	l.SignatureBottom = lc.SignatureBottom
	l.RepeatBackground = lc.RepeatBackground

	return l
}
