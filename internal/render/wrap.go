package render

import (
	"errors"
	"strings"
)

// ErrEmptyText is returned when there is no word to lay out
var ErrEmptyText = errors.New("text has no words to wrap")

// Canvas is the drawing surface used by the wrapper.
// Vertical positions grow downwards from the top of the page.
type Canvas interface {
	SetFont(style string, size float64)
	StringWidth(s string) float64
	DrawText(x, y float64, s string)
	NewPage()
	PageHeight() float64
}

// WrapWords greedily packs the words of text into lines whose measured width stays within maxWidth.
// Words are never split: a word wider than maxWidth gets a line of its own.
func WrapWords(text string, maxWidth float64, measure func(string) float64) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, ErrEmptyText
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current), nil
}

// WrapOptions positions a wrapped block on the canvas
type WrapOptions struct {
	X            float64
	MaxWidth     float64
	FontStyle    string
	FontSize     float64
	LineSpacing  float64
	BottomMargin float64
	TopOffset    float64
}

// DrawWrapped lays out text starting at baseline y and returns the cursor after the last line.
// When the cursor crosses the bottom margin a new page is started, the font is set again
// and the cursor moves to the top offset.
func DrawWrapped(c Canvas, text string, y float64, opts WrapOptions) (float64, error) {
	c.SetFont(opts.FontStyle, opts.FontSize)

	lines, err := WrapWords(text, opts.MaxWidth, c.StringWidth)
	if err != nil {
		return y, err
	}

	limit := c.PageHeight() - opts.BottomMargin
	for _, line := range lines {
		c.DrawText(opts.X, y, line)
		y += opts.LineSpacing
		if y > limit {
			c.NewPage()
			c.SetFont(opts.FontStyle, opts.FontSize)
			y = opts.TopOffset
		}
	}
	return y, nil
}
