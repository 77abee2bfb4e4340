package batch

import (
	"context"

	"github.com/garyjia/offer-letters/internal/models"
	"github.com/garyjia/offer-letters/internal/render"
)

// SheetReader parses the recipient spreadsheet
type SheetReader interface {
	Read(path string) (*models.Sheet, error)
}

// TableWriter writes the augmented result table
type TableWriter interface {
	Write(path string, headers []string, recipients []*models.Recipient) error
}

// LetterRenderer draws one letter to a PDF file
type LetterRenderer interface {
	Render(ctx context.Context, assets *render.Assets, letter render.Letter, outputPath string) (*render.Rendered, error)
}
