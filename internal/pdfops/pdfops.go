// Package pdfops inspects and combines generated letters.
package pdfops

import (
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MergedFileName is the name of the combined document written next to the letters
const MergedFileName = "All_Offer_Letters.pdf"

// ErrNoInput is returned when there is nothing to merge
var ErrNoInput = errors.New("no documents to merge")

// Merge concatenates files in order into outputPath
func Merge(files []string, outputPath string) error {
	if len(files) == 0 {
		return ErrNoInput
	}
	conf := model.NewDefaultConfiguration()
	if err := api.MergeCreateFile(files, outputPath, false, conf); err != nil {
		return fmt.Errorf("failed to merge documents: %w", err)
	}
	return nil
}

// PageCount returns the number of pages of a PDF file
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages of %s: %w", path, err)
	}
	return n, nil
}
