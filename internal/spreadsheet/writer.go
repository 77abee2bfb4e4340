package spreadsheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/garyjia/offer-letters/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	outputSheet  = "Sheet1"
	minColWidth  = 10
	maxColWidth  = 60
	headerBuffer = 1.5
)

// Writer produces the batch result table
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a new Writer
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

// OutputHeaders returns the result table's columns: the input columns in order,
// with the Unique ID column appended unless the input already has one.
func OutputHeaders(input []string) []string {
	headers := make([]string, 0, len(input)+1)
	hasID := false
	for _, h := range input {
		if h == models.ColumnUniqueID {
			hasID = true
		}
		headers = append(headers, h)
	}
	if !hasID {
		headers = append(headers, models.ColumnUniqueID)
	}
	return headers
}

// OutputRow returns a recipient's cells for the given headers with normalised dates and its identifier.
// Typed values are kept so numbers are written back as numbers.
func OutputRow(headers []string, r *models.Recipient) []interface{} {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		switch h {
		case models.ColumnStartDate:
			row[i] = r.StartDateText()
		case models.ColumnEndDate:
			row[i] = r.EndDateText()
		case models.ColumnUniqueID:
			row[i] = r.UniqueID
		default:
			row[i] = cellValue(r, h)
		}
	}
	return row
}

func cellValue(r *models.Recipient, header string) interface{} {
	if v, ok := r.Values[header]; ok {
		return v
	}
	if text := r.Cells[header]; text != "" {
		return text
	}
	return nil
}

// cellText is the displayed width source for a written value
func cellText(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Write saves the table to path, replacing any previous file atomically
func (w *Writer) Write(path string, headers []string, recipients []*models.Recipient) error {
	f := excelize.NewFile()
	defer f.Close()

	out := OutputHeaders(headers)
	header := make([]interface{}, len(out))
	for i, h := range out {
		header[i] = h
	}
	rows := make([][]interface{}, 0, len(recipients)+1)
	rows = append(rows, header)
	for _, r := range recipients {
		rows = append(rows, OutputRow(out, r))
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(outputSheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := w.applyFormatting(f, rows); err != nil {
		return fmt.Errorf("failed to format table: %w", err)
	}

	if err := saveAtomic(f, path); err != nil {
		return err
	}

	w.logger.Info("Result table written",
		zap.String("path", path),
		zap.Int("rows", len(recipients)))

	return nil
}

// applyFormatting makes the header bold, adds an autofilter and sizes columns by content
func (w *Writer) applyFormatting(f *excelize.File, rows [][]interface{}) error {
	cols := len(rows[0])
	if cols == 0 {
		return nil
	}
	lastCol, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(outputSheet, "A1", lastCol+"1", style); err != nil {
		return err
	}
	if err := f.AutoFilter(outputSheet, "A1:"+lastCol+"1", nil); err != nil {
		return err
	}

	for c := 0; c < cols; c++ {
		width := float64(minColWidth)
		for r, row := range rows {
			cw := float64(len([]rune(cellText(row[c])))) * 1.1
			if r == 0 {
				cw += headerBuffer
			}
			if cw > width {
				width = cw
			}
		}
		if width > maxColWidth {
			width = maxColWidth
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(outputSheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

// saveAtomic writes the workbook next to path and renames it into place
func saveAtomic(f *excelize.File, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".table-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write table: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close table: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace table: %w", err)
	}
	committed = true
	return nil
}
