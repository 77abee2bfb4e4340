// Package spreadsheet reads recipient workbooks and writes the augmented result table.
package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/garyjia/offer-letters/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// textDateLayouts are tried in order for date cells stored as text
var textDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	models.NumericDateLayout,
	"01/02/2006",
	"2-Jan-2006",
	"02-January-2006",
}

// Reader parses recipient workbooks
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new Reader
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read parses the first sheet of the workbook at path.
// Row 1 is the header; every required column must be present.
func (r *Reader) Read(path string) (*models.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheetName := sheets[0]

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	// Formatted values for passthrough columns, raw values for dates
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	rawRows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read raw rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	// Data past the last header cell still gets a column
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	header := make([]string, width)
	copy(header, rows[0])

	headers := columnNames(header)
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}
	for _, col := range models.RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	sheet := &models.Sheet{Name: sheetName, Headers: headers}
	for i := 1; i < len(rows); i++ {
		rowNumber := i + 1
		formatted := rows[i]
		var raw []string
		if i < len(rawRows) {
			raw = rawRows[i]
		}

		if isBlank(formatted) {
			r.logger.Debug("Skipping blank row", zap.Int("row", rowNumber))
			continue
		}

		recipient, err := r.parseRow(headers, index, formatted, raw, rowNumber, date1904)
		if err != nil {
			return nil, err
		}
		recipient.Values, err = typedValues(f, sheetName, headers, formatted, raw, rowNumber)
		if err != nil {
			return nil, err
		}
		sheet.Recipients = append(sheet.Recipients, recipient)
	}

	r.logger.Info("Spreadsheet parsed",
		zap.String("path", path),
		zap.String("sheet", sheetName),
		zap.Int("recipients", len(sheet.Recipients)))

	return sheet, nil
}

// parseRow builds one recipient from a non-blank row
func (r *Reader) parseRow(headers []string, index map[string]int, formatted, raw []string, rowNumber int, date1904 bool) (*models.Recipient, error) {
	cells := make(map[string]string, len(headers))
	for i, h := range headers {
		cells[h] = strings.TrimSpace(cellAt(formatted, i))
	}

	required := func(col string) (string, error) {
		v := cells[col]
		if v == "" {
			return "", fmt.Errorf("row %d: %w: %q", rowNumber, ErrEmptyCell, col)
		}
		return v, nil
	}
	date := func(col string) (time.Time, error) {
		if _, err := required(col); err != nil {
			return time.Time{}, err
		}
		value := strings.TrimSpace(cellAt(raw, index[col]))
		if value == "" {
			value = cells[col]
		}
		t, err := ParseDate(value, date1904)
		if err != nil {
			return time.Time{}, fmt.Errorf("row %d: column %q: %w", rowNumber, col, err)
		}
		return t, nil
	}

	name, err := required(models.ColumnName)
	if err != nil {
		return nil, err
	}
	designation, err := required(models.ColumnDesignation)
	if err != nil {
		return nil, err
	}
	start, err := date(models.ColumnStartDate)
	if err != nil {
		return nil, err
	}
	end, err := date(models.ColumnEndDate)
	if err != nil {
		return nil, err
	}

	return &models.Recipient{
		RowNumber:   rowNumber,
		Name:        name,
		Designation: designation,
		StartDate:   start,
		EndDate:     end,
		Cells:       cells,
	}, nil
}

// columnNames names every header cell uniquely so no column is lost.
// A blank header becomes "Unnamed: <index>"; a repeated one gets a ".<n>" suffix.
func columnNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// typedValues keeps each cell's type. Numbers stay numbers unless their display
// format turns them into something else, such as a date.
func typedValues(f *excelize.File, sheet string, headers, formatted, raw []string, rowNumber int) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(headers))
	for i, h := range headers {
		text := strings.TrimSpace(cellAt(formatted, i))
		if text == "" {
			values[h] = nil
			continue
		}

		cell, err := excelize.CoordinatesToCellName(i+1, rowNumber)
		if err != nil {
			return nil, err
		}
		cellType, err := f.GetCellType(sheet, cell)
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to read cell type of %s: %w", rowNumber, cell, err)
		}

		rawValue := strings.TrimSpace(cellAt(raw, i))
		switch cellType {
		case excelize.CellTypeUnset, excelize.CellTypeNumber:
			n, err := strconv.ParseFloat(rawValue, 64)
			if err == nil && sameNumber(text, n) {
				values[h] = n
				continue
			}
		case excelize.CellTypeBool:
			values[h] = rawValue == "1"
			continue
		}
		values[h] = text
	}
	return values, nil
}

// sameNumber reports whether a formatted cell still reads as n once grouping separators are removed
func sameNumber(text string, n float64) bool {
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	return err == nil && v == n
}

// ParseDate decodes an Excel serial number or a textual date. The time of day is dropped.
func ParseDate(value string, date1904 bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
		}
		return dateOnly(t), nil
	}

	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
