package spreadsheet

import "errors"

// Spreadsheet errors
var (
	ErrNoSheets      = errors.New("workbook has no sheets")
	ErrNoHeader      = errors.New("first sheet has no header row")
	ErrMissingColumn = errors.New("required column is missing")
	ErrEmptyCell     = errors.New("required cell is empty")
	ErrInvalidDate   = errors.New("cell is not a date")
)
