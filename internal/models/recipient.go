package models

import "time"

// Date layouts used across the letter pipeline
const (
	// NumericDateLayout renders calendar dates as DD-MM-YYYY
	NumericDateLayout = "02-01-2006"
	// TextualDateLayout renders the issue date as DD-Month-YYYY
	TextualDateLayout = "02-January-2006"
)

// Spreadsheet column headers
const (
	ColumnName        = "Name"
	ColumnDesignation = "Designation"
	ColumnStartDate   = "Start Date"
	ColumnEndDate     = "End Date"
	ColumnUniqueID    = "Unique ID"
)

// RequiredColumns lists the headers every input spreadsheet must carry
var RequiredColumns = []string{ColumnName, ColumnDesignation, ColumnStartDate, ColumnEndDate}

// Recipient represents one spreadsheet row describing a letter recipient
type Recipient struct {
	RowNumber   int // 1-indexed spreadsheet row, header is row 1
	Name        string
	Designation string
	StartDate   time.Time
	EndDate     time.Time

	// Cells holds the row's text by column, including columns the pipeline does not use
	Cells map[string]string
	// Values holds the same cells typed: float64 for numbers, bool for booleans,
	// string for text and nil for blanks
	Values map[string]interface{}

	// Derived fields, attached once by the batch orchestrator
	UniqueID             string
	IssueDate            time.Time
	ConfirmationDeadline time.Time
}

// StartDateText returns the start date as DD-MM-YYYY
func (r *Recipient) StartDateText() string {
	return r.StartDate.Format(NumericDateLayout)
}

// EndDateText returns the end date as DD-MM-YYYY
func (r *Recipient) EndDateText() string {
	return r.EndDate.Format(NumericDateLayout)
}

// IssueDateText returns the issue date as DD-Month-YYYY
func (r *Recipient) IssueDateText() string {
	return r.IssueDate.Format(TextualDateLayout)
}

// DeadlineText returns the confirmation deadline as DD-MM-YYYY
func (r *Recipient) DeadlineText() string {
	return r.ConfirmationDeadline.Format(NumericDateLayout)
}

// Sheet is a parsed input spreadsheet: its column names in order and recipients in row order.
// Blank headers become "Unnamed: <index>" and repeats become "<header>.<n>".
type Sheet struct {
	Name       string
	Headers    []string
	Recipients []*Recipient
}
