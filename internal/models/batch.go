package models

import "time"

// LetterFile describes one generated offer letter
type LetterFile struct {
	Recipient string `json:"recipient"`
	UniqueID  string `json:"unique_id"`
	Path      string `json:"path"`
	Pages     int    `json:"pages"`
}

// BatchResult is the outcome of one successful batch run.
// Letters and Recipients are in input row order.
type BatchResult struct {
	BatchID     string        `json:"batch_id"`
	Recipients  []*Recipient  `json:"-"`
	Letters     []LetterFile  `json:"letters"`
	OutputTable string        `json:"excel_file"`
	MergedPDF   string        `json:"merged_pdf,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}
