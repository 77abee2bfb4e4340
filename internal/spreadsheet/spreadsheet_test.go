package spreadsheet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/garyjia/offer-letters/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// writeWorkbook saves rows to a fresh workbook, row 1 being the header
func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReader_Read(t *testing.T) {
	dir := t.TempDir()
	reader := NewReader(zap.NewNop())

	t.Run("parses date cells and keeps extra columns", func(t *testing.T) {
		path := filepath.Join(dir, "interns.xlsx")
		writeWorkbook(t, path, [][]interface{}{
			{"Name", "Email", "Designation", "Start Date", "End Date"},
			{"Jane Doe", "jane@example.com", "Software Intern", date(2025, time.February, 1), date(2025, time.July, 31)},
			{"John Roe", "john@example.com", "Data Intern", "2025-03-01", "01-09-2025"},
		})

		sheet, err := reader.Read(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"Name", "Email", "Designation", "Start Date", "End Date"}, sheet.Headers)
		require.Len(t, sheet.Recipients, 2)

		jane := sheet.Recipients[0]
		assert.Equal(t, 2, jane.RowNumber)
		assert.Equal(t, "Jane Doe", jane.Name)
		assert.Equal(t, "Software Intern", jane.Designation)
		assert.Equal(t, "01-02-2025", jane.StartDateText())
		assert.Equal(t, "31-07-2025", jane.EndDateText())
		assert.Equal(t, "jane@example.com", jane.Cells["Email"])

		john := sheet.Recipients[1]
		assert.Equal(t, "01-03-2025", john.StartDateText())
		assert.Equal(t, "01-09-2025", john.EndDateText())
	})

	t.Run("keeps cell types", func(t *testing.T) {
		path := filepath.Join(dir, "typed.xlsx")
		writeWorkbook(t, path, [][]interface{}{
			{"Name", "Designation", "Start Date", "End Date", "Stipend", "Phone", "Remote"},
			{"Jane Doe", "Software Intern", "2025-02-01", "2025-07-31", 15000, "0044123", true},
		})

		sheet, err := reader.Read(path)

		require.NoError(t, err)
		jane := sheet.Recipients[0]
		assert.Equal(t, 15000.0, jane.Values["Stipend"])
		assert.Equal(t, "0044123", jane.Values["Phone"])
		assert.Equal(t, true, jane.Values["Remote"])
		assert.Equal(t, "15000", jane.Cells["Stipend"])
	})

	t.Run("names blank and repeated headers", func(t *testing.T) {
		path := filepath.Join(dir, "columns.xlsx")
		writeWorkbook(t, path, [][]interface{}{
			{"Name", "Designation", "Start Date", "End Date", "", "Name", "Name"},
			{"Jane Doe", "Software Intern", "2025-02-01", "2025-07-31", "note", "Janie", "JD", "extra"},
		})

		sheet, err := reader.Read(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"Name", "Designation", "Start Date", "End Date", "Unnamed: 4", "Name.1", "Name.2", "Unnamed: 7"}, sheet.Headers)
		jane := sheet.Recipients[0]
		assert.Equal(t, "Jane Doe", jane.Name)
		assert.Equal(t, "note", jane.Cells["Unnamed: 4"])
		assert.Equal(t, "Janie", jane.Cells["Name.1"])
		assert.Equal(t, "JD", jane.Cells["Name.2"])
		assert.Equal(t, "extra", jane.Cells["Unnamed: 7"])
	})

	t.Run("skips fully blank rows", func(t *testing.T) {
		path := filepath.Join(dir, "blank.xlsx")
		writeWorkbook(t, path, [][]interface{}{
			{"Name", "Designation", "Start Date", "End Date"},
			{"A", "Intern", "2025-01-01", "2025-02-01"},
			{"", "", "", ""},
			{"B", "Intern", "2025-01-01", "2025-02-01"},
		})

		sheet, err := reader.Read(path)

		require.NoError(t, err)
		require.Len(t, sheet.Recipients, 2)
		assert.Equal(t, 4, sheet.Recipients[1].RowNumber)
	})

	t.Run("missing designation column", func(t *testing.T) {
		path := filepath.Join(dir, "nodesignation.xlsx")
		writeWorkbook(t, path, [][]interface{}{
			{"Name", "Start Date", "End Date"},
			{"Jane Doe", "2025-02-01", "2025-07-31"},
		})

		_, err := reader.Read(path)

		assert.ErrorIs(t, err, ErrMissingColumn)
		assert.Contains(t, err.Error(), "Designation")
	})

	t.Run("empty required cell names the row", func(t *testing.T) {
		path := filepath.Join(dir, "emptyname.xlsx")
		writeWorkbook(t, path, [][]interface{}{
			{"Name", "Designation", "Start Date", "End Date"},
			{"", "Intern", "2025-02-01", "2025-07-31"},
		})

		_, err := reader.Read(path)

		assert.ErrorIs(t, err, ErrEmptyCell)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("unparseable date", func(t *testing.T) {
		path := filepath.Join(dir, "baddate.xlsx")
		writeWorkbook(t, path, [][]interface{}{
			{"Name", "Designation", "Start Date", "End Date"},
			{"Jane", "Intern", "soon", "2025-07-31"},
		})

		_, err := reader.Read(path)

		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := reader.Read(filepath.Join(dir, "absent.xlsx"))
		assert.Error(t, err)
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{name: "excel serial", value: "45689", want: date(2025, time.February, 1)},
		{name: "serial with time fraction", value: "45689.75", want: date(2025, time.February, 1)},
		{name: "iso date", value: "2025-02-01", want: date(2025, time.February, 1)},
		{name: "iso date time", value: "2025-02-01 13:45:00", want: date(2025, time.February, 1)},
		{name: "day first with dashes", value: "01-02-2025", want: date(2025, time.February, 1)},
		{name: "month first with slashes", value: "02/01/2025", want: date(2025, time.February, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.value, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects text", func(t *testing.T) {
		_, err := ParseDate("next monday", false)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(zap.NewNop())

	recipients := []*models.Recipient{
		{
			Name:      "Jane Doe",
			StartDate: date(2025, time.February, 1),
			EndDate:   date(2025, time.July, 31),
			Cells:     map[string]string{"Name": "Jane Doe", "Email": "jane@example.com", "Designation": "Software Intern"},
			UniqueID:  "IE-001-K48213",
		},
		{
			Name:      "John Roe",
			StartDate: date(2025, time.March, 1),
			EndDate:   date(2025, time.September, 1),
			Cells:     map[string]string{"Name": "John Roe", "Email": "john@example.com", "Designation": "Data Intern"},
			UniqueID:  "IE-001-B10000",
		},
	}
	headers := []string{"Name", "Email", "Designation", "Start Date", "End Date"}

	t.Run("writes input columns plus unique id", func(t *testing.T) {
		path := filepath.Join(dir, "out", "result.xlsx")

		require.NoError(t, writer.Write(path, headers, recipients))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Sheet1")
		require.NoError(t, err)

		assert.Equal(t, [][]string{
			{"Name", "Email", "Designation", "Start Date", "End Date", "Unique ID"},
			{"Jane Doe", "jane@example.com", "Software Intern", "01-02-2025", "31-07-2025", "IE-001-K48213"},
			{"John Roe", "john@example.com", "Data Intern", "01-03-2025", "01-09-2025", "IE-001-B10000"},
		}, rows)
	})

	t.Run("numbers stay numbers", func(t *testing.T) {
		in := filepath.Join(dir, "stipend.xlsx")
		writeWorkbook(t, in, [][]interface{}{
			{"Name", "Designation", "Start Date", "End Date", "Stipend", "", "Name"},
			{"Jane Doe", "Software Intern", "2025-02-01", "2025-07-31", 15000, 2.5, "Janie"},
		})
		sheet, err := NewReader(zap.NewNop()).Read(in)
		require.NoError(t, err)
		sheet.Recipients[0].UniqueID = "IE-001-K48213"

		path := filepath.Join(dir, "stipend_out.xlsx")
		require.NoError(t, writer.Write(path, sheet.Headers, sheet.Recipients))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()

		for _, cell := range []string{"E2", "F2"} {
			cellType, err := f.GetCellType("Sheet1", cell)
			require.NoError(t, err)
			assert.Contains(t, []excelize.CellType{excelize.CellTypeUnset, excelize.CellTypeNumber}, cellType, cell)
		}
		value, err := f.GetCellValue("Sheet1", "E2", excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		assert.Equal(t, "15000", value)

		rows, err := f.GetRows("Sheet1")
		require.NoError(t, err)
		assert.Equal(t, []string{"Name", "Designation", "Start Date", "End Date", "Stipend", "Unnamed: 5", "Name.1", "Unique ID"}, rows[0])
		assert.Equal(t, []string{"Jane Doe", "Software Intern", "01-02-2025", "31-07-2025", "15000", "2.5", "Janie", "IE-001-K48213"}, rows[1])
	})

	t.Run("overwrites previous table", func(t *testing.T) {
		path := filepath.Join(dir, "again.xlsx")
		require.NoError(t, writer.Write(path, headers, recipients))
		require.NoError(t, writer.Write(path, headers, recipients[:1]))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Sheet1")
		require.NoError(t, err)
		assert.Len(t, rows, 2)

		matches, err := filepath.Glob(filepath.Join(dir, ".table-*"))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("existing unique id column is reused", func(t *testing.T) {
		out := OutputHeaders([]string{"Name", "Unique ID", "Start Date"})
		assert.Equal(t, []string{"Name", "Unique ID", "Start Date"}, out)
		assert.Equal(t, []interface{}{"Jane Doe", "IE-001-K48213", "01-02-2025"}, OutputRow(out, &models.Recipient{
			StartDate: date(2025, time.February, 1),
			Cells:     map[string]string{"Name": "Jane Doe", "Unique ID": "stale"},
			UniqueID:  "IE-001-K48213",
		}))
	})
}
