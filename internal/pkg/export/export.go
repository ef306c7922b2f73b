// Package export renders tabular projections as downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// File is a rendered download.
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Table is a header row plus string cells, one slice per row.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render dispatches on format; an empty format means CSV.
func Render(format, basename, sheet string, t Table) (File, error) {
	switch format {
	case "", FormatCSV:
		return CSV(basename+".csv", t)
	case FormatXLSX:
		return XLSX(basename+".xlsx", sheet, t)
	default:
		return File{}, fmt.Errorf("unsupported export format %q", format)
	}
}

func CSV(filename string, t Table) (File, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Headers); err != nil {
		return File{}, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return File{}, fmt.Errorf("failed to write csv rows: %w", err)
	}

	return File{Filename: filename, ContentType: ContentTypeCSV, Content: buf.Bytes()}, nil
}

func XLSX(filename, sheet string, t Table) (File, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return File{}, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return File{}, fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return File{}, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, sheet, 1, t.Headers); err != nil {
		return File{}, err
	}
	if len(t.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return File{}, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, row := range t.Rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return File{}, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return File{}, fmt.Errorf("failed to write workbook: %w", err)
	}

	return File{Filename: filename, ContentType: ContentTypeXLSX, Content: buf.Bytes()}, nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []string) error {
	if len(cells) == 0 {
		return nil
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
