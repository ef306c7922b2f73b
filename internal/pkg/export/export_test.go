package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sample = Table{
	Headers: []string{"start_date", "end_date", "reason", "status"},
	Rows: [][]string{
		{"2024-05-02", "2024-05-03", "family, travel", "pending"},
		{"2024-01-10", "2024-01-10", "sick", "approved"},
	},
}

func TestCSV(t *testing.T) {
	file, err := CSV("leave_report.csv", sample)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeCSV, file.ContentType)
	assert.Equal(t, "leave_report.csv", file.Filename)

	records, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, sample.Headers, records[0])
	assert.Equal(t, "family, travel", records[1][2])
}

func TestXLSX(t *testing.T) {
	file, err := XLSX("attendance.xlsx", "Attendance", sample)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeXLSX, file.ContentType)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, sample.Headers, rows[0])
	assert.Equal(t, "approved", rows[2][3])
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render("pdf", "attendance", "Attendance", sample)
	assert.Error(t, err)
}
