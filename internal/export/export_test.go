package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtrack/internal/lead"
)

func day(y int, m time.Month, d int) lead.Date {
	return lead.Date{Year: y, Month: m, Day: d}
}

func sampleRows() []lead.ExportRow {
	return []lead.ExportRow{
		{
			Date:        day(2024, time.May, 1),
			Name:        "Asha",
			PhoneNumber: "+919876543210",
			Label:       lead.LabelGreen,
			Model:       "Pump",
			RemindDate:  day(2024, time.May, 10),
			Description: "wants a quote for the 2HP model",
		},
		{
			Date:        day(2024, time.May, 2),
			Name:        "Ravi",
			PhoneNumber: "+919123456780",
			Label:       lead.LabelRed,
			Model:       "Motor",
		},
	}
}

func TestRangeFilename(t *testing.T) {
	tests := []struct {
		start, end lead.Date
		want       string
	}{
		{start: day(2024, time.May, 1), end: day(2024, time.June, 3), want: "1May-3Jun2024-callData.xlsx"},
		{start: day(2023, time.December, 31), end: day(2024, time.January, 1), want: "31Dec-1Jan2024-callData.xlsx"},
		{start: day(2024, time.May, 5), end: day(2024, time.May, 5), want: "5May-5May2024-callData.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, RangeFilename(tt.start, tt.end))
		})
	}
}

func TestWriter_WriteRange(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "downloads"), nil)

	path, err := w.WriteRange(day(2024, time.May, 1), day(2024, time.May, 2), sampleRows())
	require.NoError(t, err)
	assert.Equal(t, "1May-2May2024-callData.xlsx", filepath.Base(path))

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"01-05-2024", "Asha", "+919876543210", "Green", "Pump", "10-05-2024", "wants a quote for the 2HP model"}, rows[1])
	require.GreaterOrEqual(t, len(rows[2]), 5)
	assert.Equal(t, []string{"02-05-2024", "Ravi", "+919123456780", "Red", "Motor"}, rows[2][:5])
	for _, cell := range rows[2][5:] {
		assert.Empty(t, cell)
	}
}

func TestWriter_WriteAll(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)

	path, err := w.WriteAll(sampleRows())
	require.NoError(t, err)
	assert.Equal(t, AllFilename, filepath.Base(path))

	// Writing again replaces the file.
	path, err = w.WriteAll(sampleRows()[:1])
	require.NoError(t, err)
	rows, err := ReadRows(path)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestWriter_NoData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	w := NewWriter(dir, nil)

	_, err := w.WriteAll(nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "downloads directory should not be created for an empty export")
}

func TestBuild_ColumnWidths(t *testing.T) {
	book, err := Build(sampleRows())
	require.NoError(t, err)
	defer book.Close()

	width, err := book.GetColWidth(SheetName, "G")
	require.NoError(t, err)
	assert.Equal(t, float64(len("wants a quote for the 2HP model")+2), width)

	width, err = book.GetColWidth(SheetName, "D")
	require.NoError(t, err)
	assert.Equal(t, float64(len("Label")+2), width)
}

func TestWriter_Downloads(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, nil)

	_, err := w.WriteRange(day(2024, time.May, 1), day(2024, time.May, 2), sampleRows())
	require.NoError(t, err)
	allPath, err := w.WriteAll(sampleRows())
	require.NoError(t, err)
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(allPath, later, later))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("keep"), 0644))

	files, err := w.List()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, AllFilename, files[0].Name)

	require.NoError(t, w.Delete(AllFilename))
	assert.Error(t, w.Delete("notes.txt"))
	assert.Error(t, w.Delete("../escape.xlsx"))

	n, err := w.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	files, err = w.List()
	require.NoError(t, err)
	assert.Empty(t, files)
	_, err = os.Stat(filepath.Join(root, "notes.txt"))
	assert.NoError(t, err)
}
