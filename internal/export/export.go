// Package export writes caller activity to spreadsheet files in the
// downloads directory and manages the files written there.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"leadtrack/internal/fs"
	"leadtrack/internal/lead"
)

// AllFilename is the file written by an all-time export.
const AllFilename = "allUsersCallData.xlsx"

// SheetName is the single sheet of an export workbook.
const SheetName = "Call Data"

// cellDateLayout is how dates appear in export cells (DD-MM-YYYY).
const cellDateLayout = "02-01-2006"

// ErrNoData is returned when there are no rows to export.
var ErrNoData = errors.New("no data to export")

// Header is the first row of every export.
var Header = []string{"Date", "Name", "PhoneNumber", "Label", "Model", "RemindDate", "Description"}

// Writer writes export workbooks into a downloads directory.
type Writer struct {
	dir    *fs.Dir
	logger lead.Logger
}

// NewWriter returns a Writer for the downloads directory at root.
func NewWriter(root string, logger lead.Logger) *Writer {
	if logger == nil {
		logger = lead.NewNopLogger()
	}
	return &Writer{dir: fs.NewDir(root, "*.xlsx"), logger: logger}
}

// Dir returns the downloads directory path.
func (w *Writer) Dir() string { return w.dir.Root() }

// RangeFilename names the export of start..end, e.g. 1May-3Jun2024-callData.xlsx.
func RangeFilename(start, end lead.Date) string {
	return fmt.Sprintf("%s-%s-callData.xlsx", start.Format("2Jan"), end.Format("2Jan2006"))
}

// WriteRange writes rows as the export of start..end and returns the file path.
func (w *Writer) WriteRange(start, end lead.Date, rows []lead.ExportRow) (string, error) {
	return w.write(RangeFilename(start, end), rows)
}

// WriteAll writes rows as the all-time export and returns the file path.
func (w *Writer) WriteAll(rows []lead.ExportRow) (string, error) {
	return w.write(AllFilename, rows)
}

func (w *Writer) write(name string, rows []lead.ExportRow) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoData
	}
	if err := w.dir.Ensure(); err != nil {
		return "", err
	}

	book, err := Build(rows)
	if err != nil {
		return "", err
	}
	defer func() { _ = book.Close() }()

	buf, err := book.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("encoding workbook: %w", err)
	}

	path := filepath.Join(w.dir.Root(), name)
	if err := fs.WriteAtomic(path, buf, int64(buf.Len())); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	w.logger.Info("export written", "file", name, "rows", len(rows))
	return path, nil
}

// Build lays rows out in a new workbook below the header row. Each column
// is sized to its longest cell.
func Build(rows []lead.ExportRow) (*excelize.File, error) {
	book := excelize.NewFile()
	if err := book.SetSheetName(book.GetSheetName(0), SheetName); err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	widths := make([]int, len(Header))
	put := func(rowNum int, cells []string) error {
		for i, c := range cells {
			widths[i] = max(widths[i], utf8.RuneCountInString(c))
		}
		ref, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return book.SetSheetRow(SheetName, ref, &cells)
	}

	if err := put(1, Header); err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		if err := put(i+2, cells(r)); err != nil {
			_ = book.Close()
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			_ = book.Close()
			return nil, err
		}
		if err := book.SetColWidth(SheetName, col, col, float64(width+2)); err != nil {
			_ = book.Close()
			return nil, fmt.Errorf("sizing column %s: %w", col, err)
		}
	}
	return book, nil
}

func cells(r lead.ExportRow) []string {
	return []string{
		r.Date.Format(cellDateLayout),
		r.Name,
		r.PhoneNumber,
		r.Label.String(),
		r.Model,
		r.RemindDate.Format(cellDateLayout),
		r.Description,
	}
}

// ReadRows returns the cell text of the export at path, header included.
func ReadRows(path string) ([][]string, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = book.Close() }()
	return book.GetRows(SheetName)
}

// List returns the exports in the downloads directory, newest first.
func (w *Writer) List() ([]fs.FileInfo, error) {
	return w.dir.List()
}

// Delete removes one export by file name.
func (w *Writer) Delete(name string) error {
	if err := w.dir.Remove(name); err != nil {
		return err
	}
	w.logger.Info("export deleted", "file", name)
	return nil
}

// DeleteAll removes every export and reports how many were removed.
func (w *Writer) DeleteAll() (int, error) {
	n, err := w.dir.RemoveAll()
	if err != nil {
		return n, err
	}
	w.logger.Info("exports deleted", "count", n)
	return n, nil
}
