package table

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX loads the first sheet of an XLSX workbook into a Table with the
// same all-text, N/A-filled shape ReadCSV produces.
func ReadXLSX(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "table: open xlsx %s", path)
	}
	return fromWorkbook(f, filepath.Base(path))
}

func fromWorkbook(f *xlsx.File, source string) (*Table, error) {
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("table: %s has no sheets", source)
	}

	sheet := f.Sheets[0]
	records := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.String()
		}
		records = append(records, cells)
	}

	return fromRecords(records, source)
}

// ReadUpload parses an in-memory upload, dispatching on the filename
// extension like ReadFile.
func ReadUpload(data []byte, filename string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		f, err := xlsx.OpenBinary(data)
		if err != nil {
			return nil, eris.Wrapf(err, "table: open xlsx %s", filename)
		}
		return fromWorkbook(f, filepath.Base(filename))
	}
	return ReadCSVBytes(data, filepath.Base(filename))
}

// ReadFile dispatches on the file extension: .xlsx workbooks go through
// ReadXLSX, everything else is treated as delimited text.
func ReadFile(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}
	return readCSVFile(path)
}
