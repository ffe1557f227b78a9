package table

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

func readCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "table: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(f, filepath.Base(path))
}
