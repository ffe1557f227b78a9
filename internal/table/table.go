// Package table reads uploaded CSV and XLSX exports into a uniform all-text
// in-memory table.
package table

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MissingCell is the sentinel written into empty cells so downstream
// substring and regex operations never see a null.
const MissingCell = "N/A"

// Table holds one uploaded export: ordered column names plus row maps.
// Every cell is text; numeric and date typing happens later so large
// numeric-looking IDs are never silently mangled.
type Table struct {
	Source  string
	Columns []string
	Rows    []map[string]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns every value of the named column in row order.
func (t *Table) Column(name string) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[name]
	}
	return out
}

// AddColumn appends a column filled with a constant value, used to
// synthesize fallbacks for missing semantic fields.
func (t *Table) AddColumn(name, value string) {
	t.Columns = append(t.Columns, name)
	for _, row := range t.Rows {
		row[name] = value
	}
}

// delimiterCandidates are tried during auto-detection, most common first.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// ReadCSV parses delimited text into a Table. The decode tolerates a UTF-8
// byte-order mark, honors a leading "sep=<char>" directive, auto-detects the
// delimiter otherwise, and fills missing cells with MissingCell.
func ReadCSV(r io.Reader, source string) (*Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, eris.Wrap(err, "table: read input")
	}

	text := string(data)
	delimiter := rune(0)

	// A "sep=;" first line is an Excel delimiter hint, not data.
	if strings.HasPrefix(text, "sep=") {
		line, rest, _ := strings.Cut(text, "\n")
		if hint := strings.TrimRight(strings.TrimPrefix(line, "sep="), "\r"); len(hint) == 1 {
			delimiter = rune(hint[0])
		}
		text = rest
	}

	if delimiter == 0 {
		delimiter = detectDelimiter(text)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "table: parse csv")
	}

	return fromRecords(records, source)
}

// detectDelimiter picks the candidate occurring most often in the first
// non-empty line. Comma wins ties and empty input.
func detectDelimiter(text string) rune {
	var line string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	best := ','
	bestCount := 0
	for _, cand := range delimiterCandidates {
		if n := strings.Count(line, string(cand)); n > bestCount {
			best = cand
			bestCount = n
		}
	}
	return best
}

// fromRecords builds a Table from raw rows: first row is the header, short
// rows are padded, and empty cells become MissingCell.
func fromRecords(records [][]string, source string) (*Table, error) {
	if len(records) == 0 {
		return nil, eris.Errorf("table: %s has no rows", source)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Source: source, Columns: header}
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			val := ""
			if i < len(rec) {
				val = strings.TrimSpace(rec[i])
			}
			if val == "" {
				val = MissingCell
			}
			row[col] = val
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadCSVBytes is a convenience wrapper over ReadCSV.
func ReadCSVBytes(data []byte, source string) (*Table, error) {
	return ReadCSV(bytes.NewReader(data), source)
}

// Merge concatenates tables row-wise. Columns are the union in first-seen
// order; rows missing a column get MissingCell.
func Merge(tables ...*Table) *Table {
	merged := &Table{}
	seen := make(map[string]bool)
	var sources []string

	for _, t := range tables {
		if t == nil {
			continue
		}
		sources = append(sources, t.Source)
		for _, col := range t.Columns {
			if !seen[col] {
				seen[col] = true
				merged.Columns = append(merged.Columns, col)
			}
		}
	}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, row := range t.Rows {
			out := make(map[string]string, len(merged.Columns))
			for _, col := range merged.Columns {
				if v, ok := row[col]; ok {
					out[col] = v
				} else {
					out[col] = MissingCell
				}
			}
			merged.Rows = append(merged.Rows, out)
		}
	}

	merged.Source = strings.Join(sources, "+")
	return merged
}
