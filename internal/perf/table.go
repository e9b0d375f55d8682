package perf

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Table is a CSV file held in memory. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}
	seen := make(map[string]bool, len(records[0]))
	for _, h := range records[0] {
		if seen[h] {
			return nil, errors.Errorf("reading %s: duplicate column %q", path, h)
		}
		seen[h] = true
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}

func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

// Column returns the index of name, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Concat stacks tables row-wise. The header is the union of all headers in
// first-seen order; cells a table lacks are left empty.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	index := map[string]int{}
	for _, t := range tables {
		for _, h := range t.Header {
			if _, ok := index[h]; !ok {
				index[h] = len(out.Header)
				out.Header = append(out.Header, h)
			}
		}
	}
	for _, t := range tables {
		for _, row := range t.Rows {
			cells := make([]string, len(out.Header))
			for i, v := range row {
				if i < len(t.Header) {
					cells[index[t.Header[i]]] = v
				}
			}
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}

// SortRows orders rows by every column left to right. A column whose
// non-empty cells all parse as numbers sorts numerically, any other column
// sorts as strings. Empty cells sort last.
func (t *Table) SortRows() {
	numeric := make([]bool, len(t.Header))
	for k := range t.Header {
		numeric[k] = t.numericColumn(k)
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i], t.Rows[j]
		for k := range a {
			if c := compareCells(a[k], b[k], k < len(numeric) && numeric[k]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func (t *Table) numericColumn(k int) bool {
	for _, row := range t.Rows {
		if k >= len(row) || row[k] == "" {
			continue
		}
		if _, err := strconv.ParseFloat(row[k], 64); err != nil {
			return false
		}
	}
	return true
}

func compareCells(a, b string, numeric bool) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	if numeric {
		fa, _ := strconv.ParseFloat(a, 64)
		fb, _ := strconv.ParseFloat(b, 64)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
