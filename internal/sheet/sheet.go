// Package sheet reads ledger exports (xlsx, xls, csv) into a plain cell grid.
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// Table is a rectangular grid of trimmed cell text. Row 0 is whatever the
// file's first row is; header detection happens later.
type Table [][]string

// Width returns the length of the longest row.
func (t Table) Width() int {
	w := 0
	for _, row := range t {
		w = max(w, len(row))
	}

	return w
}

// Cell returns the trimmed value at (row, col) or "" when out of range.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t) {
		return ""
	}

	if col < 0 || col >= len(t[row]) {
		return ""
	}

	return t[row][col]
}

// From returns the rows starting at offset, or nil if the table is shorter.
func (t Table) From(offset int) Table {
	if offset >= len(t) {
		return nil
	}

	return t[offset:]
}

// IsEmptyRow reports whether every cell of row is blank.
func IsEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

// Format identifies a supported input container.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// DetectFormat picks a reader from the file name extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
}

// Read loads the first sheet of the named file.
func Read(name string, r io.Reader) (Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	var t Table

	switch format {
	case FormatXLSX:
		t, err = readXLSX(r)
	case FormatXLS:
		data, rerr := io.ReadAll(r)
		if rerr != nil {
			return nil, fmt.Errorf("reading xls: %w", rerr)
		}

		t, err = readXLS(bytes.NewReader(data))
	case FormatCSV:
		t, err = readCSV(r)
	}

	if err != nil {
		return nil, err
	}

	return pad(t), nil
}

func pad(t Table) Table {
	w := t.Width()

	for i, row := range t {
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}

		if len(row) < w {
			t[i] = append(row, make([]string, w-len(row))...)
		}
	}

	return t
}
