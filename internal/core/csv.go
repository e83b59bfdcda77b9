package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCSV reads quote-aware CSV text into rows of cells.
//
// Fields may be wrapped in double quotes, with "" as an escaped quote; commas
// and newlines inside quotes do not split. Every carriage return is dropped
// before parsing, including inside quoted cells, so CRLF files behave like LF
// files and a cell exported with "\r\n" reads back with "\n". Rows whose
// cells are all blank are discarded. Rows may have differing lengths.
//
// Returns an error wrapping ErrInvalidFormat if the input cannot be read or
// fewer than two rows (header plus data) remain. A size limit applied by the
// caller surfaces as ErrFileTooLarge.
func ParseCSV(r io.Reader) ([][]string, error) {
	data, err := readImport(r, "csv")
	if err != nil {
		return nil, err
	}
	data = bytes.ReplaceAll(data, []byte{'\r'}, nil)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %v", ErrInvalidFormat, err)
	}

	rows := records[:0]
	for _, rec := range records {
		if isEmptyRow(rec) {
			continue
		}
		rows = append(rows, rec)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: csv needs a header and at least one data row", ErrInvalidFormat)
	}

	return rows, nil
}

// EscapeCSVCell quotes a cell for CSV output when it contains a comma, a double
// quote or a line break. Inner double quotes are doubled. Carriage returns are
// written as is for spreadsheet tools; ParseCSV does not preserve them.
func EscapeCSVCell(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
