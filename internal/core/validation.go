package core

// validation.go explains why the normalizer drops a record.
//
// Normalization itself only answers keep/drop. Preview uses these checks to
// tell the user which rows will be dropped and why, without changing what
// gets imported: a record has issues exactly when NormalizeFields rejects it.

import (
	"fmt"
	"strings"
)

// maxPreviewIssues caps the issues returned by a preview.
const maxPreviewIssues = 100

// ValidationError describes one reason a record will not be imported.
type ValidationError struct {
	Row     int    `json:"row"`             // 1-based data row or array index
	Field   string `json:"field,omitempty"` // canonical field name
	Value   string `json:"value,omitempty"` // the rejected value
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ValidateFields returns every reason NormalizeFields would reject the values
// from get. An empty result means the record is kept.
func ValidateFields(row int, get func(field string) string) []ValidationError {
	var errs []ValidationError

	for _, field := range []string{FieldCompany, FieldRole} {
		if strings.TrimSpace(get(field)) == "" {
			errs = append(errs, ValidationError{
				Row:     row,
				Field:   field,
				Message: "required field is empty",
			})
		}
	}

	raw := get(FieldStatus)
	if _, ok := NormalizeStatus(raw); !ok {
		msg := "value must be one of: APPLIED, INTERVIEW, OFFER, REJECTED"
		if strings.TrimSpace(raw) == "" {
			msg = "required field is empty"
		}
		errs = append(errs, ValidationError{
			Row:     row,
			Field:   FieldStatus,
			Value:   strings.TrimSpace(raw),
			Message: msg,
		})
	}

	return errs
}

// ValidateRow checks a CSV data row. row is its 1-based position below the header.
func ValidateRow(row int, cells []string, idx HeaderIndex) []ValidationError {
	return ValidateFields(row, func(field string) string {
		return idx.Cell(cells, field)
	})
}

// ValidateRecord checks a decoded JSON object. row is its 1-based array position.
func ValidateRecord(row int, rec Record) []ValidationError {
	fields := rec.canonical()
	return ValidateFields(row, func(field string) string {
		return fields[field]
	})
}

// appendIssues adds errs to issues, keeping at most maxPreviewIssues.
func appendIssues(issues, errs []ValidationError) []ValidationError {
	room := maxPreviewIssues - len(issues)
	if room <= 0 {
		return issues
	}
	if len(errs) > room {
		errs = errs[:room]
	}
	return append(issues, errs...)
}
