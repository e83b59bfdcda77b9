package core

// fields.go defines the canonical application columns and resolves incoming
// CSV headers (or JSON object keys) onto them.
//
// Header matching is case-insensitive and bilingual: each canonical field
// lists the English and Portuguese names it accepts. Resolution happens once
// per file, before any row is normalized, so a file missing a mandatory
// column is rejected without touching its data.

import (
	"fmt"
	"strings"
)

// Canonical field names, in CSV column order.
const (
	FieldCompany      = "company"
	FieldRole         = "role"
	FieldStatus       = "status"
	FieldPriority     = "priority"
	FieldAppliedDate  = "appliedDate"
	FieldFollowUpDate = "followUpDate"
	FieldSalary       = "salary"
	FieldJobURL       = "jobUrl"
	FieldNotes        = "notes"
)

// FieldType represents how a field value is normalized.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
)

// FieldSpec describes one canonical column.
type FieldSpec struct {
	Name     string    // Canonical name, also the exported CSV header
	Aliases  []string  // Accepted header names, lowercase
	Type     FieldType // How the value is normalized
	Required bool      // Column must exist in the header
}

// FieldSpecs lists the canonical columns in export order.
var FieldSpecs = []FieldSpec{
	{Name: FieldCompany, Type: FieldText, Required: true, Aliases: []string{"company", "empresa"}},
	{Name: FieldRole, Type: FieldText, Required: true, Aliases: []string{"role", "vaga", "cargo"}},
	{Name: FieldStatus, Type: FieldEnum, Required: true, Aliases: []string{"status", "situacao", "situação"}},
	{Name: FieldPriority, Type: FieldEnum, Aliases: []string{"priority", "prioridade"}},
	{Name: FieldAppliedDate, Type: FieldDate, Aliases: []string{"applieddate", "applied_date", "data_aplicacao", "data_aplicação", "data aplicação", "data aplicacao"}},
	{Name: FieldFollowUpDate, Type: FieldDate, Aliases: []string{"followupdate", "follow_up_date", "data_followup", "data_follow_up"}},
	{Name: FieldSalary, Type: FieldText, Aliases: []string{"salary", "salario", "salário"}},
	{Name: FieldJobURL, Type: FieldText, Aliases: []string{"joburl", "job_url", "url", "link"}},
	{Name: FieldNotes, Type: FieldText, Aliases: []string{"notes", "notas", "observacoes", "observações"}},
}

// headerAliases maps every accepted lowercase header to its canonical field.
var headerAliases = buildHeaderAliases(FieldSpecs)

func buildHeaderAliases(specs []FieldSpec) map[string]string {
	m := make(map[string]string)
	for _, spec := range specs {
		for _, alias := range spec.Aliases {
			m[alias] = spec.Name
		}
	}
	return m
}

// Columns returns the canonical column names in export order.
func Columns() []string {
	cols := make([]string, len(FieldSpecs))
	for i, spec := range FieldSpecs {
		cols[i] = spec.Name
	}
	return cols
}

// CanonicalField returns the canonical field for a header or object key.
// Returns false if the name is not a known alias.
func CanonicalField(name string) (string, bool) {
	field, ok := headerAliases[strings.ToLower(CleanCell(name))]
	return field, ok
}

// HeaderIndex maps canonical field names to their position in a CSV row.
type HeaderIndex map[string]int

// ResolveHeaders builds a HeaderIndex from a CSV header row.
// When a field appears under several aliases the first column wins.
// Returns an error wrapping ErrInvalidFormat if a required column is missing.
func ResolveHeaders(header []string) (HeaderIndex, error) {
	idx := make(HeaderIndex, len(FieldSpecs))
	for i, h := range header {
		field, ok := CanonicalField(h)
		if !ok {
			continue
		}
		if _, seen := idx[field]; !seen {
			idx[field] = i
		}
	}

	var missing []string
	for _, spec := range FieldSpecs {
		if !spec.Required {
			continue
		}
		if _, ok := idx[spec.Name]; !ok {
			missing = append(missing, spec.Name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrInvalidFormat, strings.Join(missing, ", "))
	}

	return idx, nil
}

// Cell returns the raw value for a canonical field, or "" when the column is
// absent or the row is short.
func (h HeaderIndex) Cell(row []string, field string) string {
	pos, ok := h[field]
	if !ok || pos >= len(row) {
		return ""
	}
	return row[pos]
}

// CleanCell removes common spreadsheet artifacts from a cell value:
//   - Trims whitespace
//   - Removes a leading UTF-8 BOM
//   - Removes Excel formula wrapping (="...")
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}

	return s
}
