package core

import (
	"strings"
	"testing"
)

func TestValidateFields(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		wantFields []string
	}{
		{name: "valid", fields: map[string]string{FieldCompany: "Acme", FieldRole: "Dev", FieldStatus: "oferta"}},
		{name: "missing company", fields: map[string]string{FieldRole: "Dev", FieldStatus: "APPLIED"}, wantFields: []string{FieldCompany}},
		{name: "blank role", fields: map[string]string{FieldCompany: "Acme", FieldRole: "  ", FieldStatus: "APPLIED"}, wantFields: []string{FieldRole}},
		{name: "unknown status", fields: map[string]string{FieldCompany: "Acme", FieldRole: "Dev", FieldStatus: "PENDING"}, wantFields: []string{FieldStatus}},
		{name: "everything missing", fields: map[string]string{}, wantFields: []string{FieldCompany, FieldRole, FieldStatus}},
	}

	n := fixedNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			get := func(f string) string { return tt.fields[f] }

			errs := ValidateFields(3, get)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %d issues %v, want fields %v", len(errs), errs, tt.wantFields)
			}
			for i, e := range errs {
				if e.Field != tt.wantFields[i] || e.Row != 3 {
					t.Errorf("issue %d = %+v, want field %s row 3", i, e, tt.wantFields[i])
				}
			}

			// Issues are reported exactly when the normalizer drops the record.
			if _, ok := n.NormalizeFields(get); ok != (len(errs) == 0) {
				t.Errorf("NormalizeFields ok = %v with %d issues", ok, len(errs))
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Row: 2, Field: FieldStatus, Value: "PENDING", Message: "bad"}
	if got := e.Error(); got != "row 2: status: bad" {
		t.Errorf("Error() = %q", got)
	}
	if got := (ValidationError{Row: 1, Message: "x"}).Error(); got != "row 1: x" {
		t.Errorf("Error() = %q", got)
	}
}

func TestPreview_Issues(t *testing.T) {
	svc, _ := newTestService(newMemRepo())

	p, err := svc.PreviewCSV(strings.NewReader("company,role,status\nAcme,Dev,APPLIED\n,Dev,APPLIED\nAcme,,PENDING\n"))
	if err != nil {
		t.Fatalf("PreviewCSV() error = %v", err)
	}
	if p.Dropped != 2 || len(p.Issues) != 3 {
		t.Fatalf("preview = %+v", p)
	}
	if p.Issues[0].Row != 2 || p.Issues[0].Field != FieldCompany {
		t.Errorf("first issue = %+v", p.Issues[0])
	}
	if p.Issues[2].Row != 3 || p.Issues[2].Value != "PENDING" {
		t.Errorf("last issue = %+v", p.Issues[2])
	}
}

func TestAppendIssues_Capped(t *testing.T) {
	var issues []ValidationError
	for i := 0; i < maxPreviewIssues+10; i++ {
		issues = appendIssues(issues, []ValidationError{{Row: i + 1, Message: "x"}})
	}
	if len(issues) != maxPreviewIssues {
		t.Errorf("len = %d, want %d", len(issues), maxPreviewIssues)
	}
}
