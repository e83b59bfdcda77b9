package core

// normalize.go converts free-form import input into creation payloads.
//
// The rules are deliberately forgiving: only company, role and status can
// reject a record. Everything else falls back to a default (MEDIUM priority,
// today's applied date) or to null. Normalization never returns per-row
// errors; a rejected record is simply not produced.

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the ISO date format used on the wire.
const DateLayout = "2006-01-02"

var (
	isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	brDateRegex  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// statusSynonyms maps lowercase English and Portuguese status names to statuses.
var statusSynonyms = map[string]Status{
	"applied":    StatusApplied,
	"aplicada":   StatusApplied,
	"interview":  StatusInterview,
	"entrevista": StatusInterview,
	"offer":      StatusOffer,
	"oferta":     StatusOffer,
	"rejected":   StatusRejected,
	"rejeitada":  StatusRejected,
}

// prioritySynonyms maps lowercase English and Portuguese priority names to priorities.
var prioritySynonyms = map[string]Priority{
	"high":   PriorityHigh,
	"alta":   PriorityHigh,
	"medium": PriorityMedium,
	"media":  PriorityMedium,
	"média":  PriorityMedium,
	"low":    PriorityLow,
	"baixa":  PriorityLow,
}

// NormalizeStatus resolves a status name case-insensitively.
// Returns false if the value is not a known status.
func NormalizeStatus(s string) (Status, bool) {
	status, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(s))]
	return status, ok
}

// NormalizePriority resolves a priority name case-insensitively.
// Unknown or empty values default to PriorityMedium.
func NormalizePriority(s string) Priority {
	if p, ok := prioritySynonyms[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p
	}
	return PriorityMedium
}

// NormalizeDate accepts YYYY-MM-DD verbatim and rewrites DD/MM/YYYY to
// YYYY-MM-DD. Returns false for anything else, including empty input and
// dates that do not exist on the calendar (2024-13-45, 31/02/2024).
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	var d string
	switch {
	case isoDateRegex.MatchString(s):
		d = s
	case brDateRegex.MatchString(s):
		m := brDateRegex.FindStringSubmatch(s)
		d = m[3] + "-" + pad2(m[2]) + "-" + pad2(m[1])
	default:
		return "", false
	}
	if _, err := time.Parse(DateLayout, d); err != nil {
		return "", false
	}
	return d, true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// optionalDate returns a normalized date or nil.
func optionalDate(s string) *string {
	d, ok := NormalizeDate(s)
	if !ok {
		return nil
	}
	return &d
}

// optionalText trims s and returns nil when nothing is left.
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Today returns the local calendar date of now as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.Local().Format(DateLayout)
}

// Normalizer turns raw records into creation payloads.
type Normalizer struct {
	// Now returns the current time; used for the default applied date.
	Now func() time.Time
}

// NewNormalizer returns a Normalizer using the wall clock.
func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now}
}

// NormalizeFields builds a payload from canonical field values.
// Returns false if company, role or status cannot be normalized.
func (n *Normalizer) NormalizeFields(get func(field string) string) (NewApplication, bool) {
	company := strings.TrimSpace(get(FieldCompany))
	role := strings.TrimSpace(get(FieldRole))
	if company == "" || role == "" {
		return NewApplication{}, false
	}

	status, ok := NormalizeStatus(get(FieldStatus))
	if !ok {
		return NewApplication{}, false
	}

	applied, ok := NormalizeDate(get(FieldAppliedDate))
	if !ok {
		applied = Today(n.now())
	}

	return NewApplication{
		Company:      company,
		Role:         role,
		Status:       status,
		Priority:     NormalizePriority(get(FieldPriority)),
		AppliedDate:  applied,
		FollowUpDate: optionalDate(get(FieldFollowUpDate)),
		Salary:       optionalText(get(FieldSalary)),
		JobURL:       optionalText(get(FieldJobURL)),
		Notes:        optionalText(get(FieldNotes)),
	}, true
}

// NormalizeRow builds a payload from a CSV data row.
func (n *Normalizer) NormalizeRow(row []string, idx HeaderIndex) (NewApplication, bool) {
	return n.NormalizeFields(func(field string) string {
		return idx.Cell(row, field)
	})
}

// NormalizeRecord builds a payload from a decoded JSON object.
// Keys are resolved through the same aliases as CSV headers.
func (n *Normalizer) NormalizeRecord(rec Record) (NewApplication, bool) {
	fields := rec.canonical()
	return n.NormalizeFields(func(field string) string {
		return fields[field]
	})
}

func (n *Normalizer) now() time.Time {
	if n == nil || n.Now == nil {
		return time.Now()
	}
	return n.Now()
}
