package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Export content types.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeJSON = "application/json; charset=utf-8"
)

// exportedAtLayout matches JavaScript's Date.toISOString (UTC, milliseconds).
const exportedAtLayout = "2006-01-02T15:04:05.000Z"

// ToBackupEntry converts a stored application to its export form.
// A missing priority is written as MEDIUM; empty optional values become null.
func ToBackupEntry(app Application) BackupEntry {
	priority := app.Priority
	if !priority.Valid() {
		priority = PriorityMedium
	}
	return BackupEntry{
		Company:      app.Company,
		Role:         app.Role,
		Status:       app.Status,
		Priority:     priority,
		AppliedDate:  nonEmpty(app.AppliedDate),
		FollowUpDate: nonEmpty(app.FollowUpDate),
		Salary:       nonEmpty(app.Salary),
		JobURL:       nonEmpty(app.JobURL),
		Notes:        nonEmpty(app.Notes),
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ExportCSV renders applications as CSV text with the canonical header.
// Rows are separated by "\n". The input is not modified.
func ExportCSV(apps []Application) []byte {
	var b strings.Builder

	cols := Columns()
	for i, col := range cols {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeCSVCell(col))
	}

	for _, app := range apps {
		e := ToBackupEntry(app)
		cells := []string{
			e.Company,
			e.Role,
			string(e.Status),
			string(e.Priority),
			deref(e.AppliedDate),
			deref(e.FollowUpDate),
			deref(e.Salary),
			deref(e.JobURL),
			deref(e.Notes),
		}

		b.WriteByte('\n')
		for i, cell := range cells {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(EscapeCSVCell(cell))
		}
	}

	return []byte(b.String())
}

// ExportJSON renders applications as a pretty-printed backup document.
func ExportJSON(apps []Application, now time.Time) ([]byte, error) {
	doc := BackupDocument{
		Version:      BackupVersion,
		ExportedAt:   now.UTC().Format(exportedAtLayout),
		Applications: make([]BackupEntry, len(apps)),
	}
	for i, app := range apps {
		doc.Applications[i] = ToBackupEntry(app)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return data, nil
}

// ExportFileName returns the conventional download name for an export.
func ExportFileName(format Format, now time.Time) string {
	date := Today(now)
	if format == FormatJSON {
		return "job-tracker-backup-" + date + ".json"
	}
	return "job-tracker-applications-" + date + ".csv"
}
