package store

// convert.go maps between core's string-based application fields and the
// pgtype values stored in job_applications.
//
// All toPg* functions return Valid=false for nil or blank input, so empty
// optional fields are stored as NULL.

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/jobtracker/internal/core"
	"github.com/jackc/pgx/v5/pgtype"
)

func toPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: v, Valid: true}
}

// toPgDate parses a YYYY-MM-DD date. Anything else is stored as NULL.
func toPgDate(s *string) pgtype.Date {
	if s == nil {
		return pgtype.Date{Valid: false}
	}
	t, err := time.Parse(core.DateLayout, strings.TrimSpace(*s))
	if err != nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func fromPgText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func fromPgDate(d pgtype.Date) *string {
	if !d.Valid {
		return nil
	}
	s := d.Time.Format(core.DateLayout)
	return &s
}

// newStatusChange converts a status_history row. A NULL from_status marks the
// entry written on creation.
func newStatusChange(id int64, from pgtype.Text, to string, at pgtype.Timestamptz) core.StatusChange {
	change := core.StatusChange{ID: id, ToStatus: core.Status(to)}
	if from.Valid {
		status := core.Status(from.String)
		change.FromStatus = &status
	}
	if at.Valid {
		change.ChangedAt = at.Time.Local().Format(core.ChangedAtLayout)
	}
	return change
}

// sortColumns maps the API sort properties onto table columns.
var sortColumns = map[string]string{
	"appliedDate": "applied_date",
	"company":     "company",
	"role":        "role",
	"status":      "status",
	"priority":    "priority",
	"id":          "id",
}

// orderBy converts a "property,direction" sort into an ORDER BY clause.
// An empty sort orders by id. The id tiebreaker keeps paging stable.
func orderBy(sort string) (string, error) {
	if strings.TrimSpace(sort) == "" {
		return "id ASC", nil
	}

	prop, dir, _ := strings.Cut(sort, ",")
	col, ok := sortColumns[strings.TrimSpace(prop)]
	if !ok {
		return "", fmt.Errorf("unsupported sort property %q", prop)
	}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		dir = "ASC"
	case "desc":
		dir = "DESC"
	default:
		return "", fmt.Errorf("unsupported sort direction %q", dir)
	}

	if col == "id" {
		return "id " + dir, nil
	}
	return col + " " + dir + " NULLS LAST, id " + dir, nil
}
