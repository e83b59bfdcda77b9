// Package core provides the business logic for bulk import and export of job applications.
// This package has no transport dependencies and can be used by any frontend.
package core

import (
	"context"
	"time"
)

// Status is the pipeline stage of an application.
type Status string

const (
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusRejected  Status = "REJECTED"
)

// Priority is the user-assigned importance of an application.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether s is one of the fixed statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Valid reports whether p is one of the fixed priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Application is a job application as stored by the backend.
// Optional fields are nil when the backend returns null.
type Application struct {
	ID           int64    `json:"id"`
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Status       Status   `json:"status"`
	Priority     Priority `json:"priority,omitempty"`
	AppliedDate  *string  `json:"appliedDate"`
	FollowUpDate *string  `json:"followUpDate"`
	Salary       *string  `json:"salary"`
	JobURL       *string  `json:"jobUrl"`
	Notes        *string  `json:"notes"`
}

// NewApplication is a creation payload. Every value produced by the normalizer
// has a non-empty Company and Role, a valid Status and an ISO AppliedDate.
type NewApplication struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Status       Status   `json:"status"`
	Priority     Priority `json:"priority"`
	AppliedDate  string   `json:"appliedDate"`
	FollowUpDate *string  `json:"followUpDate"`
	Salary       *string  `json:"salary"`
	JobURL       *string  `json:"jobUrl"`
	Notes        *string  `json:"notes"`
}

// BackupEntry is one application inside a backup document.
// All keys are always present; absent values are encoded as null.
type BackupEntry struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Status       Status   `json:"status"`
	Priority     Priority `json:"priority"`
	AppliedDate  *string  `json:"appliedDate"`
	FollowUpDate *string  `json:"followUpDate"`
	Salary       *string  `json:"salary"`
	JobURL       *string  `json:"jobUrl"`
	Notes        *string  `json:"notes"`
}

// BackupVersion is the only backup document version written and understood.
const BackupVersion = 1

// BackupDocument is the versioned JSON export format.
type BackupDocument struct {
	Version      int           `json:"version"`
	ExportedAt   string        `json:"exportedAt"`
	Applications []BackupEntry `json:"applications"`
}

// PageRequest selects one page of applications from the backend.
type PageRequest struct {
	Page   int
	Size   int
	Sort   string // e.g. "appliedDate,desc"
	Status Status // empty for all

	// FollowUpDue keeps applications whose follow-up date is today or earlier.
	FollowUpDue bool
	// FollowUpOverdue keeps applications whose follow-up date is before today.
	// It takes precedence over FollowUpDue.
	FollowUpOverdue bool
}

// StatusChange is one entry of an application's status history.
// FromStatus is nil for the entry written when the application was created.
type StatusChange struct {
	ID         int64   `json:"id"`
	FromStatus *Status `json:"fromStatus"`
	ToStatus   Status  `json:"toStatus"`
	ChangedAt  string  `json:"changedAt"` // local date-time, e.g. 2024-01-15T10:30:00
}

// ChangedAtLayout formats StatusChange.ChangedAt.
const ChangedAtLayout = "2006-01-02T15:04:05"

// Page is one page of applications as returned by the backend.
type Page struct {
	Content          []Application `json:"content"`
	TotalElements    int64         `json:"totalElements"`
	TotalPages       int           `json:"totalPages"`
	Number           int           `json:"number"`
	Size             int           `json:"size"`
	First            bool          `json:"first"`
	Last             bool          `json:"last"`
	Empty            bool          `json:"empty"`
	NumberOfElements int           `json:"numberOfElements"`
}

// Creator submits a single creation payload.
type Creator interface {
	Create(ctx context.Context, app NewApplication) (Application, error)
}

// PageLister returns one page of the application collection.
type PageLister interface {
	ListPage(ctx context.Context, req PageRequest) (Page, error)
}

// Repository is the full set of application operations offered by the backend.
// Satisfied by both *backend.Client and *store.Store.
type Repository interface {
	Creator
	PageLister
	Get(ctx context.Context, id int64) (Application, error)
	Update(ctx context.Context, id int64, app NewApplication) (Application, error)
	Delete(ctx context.Context, id int64) error
	PatchStatus(ctx context.Context, id int64, status Status) (Application, error)
	// StatusHistory lists the status changes of an application, newest first.
	StatusHistory(ctx context.Context, id int64) ([]StatusChange, error)
}

// Format identifies an import/export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ImportResult contains the final result of an import operation.
type ImportResult struct {
	ID        string        `json:"id"`
	Format    Format        `json:"format"`
	FileName  string        `json:"fileName,omitempty"`
	Rows      int           `json:"rows"`    // records that survived parsing
	Dropped   int           `json:"dropped"` // records rejected by normalization, never submitted
	Created   int           `json:"created"`
	Skipped   int           `json:"skipped"` // submitted but rejected by create
	Refresh   bool          `json:"refresh"` // caller should reload the collection at page zero
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// ImportProgress is reported after each submitted payload.
type ImportProgress struct {
	Current int
	Total   int
	Created int
	Skipped int
}

// Percent returns the progress as a percentage (0-100).
func (p ImportProgress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return (p.Current * 100) / p.Total
}

// ProgressCallback is called after each payload is submitted.
type ProgressCallback func(ImportProgress)

// Export is a rendered export file.
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
	Count       int
}
