package core

import "errors"

var (
	// ErrInvalidFormat is returned when an import file cannot be read, has the
	// wrong shape, lacks mandatory columns, or yields no valid rows.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrNothingToExport is returned when an export finds no applications.
	ErrNothingToExport = errors.New("nothing to export")

	// ErrBusy is returned when an import or export is already running.
	ErrBusy = errors.New("operation in progress")

	// ErrFileTooLarge is returned when an upload exceeds the configured size.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNotFound is returned when an application ID does not exist.
	ErrNotFound = errors.New("application not found")

	// ErrInvalidApplication is returned when a payload breaks a field constraint.
	ErrInvalidApplication = errors.New("invalid application")

	// ErrNoFile is returned when an upload request carries no file.
	ErrNoFile = errors.New("no file provided")
)
