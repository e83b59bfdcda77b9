package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/jobtracker/internal/logging"
)

// NotificationKind classifies a notification for display.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// Notification is a short, toast-style report of an operation's outcome.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Title   string           `json:"title"`
	Message string           `json:"message,omitempty"`
}

// Notifier receives one notification per finished import or export.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls f(ctx, n).
func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

// Notify logs n at a level matching its kind.
func (LogNotifier) Notify(ctx context.Context, n Notification) {
	logger := logging.FromContext(ctx)
	switch n.Kind {
	case NotifyError:
		logger.Warn(n.Title, "kind", n.Kind, "detail", n.Message)
	default:
		logger.Info(n.Title, "kind", n.Kind, "detail", n.Message)
	}
}

// ImportNotification builds the summary notification for an import.
func ImportNotification(res ImportResult, err error) Notification {
	if err != nil {
		return failureNotification("Import failed", err)
	}

	msg := fmt.Sprintf("%d imported, %d skipped", res.Created, res.Skipped)
	if res.Dropped > 0 {
		msg += fmt.Sprintf(", %d invalid rows ignored", res.Dropped)
	}

	if res.Created == 0 {
		return Notification{Kind: NotifyError, Title: "Nothing was imported", Message: msg}
	}
	return Notification{Kind: NotifySuccess, Title: "Import complete", Message: msg}
}

// ExportNotification builds the notification for an export.
func ExportNotification(exp Export, err error) Notification {
	if errors.Is(err, ErrNothingToExport) {
		return Notification{Kind: NotifyInfo, Title: "Nothing to export", Message: MapError(err).Action}
	}
	if err != nil {
		return failureNotification("Export failed", err)
	}
	return Notification{
		Kind:    NotifySuccess,
		Title:   "Export complete",
		Message: fmt.Sprintf("%d applications exported to %s", exp.Count, exp.FileName),
	}
}

func failureNotification(title string, err error) Notification {
	if errors.Is(err, ErrBusy) {
		return Notification{Kind: NotifyInfo, Title: "Please wait", Message: MapError(err).Message}
	}
	return Notification{Kind: NotifyError, Title: title, Message: FormatUserError(err)}
}
