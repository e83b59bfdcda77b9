package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestImportNotification(t *testing.T) {
	tests := []struct {
		name      string
		res       ImportResult
		err       error
		wantKind  NotificationKind
		wantTitle string
		wantMsg   string
	}{
		{
			name:      "success",
			res:       ImportResult{Created: 3, Skipped: 1},
			wantKind:  NotifySuccess,
			wantTitle: "Import complete",
			wantMsg:   "3 imported, 1 skipped",
		},
		{
			name:      "success with dropped rows",
			res:       ImportResult{Created: 3, Dropped: 2},
			wantKind:  NotifySuccess,
			wantTitle: "Import complete",
			wantMsg:   "3 imported, 0 skipped, 2 invalid rows ignored",
		},
		{
			name:      "everything skipped",
			res:       ImportResult{Created: 0, Skipped: 4},
			wantKind:  NotifyError,
			wantTitle: "Nothing was imported",
			wantMsg:   "0 imported, 4 skipped",
		},
		{
			name:      "invalid format",
			err:       fmt.Errorf("%w: missing required columns: role", ErrInvalidFormat),
			wantKind:  NotifyError,
			wantTitle: "Import failed",
			wantMsg:   FormatUserError(ErrInvalidFormat),
		},
		{
			name:      "busy",
			err:       ErrBusy,
			wantKind:  NotifyInfo,
			wantTitle: "Please wait",
			wantMsg:   "Another import or export is running",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ImportNotification(tt.res, tt.err)
			want := Notification{Kind: tt.wantKind, Title: tt.wantTitle, Message: tt.wantMsg}
			if got != want {
				t.Errorf("ImportNotification() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestExportNotification(t *testing.T) {
	ok := ExportNotification(Export{Count: 12, FileName: "job-tracker-backup-2024-03-10.json"}, nil)
	if ok.Kind != NotifySuccess || ok.Message != "12 applications exported to job-tracker-backup-2024-03-10.json" {
		t.Errorf("success = %+v", ok)
	}

	empty := ExportNotification(Export{}, ErrNothingToExport)
	if empty.Kind != NotifyInfo || empty.Title != "Nothing to export" {
		t.Errorf("empty = %+v", empty)
	}

	failed := ExportNotification(Export{}, errors.New("fetch page 0: backend returned 500: boom"))
	if failed.Kind != NotifyError || !strings.Contains(failed.Message, "API004") {
		t.Errorf("failed = %+v", failed)
	}
}
