package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/JonMunkholm/jobtracker/internal/core"
)

// fakeBackend serves the /applications endpoints the client uses.
type fakeBackend struct {
	mu    sync.Mutex
	apps  []core.Application
	token string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.token = r.Header.Get("Authorization")
	switch r.Method {
	case http.MethodPost:
		var app core.NewApplication
		if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if app.Company == "Reject" {
			http.Error(w, "rejected", http.StatusBadRequest)
			return
		}
		applied := app.AppliedDate
		created := core.Application{ID: int64(len(b.apps) + 1), Company: app.Company, Role: app.Role,
			Status: app.Status, Priority: app.Priority, AppliedDate: &applied}
		b.apps = append(b.apps, created)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	case http.MethodGet:
		pages := 0
		if len(b.apps) > 0 {
			pages = 1
		}
		json.NewEncoder(w).Encode(core.Page{Content: b.apps, TotalPages: pages, TotalElements: int64(len(b.apps))})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	for _, name := range []string{"BACKEND_URL", "API_URL", "BACKEND_TOKEN", "DATABASE_URL", "DB_URL", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(name, "")
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportCommand(t *testing.T) {
	be := &fakeBackend{}
	srv := httptest.NewServer(be)
	defer srv.Close()

	path := writeFile(t, "apps.csv", "company,role,status\nAcme,Dev,APPLIED\nReject,Dev,APPLIED\n,NoCompany,APPLIED\n")

	stdout, stderr, err := runCLI(t, "--api", srv.URL, "--token", "tok", "import", path)
	if err != nil {
		t.Fatalf("import error = %v (stderr %s)", err, stderr)
	}
	if stdout != "created=1 skipped=1 dropped=1\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "importing 2/2 (100%)") || !strings.Contains(stderr, "[success] Import complete") {
		t.Errorf("stderr = %q", stderr)
	}
	if len(be.apps) != 1 || be.token != "Bearer tok" {
		t.Errorf("backend apps = %+v token = %q", be.apps, be.token)
	}
}

func TestImportCommand_DryRun(t *testing.T) {
	be := &fakeBackend{}
	srv := httptest.NewServer(be)
	defer srv.Close()

	path := writeFile(t, "apps.data", `[{"company":"Acme","role":"Dev","status":"offer","appliedDate":"2024-01-15"}]`)

	stdout, _, err := runCLI(t, "--api", srv.URL, "import", "--format", "json", "--dry-run", path)
	if err != nil {
		t.Fatalf("dry run error = %v", err)
	}
	if !strings.HasPrefix(stdout, "1 rows, 1 valid, 0 dropped\n") || !strings.Contains(stdout, "Acme\tDev\tOFFER") {
		t.Errorf("stdout = %q", stdout)
	}
	if len(be.apps) != 0 {
		t.Error("dry run must not create applications")
	}
}

func TestImportCommand_Errors(t *testing.T) {
	be := &fakeBackend{}
	srv := httptest.NewServer(be)
	defer srv.Close()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{name: "unknown extension", file: "apps.txt", content: "company,role,status\nA,B,APPLIED\n", wantErr: core.ErrInvalidFormat},
		{name: "missing columns", file: "apps.csv", content: "company\nAcme\n", wantErr: core.ErrInvalidFormat},
		{name: "all rejected", file: "apps.csv", content: "company,role,status\nReject,Dev,APPLIED\n", wantErr: errNothingImported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, _, err := runCLI(t, "--api", srv.URL, "import", path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	_, _, err := runCLI(t, "--api", srv.URL, "import", filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, core.ErrNoFile) {
		t.Errorf("missing file error = %v, want ErrNoFile", err)
	}
}

func TestExportCommand(t *testing.T) {
	be := &fakeBackend{}
	srv := httptest.NewServer(be)
	defer srv.Close()

	_, _, err := runCLI(t, "--api", srv.URL, "export")
	if !errors.Is(err, core.ErrNothingToExport) {
		t.Fatalf("empty export error = %v, want ErrNothingToExport", err)
	}

	applied := "2024-01-15"
	be.apps = []core.Application{{ID: 1, Company: "Acme", Role: "Dev", Status: core.StatusApplied, AppliedDate: &applied}}

	out := t.TempDir()
	stdout, _, err := runCLI(t, "--api", srv.URL, "export", "--format", "json", "--out", out)
	if err != nil {
		t.Fatalf("export error = %v", err)
	}

	path := strings.TrimSpace(stdout)
	if filepath.Dir(path) != out || !strings.HasPrefix(filepath.Base(path), "job-tracker-backup-") {
		t.Fatalf("written path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc core.BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Version != 1 || len(doc.Applications) != 1 || doc.Applications[0].Priority != core.PriorityMedium {
		t.Errorf("doc = %+v", doc)
	}
}

func TestErrorText(t *testing.T) {
	if got := errorText(core.ErrBusy); !strings.Contains(got, "OPS001") {
		t.Errorf("errorText(ErrBusy) = %q", got)
	}
	if got := errorText(errors.New(`unknown flag: --nope`)); got != "unknown flag: --nope" {
		t.Errorf("errorText = %q", got)
	}
}
