package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/jobtracker/internal/core"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api", WithToken("secret"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{url: "http://localhost:8080/api"},
		{url: "https://tracker.example.com/api/"},
		{url: "localhost:8080", wantErr: true},
		{url: "ftp://example.com", wantErr: true},
		{url: "://bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			_, err := New(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestClient_ListPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/applications" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		q := r.URL.Query()
		if q.Get("page") != "1" || q.Get("size") != "200" || q.Get("sort") != "appliedDate,desc" || q.Get("status") != "OFFER" {
			t.Errorf("query = %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"content":[{"id":7,"company":"Acme","role":"Dev","status":"OFFER","appliedDate":"2024-01-15","notes":null}],
			"totalElements":201,"totalPages":2,"number":1,"size":200,"last":true,"numberOfElements":1}`)
	})

	page, err := c.ListPage(context.Background(), core.PageRequest{
		Page: 1, Size: 200, Sort: "appliedDate,desc", Status: core.StatusOffer,
	})
	if err != nil {
		t.Fatalf("ListPage() error = %v", err)
	}
	if page.TotalPages != 2 || page.TotalElements != 201 || len(page.Content) != 1 {
		t.Fatalf("page = %+v", page)
	}
	app := page.Content[0]
	if app.ID != 7 || app.Company != "Acme" || app.Notes != nil || app.AppliedDate == nil || *app.AppliedDate != "2024-01-15" {
		t.Errorf("app = %+v", app)
	}
}

func TestClient_ListPage_FollowUpFilters(t *testing.T) {
	tests := []struct {
		name        string
		req         core.PageRequest
		wantDue     string
		wantOverdue string
	}{
		{name: "none", req: core.PageRequest{}},
		{name: "due", req: core.PageRequest{FollowUpDue: true}, wantDue: "true"},
		{name: "overdue", req: core.PageRequest{FollowUpOverdue: true}, wantOverdue: "true"},
		{name: "overdue wins", req: core.PageRequest{FollowUpDue: true, FollowUpOverdue: true}, wantOverdue: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("followUpDue") != tt.wantDue || q.Get("followUpOverdue") != tt.wantOverdue {
					t.Errorf("query = %v", q)
				}
				io.WriteString(w, `{"content":[],"totalPages":0}`)
			})
			if _, err := c.ListPage(context.Background(), tt.req); err != nil {
				t.Fatalf("ListPage() error = %v", err)
			}
		})
	}
}

func TestClient_GetAndStatusHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		switch r.URL.Path {
		case "/api/applications/5":
			io.WriteString(w, `{"id":5,"company":"Acme","role":"Dev","status":"OFFER"}`)
		case "/api/applications/5/history":
			io.WriteString(w, `[{"id":2,"fromStatus":"APPLIED","toStatus":"OFFER","changedAt":"2024-02-01T09:00:00"},
				{"id":1,"fromStatus":null,"toStatus":"APPLIED","changedAt":"2024-01-15T10:30:00.123"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	app, err := c.Get(ctx, 5)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if app.ID != 5 || app.Status != core.StatusOffer {
		t.Errorf("app = %+v", app)
	}

	history, err := c.StatusHistory(ctx, 5)
	if err != nil {
		t.Fatalf("StatusHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %+v", history)
	}
	if history[0].FromStatus == nil || *history[0].FromStatus != core.StatusApplied || history[0].ToStatus != core.StatusOffer {
		t.Errorf("history[0] = %+v", history[0])
	}
	if history[1].FromStatus != nil || history[1].ChangedAt != "2024-01-15T10:30:00.123" {
		t.Errorf("history[1] = %+v", history[1])
	}

	if _, err := c.Get(ctx, 6); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get(6) error = %v, want ErrNotFound", err)
	}
}

func TestClient_Create(t *testing.T) {
	var got core.NewApplication
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/applications" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":42,"company":"Acme","role":"Dev","status":"APPLIED","priority":"HIGH"}`)
	})

	created, err := c.Create(context.Background(), core.NewApplication{
		Company: "Acme", Role: "Dev", Status: core.StatusApplied, Priority: core.PriorityHigh, AppliedDate: "2024-01-15",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID != 42 || created.Priority != core.PriorityHigh {
		t.Errorf("created = %+v", created)
	}
	if got.Company != "Acme" || got.AppliedDate != "2024-01-15" {
		t.Errorf("sent = %+v", got)
	}
}

func TestClient_UpdatePatchDelete(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, r.Method+" "+r.URL.Path+" "+strings.TrimSpace(string(body)))
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		io.WriteString(w, `{"id":3,"company":"Acme","role":"Dev","status":"INTERVIEW"}`)
	})
	ctx := context.Background()

	if _, err := c.Update(ctx, 3, core.NewApplication{Company: "Acme", Role: "Dev", Status: core.StatusInterview}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	app, err := c.PatchStatus(ctx, 3, core.StatusInterview)
	if err != nil {
		t.Fatalf("PatchStatus() error = %v", err)
	}
	if app.Status != core.StatusInterview {
		t.Errorf("status = %s", app.Status)
	}
	if err := c.Delete(ctx, 3); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	want := []string{"PUT /api/applications/3", "PATCH /api/applications/3/status {\"status\":\"INTERVIEW\"}", "DELETE /api/applications/3 "}
	if len(calls) != len(want) {
		t.Fatalf("calls = %q", calls)
	}
	for i := range want {
		if !strings.HasPrefix(calls[i], want[i]) {
			t.Errorf("call %d = %q, want prefix %q", i, calls[i], want[i])
		}
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantMessage  string
		wantNotFound bool
		wantCode     string
	}{
		{name: "validation", status: http.StatusBadRequest, body: `{"message":"company is required"}`, wantMessage: `{"message":"company is required"}`, wantCode: "API003"},
		{name: "empty body", status: http.StatusInternalServerError, wantMessage: "HTTP error 500", wantCode: "API004"},
		{name: "not found", status: http.StatusNotFound, body: "missing", wantMessage: "missing", wantNotFound: true, wantCode: "API002"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: "no", wantMessage: "no", wantCode: "API001"},
		{name: "bad gateway mentioning timeout", status: http.StatusBadGateway, body: "upstream timeout", wantMessage: "upstream timeout", wantCode: "API004"},
		{name: "rejection mentioning file size", status: http.StatusBadRequest, body: "file too large", wantMessage: "file too large", wantCode: "API003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := c.Create(context.Background(), core.NewApplication{Company: "A", Role: "B", Status: core.StatusApplied})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Message != tt.wantMessage {
				t.Errorf("APIError = %+v", apiErr)
			}
			if errors.Is(err, core.ErrNotFound) != tt.wantNotFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v", !tt.wantNotFound, tt.wantNotFound)
			}
			if code := core.MapError(err).Code; code != tt.wantCode {
				t.Errorf("MapError code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.ListPage(ctx, core.PageRequest{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
