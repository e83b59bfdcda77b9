package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func seededRepo(n int) *memRepo {
	apps := make([]Application, n)
	for i := range apps {
		apps[i] = Application{
			Company: fmt.Sprintf("Company %d", i),
			Role:    "Engineer",
			Status:  StatusApplied,
		}
	}
	return newMemRepo(apps...)
}

func TestFetchAll(t *testing.T) {
	tests := []struct {
		name      string
		records   int
		size      int
		wantPages int
	}{
		{name: "empty collection", records: 0, size: 200, wantPages: 1},
		{name: "single partial page", records: 5, size: 200, wantPages: 1},
		{name: "exact multiple", records: 400, size: 200, wantPages: 2},
		{name: "partial last page", records: 7, size: 3, wantPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := seededRepo(tt.records)

			apps, err := FetchAll(context.Background(), repo, PageRequest{Size: tt.size})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(apps) != tt.records {
				t.Errorf("got %d applications, want %d", len(apps), tt.records)
			}
			if len(repo.lists) != tt.wantPages {
				t.Errorf("fetched %d pages, want %d", len(repo.lists), tt.wantPages)
			}

			seen := make(map[int64]bool)
			for _, a := range apps {
				if seen[a.ID] {
					t.Errorf("application %d returned twice", a.ID)
				}
				seen[a.ID] = true
			}
			for i, req := range repo.lists {
				if req.Page != i {
					t.Errorf("request %d asked for page %d", i, req.Page)
				}
			}
		})
	}
}

func TestFetchAll_Defaults(t *testing.T) {
	repo := seededRepo(1)

	if _, err := FetchAll(context.Background(), repo, PageRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := repo.lists[0]
	if req.Size != DefaultExportPageSize || req.Sort != DefaultExportSort {
		t.Errorf("request = %+v, want size %d sort %q", req, DefaultExportPageSize, DefaultExportSort)
	}
}

// growingLister adds a page worth of records after every call, so totalPages
// keeps moving while the drain runs.
type growingLister struct {
	*memRepo
	grow int
}

func (g *growingLister) ListPage(ctx context.Context, req PageRequest) (Page, error) {
	p, err := g.memRepo.ListPage(ctx, req)
	if g.grow > 0 {
		g.grow--
		for i := 0; i < req.Size; i++ {
			g.memRepo.Create(ctx, NewApplication{Company: "late", Role: "x", Status: StatusApplied})
		}
	}
	return p, err
}

func TestFetchAll_RecomputesTotalPages(t *testing.T) {
	g := &growingLister{memRepo: seededRepo(4), grow: 1}

	apps, err := FetchAll(context.Background(), g, PageRequest{Size: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Page 0 reports two pages; page 1 reports three, so the records added
	// during the drain are picked up.
	if len(apps) != 6 {
		t.Errorf("got %d applications, want 6", len(apps))
	}
	if len(g.lists) != 3 {
		t.Errorf("fetched %d pages, want 3", len(g.lists))
	}
}

type failingLister struct{ failOn int }

func (f failingLister) ListPage(_ context.Context, req PageRequest) (Page, error) {
	if req.Page == f.failOn {
		return Page{}, errors.New("backend returned 503: HTTP error 503")
	}
	return Page{Content: []Application{{ID: int64(req.Page + 1)}}, TotalPages: 5}, nil
}

func TestFetchAll_Error(t *testing.T) {
	apps, err := FetchAll(context.Background(), failingLister{failOn: 2}, PageRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if apps != nil {
		t.Errorf("apps = %v, want nil on error", apps)
	}
}
