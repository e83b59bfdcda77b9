package core

import (
	"fmt"
	"testing"
)

func TestHistory(t *testing.T) {
	h := NewHistory(3)

	for i := 1; i <= 5; i++ {
		h.Add(ImportResult{ID: fmt.Sprintf("import-%d", i), Created: i})
	}

	got := h.List()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"import-5", "import-4", "import-3"} {
		if got[i].ID != want {
			t.Errorf("List()[%d] = %q, want %q", i, got[i].ID, want)
		}
	}

	if _, ok := h.Get("import-1"); ok {
		t.Error("evicted entry still found")
	}
	if res, ok := h.Get("import-4"); !ok || res.Created != 4 {
		t.Errorf("Get(import-4) = %+v, %v", res, ok)
	}
}

func TestHistory_DefaultSize(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < DefaultHistorySize+10; i++ {
		h.Add(ImportResult{})
	}
	if got := len(h.List()); got != DefaultHistorySize {
		t.Errorf("len = %d, want %d", got, DefaultHistorySize)
	}
}
