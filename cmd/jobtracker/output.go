package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/JonMunkholm/jobtracker/internal/core"
)

// printNotifier writes notifications as single lines, e.g.
// "[success] Import complete: 3 imported, 0 skipped".
type printNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func newPrintNotifier(w io.Writer) *printNotifier {
	return &printNotifier{w: w}
}

func (p *printNotifier) Notify(_ context.Context, n core.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "[%s] %s: %s\n", n.Kind, n.Title, n.Message)
}

// progressPrinter redraws one progress line and ends it after the last item.
func progressPrinter(w io.Writer) core.ProgressCallback {
	return func(p core.ImportProgress) {
		fmt.Fprintf(w, "\rimporting %d/%d (%d%%)", p.Current, p.Total, p.Percent())
		if p.Current == p.Total {
			fmt.Fprintln(w)
		}
	}
}
