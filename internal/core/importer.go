package core

import (
	"context"

	"github.com/JonMunkholm/jobtracker/internal/logging"
)

// BatchResult counts the outcome of a batch submission.
type BatchResult struct {
	Created int
	Skipped int
}

// Importer submits creation payloads one at a time.
//
// Payloads are never sent concurrently: each Create call is awaited before the
// next one starts, so records are created in file order and the backend sees
// at most one import request at a time.
type Importer struct {
	creator    Creator
	onProgress ProgressCallback
}

// NewImporter creates an Importer that submits through creator.
// onProgress may be nil.
func NewImporter(creator Creator, onProgress ProgressCallback) *Importer {
	return &Importer{creator: creator, onProgress: onProgress}
}

// Run submits payloads in order. A failed Create is counted as skipped and the
// batch continues; no single payload aborts the batch.
//
// Cancellation of ctx is checked between payloads. When it fires, Run stops
// and returns ctx.Err() along with the counts so far; the remaining payloads
// are not attempted.
func (im *Importer) Run(ctx context.Context, payloads []NewApplication) (BatchResult, error) {
	var res BatchResult
	logger := logging.FromContext(ctx)

	for i, p := range payloads {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if _, err := im.creator.Create(ctx, p); err != nil {
			res.Skipped++
			logger.Debug("create rejected",
				"index", i,
				"company", p.Company,
				"role", p.Role,
				"error", err,
			)
		} else {
			res.Created++
		}

		if im.onProgress != nil {
			im.onProgress(ImportProgress{
				Current: i + 1,
				Total:   len(payloads),
				Created: res.Created,
				Skipped: res.Skipped,
			})
		}
	}

	return res, nil
}
