package core

import (
	"context"
	"fmt"
)

// Export drain defaults.
const (
	DefaultExportPageSize = 200
	DefaultExportSort     = "appliedDate,desc"
)

// FetchAll drains every page of the collection, one request at a time.
//
// TotalPages is re-read from each response, so pages that appear while the
// drain is running are picked up, but rows that shift between pages are not
// revisited. Records created or deleted mid-drain can therefore be missed or
// exported twice.
func FetchAll(ctx context.Context, lister PageLister, req PageRequest) ([]Application, error) {
	if req.Size <= 0 {
		req.Size = DefaultExportPageSize
	}
	if req.Sort == "" {
		req.Sort = DefaultExportSort
	}

	var all []Application
	for page := 0; ; page++ {
		req.Page = page

		p, err := lister.ListPage(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}

		all = append(all, p.Content...)

		if len(p.Content) == 0 || page+1 >= p.TotalPages {
			break
		}
	}

	return all, nil
}
