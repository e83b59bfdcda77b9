package core

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var errRejected = errors.New("backend returned 400: rejected")

// memRepo is an in-memory Repository for tests.
type memRepo struct {
	mu      sync.Mutex
	apps    []Application
	nextID  int64
	reject  func(NewApplication) bool
	creates int
	lists   []PageRequest
}

func newMemRepo(apps ...Application) *memRepo {
	r := &memRepo{nextID: 1}
	for _, a := range apps {
		a.ID = r.nextID
		r.nextID++
		r.apps = append(r.apps, a)
	}
	return r
}

func (r *memRepo) Create(_ context.Context, n NewApplication) (Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creates++
	if r.reject != nil && r.reject(n) {
		return Application{}, errRejected
	}

	app := fromPayload(r.nextID, n)
	r.nextID++
	r.apps = append(r.apps, app)
	return app, nil
}

func (r *memRepo) ListPage(_ context.Context, req PageRequest) (Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lists = append(r.lists, req)

	apps := append([]Application(nil), r.apps...)
	sort.SliceStable(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })

	total := len(apps)
	pages := 0
	if req.Size > 0 {
		pages = (total + req.Size - 1) / req.Size
	}

	start := req.Page * req.Size
	if start > total {
		start = total
	}
	end := start + req.Size
	if end > total {
		end = total
	}

	content := apps[start:end]
	return Page{
		Content:          content,
		TotalElements:    int64(total),
		TotalPages:       pages,
		Number:           req.Page,
		Size:             req.Size,
		First:            req.Page == 0,
		Last:             req.Page+1 >= pages,
		Empty:            len(content) == 0,
		NumberOfElements: len(content),
	}, nil
}

func (r *memRepo) Update(_ context.Context, id int64, n NewApplication) (Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.apps {
		if r.apps[i].ID == id {
			r.apps[i] = fromPayload(id, n)
			return r.apps[i], nil
		}
	}
	return Application{}, ErrNotFound
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.apps {
		if r.apps[i].ID == id {
			r.apps = append(r.apps[:i], r.apps[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepo) PatchStatus(_ context.Context, id int64, status Status) (Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.apps {
		if r.apps[i].ID == id {
			r.apps[i].Status = status
			return r.apps[i], nil
		}
	}
	return Application{}, ErrNotFound
}

func (r *memRepo) Get(_ context.Context, id int64) (Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return Application{}, ErrNotFound
}

func (r *memRepo) StatusHistory(ctx context.Context, id int64) ([]StatusChange, error) {
	app, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return []StatusChange{{ID: 1, ToStatus: app.Status}}, nil
}

func (r *memRepo) all() []Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Application(nil), r.apps...)
}

func fromPayload(id int64, n NewApplication) Application {
	applied := n.AppliedDate
	return Application{
		ID:           id,
		Company:      n.Company,
		Role:         n.Role,
		Status:       n.Status,
		Priority:     n.Priority,
		AppliedDate:  &applied,
		FollowUpDate: n.FollowUpDate,
		Salary:       n.Salary,
		JobURL:       n.JobURL,
		Notes:        n.Notes,
	}
}

// notifications records everything sent to it.
type notifications struct {
	mu   sync.Mutex
	sent []Notification
}

func (n *notifications) Notify(_ context.Context, note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
}

func (n *notifications) last() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return Notification{}
	}
	return n.sent[len(n.sent)-1]
}

func strPtr(s string) *string { return &s }
