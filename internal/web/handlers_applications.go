package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/jobtracker/internal/core"
	"github.com/go-chi/chi/v5"
)

// maxJSONBody limits single-application request bodies.
const maxJSONBody = 1 << 20

// handleListApplications returns one page of the collection.
// Query: page (0-based), size, sort ("property[,asc|desc]"), status,
// followUpDue, followUpOverdue.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	req := core.PageRequest{
		Page: parseIntParam(r, "page", 0, 0),
		Size: parseIntParam(r, "size", 20, 1),
		Sort: r.URL.Query().Get("sort"),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status, ok := core.NormalizeStatus(v)
		if !ok {
			s.respondError(w, r, fmt.Errorf("%w: unknown status %q", core.ErrInvalidApplication, v), 0)
			return
		}
		req.Status = status
	}

	var err error
	if req.FollowUpDue, err = parseBoolParam(r, "followUpDue"); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if req.FollowUpOverdue, err = parseBoolParam(r, "followUpOverdue"); err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	page, err := s.service.Repository().ListPage(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

// handleGetApplication returns one application.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	app, err := s.service.Repository().Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, app)
}

// handleStatusHistory lists the status changes of an application, newest first.
func (s *Server) handleStatusHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	history, err := s.service.Repository().StatusHistory(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if history == nil {
		history = []core.StatusChange{}
	}
	writeJSON(w, r, http.StatusOK, history)
}

// handleCreateApplication creates one application from a JSON body.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var app core.NewApplication
	if err := decodeJSON(w, r, &app); err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	created, err := s.service.Repository().Create(r.Context(), app)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

// handleUpdateApplication replaces an application.
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	var app core.NewApplication
	if err := decodeJSON(w, r, &app); err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	updated, err := s.service.Repository().Update(r.Context(), id, app)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

// handleDeleteApplication deletes an application.
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if err := s.service.Repository().Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePatchStatus changes the status of an application.
// Body: {"status": "INTERVIEW"}. Status aliases are accepted.
func (s *Server) handlePatchStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	status, ok := core.NormalizeStatus(body.Status)
	if !ok {
		s.respondError(w, r, fmt.Errorf("%w: unknown status %q", core.ErrInvalidApplication, body.Status), 0)
		return
	}

	updated, err := s.service.Repository().PatchStatus(r.Context(), id, status)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

// parseIntParam parses an integer query parameter, falling back to
// defaultVal when it is missing, malformed or below minVal.
func parseIntParam(r *http.Request, name string, defaultVal, minVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < minVal {
		return defaultVal
	}
	return i
}

// parseBoolParam parses an optional boolean query parameter; missing is false.
func parseBoolParam(r *http.Request, name string) (bool, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%w: bad %s %q", core.ErrInvalidApplication, name, val)
	}
	return b, nil
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id %q", core.ErrInvalidApplication, raw)
	}
	return id, nil
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidApplication, err)
	}
	return nil
}
