package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/jobtracker/internal/core"
	"github.com/go-chi/chi/v5"
)

// handleExport drains the collection and sends it as a file download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := core.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	exp, err := s.service.Export(r.Context(), format)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.FileName))
	w.Header().Set("X-Export-Count", strconv.Itoa(exp.Count))
	w.WriteHeader(http.StatusOK)
	w.Write(exp.Data)
}
