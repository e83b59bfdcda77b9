package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/JonMunkholm/jobtracker/internal/core"
	"github.com/go-chi/chi/v5"
)

// multipartOverhead is allowed on top of the file size for form boundaries
// and headers.
const multipartOverhead = 1 << 20

// ImportResponse is returned by the import endpoints.
type ImportResponse struct {
	Result       core.ImportResult `json:"result"`
	Notification core.Notification `json:"notification"`
}

// handleImport imports the uploaded "file" form field.
// The batch is not cancelled if the client disconnects.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	format, err := core.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	file, header, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	defer file.Close()

	res, err := s.service.Import(r.Context(), core.ImportRequest{
		Format:   format,
		FileName: header.Filename,
		Reader:   file,
	})
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	writeJSON(w, r, http.StatusOK, ImportResponse{
		Result:       res,
		Notification: core.ImportNotification(res, nil),
	})
}

// handlePreview parses and normalizes the uploaded file without submitting it.
// The format comes from ?format= or, failing that, the file extension.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	defer file.Close()

	var format core.Format
	if name := r.URL.Query().Get("format"); name != "" {
		format, err = core.ParseFormat(name)
	} else {
		format, err = core.FormatFromFileName(header.Filename)
	}
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	preview, err := s.service.Preview(format, file)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	writeJSON(w, r, http.StatusOK, preview)
}

// handleImportHistory lists recent import results, newest first.
func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.History())
}

// handleImportResult returns one recent import result.
func (s *Server) handleImportResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "importID")
	res, ok := s.service.ImportResult(id)
	if !ok {
		s.respondError(w, r, fmt.Errorf("import %s not found", id), http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// readUpload returns the "file" field of a multipart request. The caller
// closes the file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	maxSize := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, nil, fmt.Errorf("%w: more than %d bytes", core.ErrFileTooLarge, maxSize)
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, io.EOF) {
			return nil, nil, core.ErrNoFile
		}
		return nil, nil, fmt.Errorf("%w: %v", core.ErrInvalidFormat, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, core.ErrNoFile
	}
	return file, header, nil
}
