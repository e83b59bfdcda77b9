package core

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/jobtracker/internal/logging"
	"github.com/google/uuid"
)

// DefaultMaxFileSize is the import size limit used when none is configured.
const DefaultMaxFileSize = 10 << 20

// ServiceConfig holds the tunables of a Service.
type ServiceConfig struct {
	MaxFileSize    int64  // import size limit in bytes; 0 uses DefaultMaxFileSize
	ExportPageSize int    // page size used to drain the collection
	ExportSort     string // sort used to drain the collection
	HistorySize    int
}

// Service runs imports and exports against a Repository.
//
// At most one import or export runs at a time. A call made while another is
// running fails immediately with ErrBusy; it is never queued.
type Service struct {
	repo       Repository
	notifier   Notifier
	normalizer *Normalizer
	gate       *Limiter
	history    *History
	cfg        ServiceConfig
	now        func() time.Time
}

// NewService creates a Service. A nil notifier logs notifications.
func NewService(repo Repository, notifier Notifier, cfg ServiceConfig) *Service {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.ExportPageSize <= 0 {
		cfg.ExportPageSize = DefaultExportPageSize
	}
	if cfg.ExportSort == "" {
		cfg.ExportSort = DefaultExportSort
	}

	return &Service{
		repo:       repo,
		notifier:   notifier,
		normalizer: NewNormalizer(),
		gate:       NewLimiter(1),
		history:    NewHistory(cfg.HistorySize),
		cfg:        cfg,
		now:        time.Now,
	}
}

// SetClock replaces the clock used for default dates, timestamps and file names.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
	s.normalizer.Now = now
}

// Repository returns the repository the service writes to.
func (s *Service) Repository() Repository {
	return s.repo
}

// Busy reports whether an import or export is running.
func (s *Service) Busy() bool {
	return s.gate.Status().Busy
}

// Status returns the state of the operation gate.
func (s *Service) Status() LimiterStatus {
	return s.gate.Status()
}

// WaitForIdle blocks until the running import or export finishes.
func (s *Service) WaitForIdle(ctx context.Context) error {
	return s.gate.WaitForDrain(ctx)
}

// History returns recent import results, newest first.
func (s *Service) History() []ImportResult {
	return s.history.List()
}

// ImportResult returns a recent import result by ID.
func (s *Service) ImportResult(id string) (ImportResult, bool) {
	return s.history.Get(id)
}

// MaxFileSize is the largest import accepted, in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.cfg.MaxFileSize
}

// ImportRequest describes one import.
type ImportRequest struct {
	Format     Format
	FileName   string
	Reader     io.Reader
	OnProgress ProgressCallback // optional
}

// ImportCSV imports applications from CSV text.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	return s.Import(ctx, ImportRequest{Format: FormatCSV, Reader: r})
}

// ImportJSON imports applications from a JSON array or backup document.
func (s *Service) ImportJSON(ctx context.Context, r io.Reader) (ImportResult, error) {
	return s.Import(ctx, ImportRequest{Format: FormatJSON, Reader: r})
}

// Import parses, normalizes and submits one file.
//
// Parsing failures and files with no valid rows return an error wrapping
// ErrInvalidFormat before anything is submitted. Once submission starts the
// batch runs to completion even if ctx is cancelled; individual create
// failures are counted in ImportResult.Skipped.
//
// Every outcome, including ErrBusy, is also sent to the Notifier.
func (s *Service) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	if !s.gate.TryAcquire() {
		return s.failImport(ctx, ImportResult{}, ErrBusy)
	}
	defer s.gate.Release()

	res := ImportResult{
		ID:        uuid.New().String(),
		Format:    req.Format,
		FileName:  req.FileName,
		StartedAt: s.now(),
	}

	logger := logging.WithFields(ctx,
		"import_id", res.ID,
		"format", req.Format,
		"file", req.FileName,
	)

	preview, err := s.prepare(req.Format, req.Reader)
	if err != nil {
		logger.Warn("import rejected", "error", err)
		return s.failImport(ctx, res, err)
	}
	res.Rows = preview.Rows
	res.Dropped = preview.Dropped

	logger.Info("import started", "payloads", len(preview.Applications), "dropped", preview.Dropped)

	batchCtx := context.WithoutCancel(ctx)
	batch, err := NewImporter(s.repo, req.OnProgress).Run(batchCtx, preview.Applications)
	res.Created = batch.Created
	res.Skipped = batch.Skipped
	res.Refresh = batch.Created > 0
	res.Duration = time.Since(res.StartedAt)
	if err != nil {
		return s.failImport(ctx, res, err)
	}

	s.history.Add(res)
	logger.Info("import completed",
		"created", res.Created,
		"skipped", res.Skipped,
		"duration", res.Duration,
	)

	s.notifier.Notify(ctx, ImportNotification(res, nil))
	return res, nil
}

func (s *Service) failImport(ctx context.Context, res ImportResult, err error) (ImportResult, error) {
	s.notifier.Notify(ctx, ImportNotification(res, err))
	return res, err
}

// Preview is the outcome of parsing and normalizing a file without submitting it.
type Preview struct {
	Applications []NewApplication  `json:"applications"`
	Rows         int               `json:"rows"`
	Dropped      int               `json:"dropped"`
	Issues       []ValidationError `json:"issues,omitempty"` // why rows were dropped, capped
}

// PreviewCSV parses and normalizes CSV text without submitting anything.
func (s *Service) PreviewCSV(r io.Reader) (Preview, error) {
	return s.prepare(FormatCSV, r)
}

// PreviewJSON parses and normalizes JSON text without submitting anything.
func (s *Service) PreviewJSON(r io.Reader) (Preview, error) {
	return s.prepare(FormatJSON, r)
}

// Preview parses and normalizes a file of the given format.
func (s *Service) Preview(format Format, r io.Reader) (Preview, error) {
	return s.prepare(format, r)
}

func (s *Service) prepare(format Format, r io.Reader) (Preview, error) {
	if r == nil {
		return Preview{}, ErrNoFile
	}
	limited := NewSizeLimitReader(r, s.cfg.MaxFileSize)

	var p Preview
	switch format {
	case FormatCSV:
		rows, err := ParseCSV(limited)
		if err != nil {
			return Preview{}, err
		}
		idx, err := ResolveHeaders(rows[0])
		if err != nil {
			return Preview{}, err
		}
		p.Rows = len(rows) - 1
		for i, row := range rows[1:] {
			if app, ok := s.normalizer.NormalizeRow(row, idx); ok {
				p.Applications = append(p.Applications, app)
				continue
			}
			p.Issues = appendIssues(p.Issues, ValidateRow(i+1, row, idx))
		}

	case FormatJSON:
		records, err := ParseJSON(limited)
		if err != nil {
			return Preview{}, err
		}
		p.Rows = len(records)
		for i, rec := range records {
			if app, ok := s.normalizer.NormalizeRecord(rec); ok {
				p.Applications = append(p.Applications, app)
				continue
			}
			p.Issues = appendIssues(p.Issues, ValidateRecord(i+1, rec))
		}

	default:
		return Preview{}, fmt.Errorf("%w: unsupported format %q", ErrInvalidFormat, format)
	}

	p.Dropped = p.Rows - len(p.Applications)
	if len(p.Applications) == 0 {
		return p, fmt.Errorf("%w: no valid applications found", ErrInvalidFormat)
	}
	return p, nil
}

// ExportCSV drains the collection and renders it as CSV.
func (s *Service) ExportCSV(ctx context.Context) (Export, error) {
	return s.Export(ctx, FormatCSV)
}

// ExportJSON drains the collection and renders it as a backup document.
func (s *Service) ExportJSON(ctx context.Context) (Export, error) {
	return s.Export(ctx, FormatJSON)
}

// Export drains every page of the collection and renders it in format.
// Returns ErrNothingToExport when the collection is empty.
func (s *Service) Export(ctx context.Context, format Format) (Export, error) {
	if !s.gate.TryAcquire() {
		return s.failExport(ctx, ErrBusy)
	}
	defer s.gate.Release()

	logger := logging.WithFields(ctx, "format", format)

	apps, err := FetchAll(ctx, s.repo, PageRequest{
		Size: s.cfg.ExportPageSize,
		Sort: s.cfg.ExportSort,
	})
	if err != nil {
		logger.Error("export drain failed", "error", err)
		return s.failExport(ctx, err)
	}
	if len(apps) == 0 {
		return s.failExport(ctx, ErrNothingToExport)
	}

	now := s.now()
	exp := Export{
		FileName: ExportFileName(format, now),
		Count:    len(apps),
	}

	switch format {
	case FormatCSV:
		exp.ContentType = ContentTypeCSV
		exp.Data = ExportCSV(apps)
	case FormatJSON:
		exp.ContentType = ContentTypeJSON
		exp.Data, err = ExportJSON(apps, now)
		if err != nil {
			return s.failExport(ctx, err)
		}
	default:
		return s.failExport(ctx, fmt.Errorf("unsupported export format %q", format))
	}

	logger.Info("export completed", "count", exp.Count, "bytes", len(exp.Data))
	s.notifier.Notify(ctx, ExportNotification(exp, nil))
	return exp, nil
}

func (s *Service) failExport(ctx context.Context, err error) (Export, error) {
	s.notifier.Notify(ctx, ExportNotification(Export{}, err))
	return Export{}, err
}

// ParseFormat converts a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unsupported format %q", ErrInvalidFormat, name)
}

// FormatFromFileName infers the format from a file extension.
func FormatFromFileName(name string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(name), "."))
}
