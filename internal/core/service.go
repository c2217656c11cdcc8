package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/factoscope/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultImportTimeout bounds a single import when ServiceConfig.Timeout is unset.
const DefaultImportTimeout = 2 * time.Minute

// Archiver keeps a copy of every successfully imported file. Store returns
// the key the file was saved under.
type Archiver interface {
	Store(ctx context.Context, kind ImportKind, importID, fileName string, data []byte) (string, error)
}

// ServiceConfig tunes a Service. Zero values fall back to defaults.
type ServiceConfig struct {
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration

	// Archiver is optional; nil disables archiving.
	Archiver Archiver
}

// Service provides the import and question operations on top of a Gateway.
type Service struct {
	gw       Gateway
	limiter  *ImportLimiter
	archiver Archiver
	timeout  time.Duration
	validate *validator.Validate

	now   func() time.Time
	newID func() string
}

// NewService creates a Service backed by gw.
func NewService(gw Gateway, cfg ServiceConfig) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultImportTimeout
	}

	return &Service{
		gw:       gw,
		limiter:  NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		archiver: cfg.Archiver,
		timeout:  timeout,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// beginImport takes a limiter slot and applies the import timeout. The
// returned func must be called once the import is finished.
func (s *Service) beginImport(ctx context.Context) (context.Context, func(), error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return ctx, func() {
		cancel()
		s.limiter.Release()
	}, nil
}

// finishImport archives the raw file and appends the history entry. Both
// happen after the data is committed, so failures are logged and swallowed.
func (s *Service) finishImport(ctx context.Context, rec ImportRecord, data []byte) {
	log := logging.WithFields(ctx, "import_id", rec.ID, "kind", rec.Kind, "file", rec.FileName)

	if s.archiver != nil {
		key, err := s.archiver.Store(ctx, rec.Kind, rec.ID, rec.FileName, data)
		if err != nil {
			log.Warn("archive upload failed", "error", err)
		} else {
			rec.ArchiveKey = key
		}
	}

	rec.ClientIP = ClientIPFromContext(ctx)
	rec.CreatedAt = s.now().UTC()
	if err := s.gw.RecordImport(ctx, &rec); err != nil {
		log.Warn("record import history failed", "error", err)
	}
}

// ListImports returns the most recent imports, newest first. limit is
// clamped to 1..100 and defaults to 20.
func (s *Service) ListImports(ctx context.Context, limit int) ([]ImportRecord, error) {
	switch {
	case limit <= 0:
		limit = 20
	case limit > 100:
		limit = 100
	}

	recs, err := s.gw.ListImports(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return recs, nil
}

// Ping checks the gateway when it supports it.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.gw.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// LimiterStatus reports import slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}
