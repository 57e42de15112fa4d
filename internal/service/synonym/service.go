// Package synonym implements the import/export pipeline for synonym records:
// parse, group, reconcile against the store, and render back out.
package synonym

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/synonym-backend/internal/config"
	"github.com/heartmarshall/synonym-backend/internal/domain"
	"github.com/heartmarshall/synonym-backend/internal/jobs"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type synonymRepo interface {
	FindID(ctx context.Context, key domain.LookupKey) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Synonym, error)
	Create(ctx context.Context, s *domain.Synonym) (*domain.Synonym, error)
	Update(ctx context.Context, s *domain.Synonym) (*domain.Synonym, error)
	List(ctx context.Context, filter domain.SynonymFilter) ([]domain.Synonym, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type jobRunner interface {
	Submit(ctx context.Context, units []jobs.Unit, onItemComplete func(index int, err error), onAllComplete func()) *jobs.Job
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements synonym import and export.
type Service struct {
	log       *slog.Logger
	synonyms  synonymRepo
	tx        txManager
	runner    jobRunner
	importCfg config.ImportConfig
	exportCfg config.ExportConfig
	now       func() time.Time
}

// NewService creates a new Synonym service.
func NewService(
	logger *slog.Logger,
	synonyms synonymRepo,
	tx txManager,
	runner jobRunner,
	importCfg config.ImportConfig,
	exportCfg config.ExportConfig,
) *Service {
	return &Service{
		log:       logger.With("service", "synonym"),
		synonyms:  synonyms,
		tx:        tx,
		runner:    runner,
		importCfg: importCfg,
		exportCfg: exportCfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source used for created/changed timestamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) lookupMode() domain.MatchMode {
	mode := domain.MatchMode(s.importCfg.LookupMode)
	if !mode.IsValid() {
		return domain.MatchExact
	}
	return mode
}

func (s *Service) chunkSize() int {
	if s.importCfg.ChunkSize <= 0 {
		return 10
	}
	return s.importCfg.ChunkSize
}
