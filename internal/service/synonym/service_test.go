package synonym

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/synonym-backend/internal/config"
	"github.com/heartmarshall/synonym-backend/internal/domain"
	"github.com/heartmarshall/synonym-backend/internal/format"
	"github.com/heartmarshall/synonym-backend/internal/jobs"
	"github.com/heartmarshall/synonym-backend/pkg/ctxutil"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockSynonymRepo struct {
	FindIDFunc  func(ctx context.Context, key domain.LookupKey) (uuid.UUID, error)
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Synonym, error)
	CreateFunc  func(ctx context.Context, s *domain.Synonym) (*domain.Synonym, error)
	UpdateFunc  func(ctx context.Context, s *domain.Synonym) (*domain.Synonym, error)
	ListFunc    func(ctx context.Context, filter domain.SynonymFilter) ([]domain.Synonym, error)
}

func (m *mockSynonymRepo) FindID(ctx context.Context, key domain.LookupKey) (uuid.UUID, error) {
	if m.FindIDFunc != nil {
		return m.FindIDFunc(ctx, key)
	}
	return uuid.Nil, domain.ErrNotFound
}

func (m *mockSynonymRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Synonym, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSynonymRepo) Create(ctx context.Context, s *domain.Synonym) (*domain.Synonym, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return s, nil
}

func (m *mockSynonymRepo) Update(ctx context.Context, s *domain.Synonym) (*domain.Synonym, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, s)
	}
	return s, nil
}

func (m *mockSynonymRepo) List(ctx context.Context, filter domain.SynonymFilter) ([]domain.Synonym, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

// ===========================================================================
// In-memory store
// ===========================================================================

// memStore keeps records in insertion order, like a table ordered by a
// time-ordered id.
type memStore struct {
	mu      sync.Mutex
	records []domain.Synonym
}

func (m *memStore) FindID(_ context.Context, key domain.LookupKey) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Type != key.Type || r.Language != key.Language {
			continue
		}
		if r.Word == key.Word || (key.Match == domain.MatchContains && strings.Contains(r.Word, key.Word)) {
			return r.ID, nil
		}
	}
	return uuid.Nil, domain.ErrNotFound
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Synonym, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			cp := r
			cp.Synonyms = slices.Clone(r.Synonyms)
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) Create(_ context.Context, s *domain.Synonym) (*domain.Synonym, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.Synonyms = slices.Clone(s.Synonyms)
	m.records = append(m.records, cp)
	return s, nil
}

func (m *memStore) Update(_ context.Context, s *domain.Synonym) (*domain.Synonym, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == s.ID {
			cp := *s
			cp.Synonyms = slices.Clone(s.Synonyms)
			cp.CreatedAt = r.CreatedAt
			m.records[i] = cp
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) List(_ context.Context, filter domain.SynonymFilter) ([]domain.Synonym, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Synonym{}
	for _, r := range m.records {
		if r.Language != filter.Language {
			continue
		}
		if filter.Type != nil && r.Type != *filter.Type {
			continue
		}
		if filter.ActiveOnly && !r.Active {
			continue
		}
		out = append(out, r)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) byWord(word string) *domain.Synonym {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Word == word {
			cp := r
			return &cp
		}
	}
	return nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// ===========================================================================
// Helpers
// ===========================================================================

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultImportCfg() config.ImportConfig {
	return config.ImportConfig{
		SyncThreshold:  50,
		ChunkSize:      10,
		Workers:        4,
		LookupMode:     "exact",
		MaxUploadBytes: 1 << 20,
	}
}

func defaultSettings() domain.ImportSettings {
	return domain.ImportSettings{
		Language:       "en",
		Type:           domain.SynonymTypeSynonym,
		UpdateExisting: domain.UpdatePolicyMerge,
		Active:         true,
	}
}

func newTestService(repo synonymRepo, cfg config.ImportConfig) *Service {
	logger := discardLogger()
	svc := NewService(logger, repo, &mockTxManager{}, jobs.NewRunner(cfg.Workers, logger), cfg,
		config.ExportConfig{MaxRecords: 1000})
	svc.SetClock(func() time.Time { return fixedNow })
	return svc
}

func authCtx() (context.Context, uuid.UUID) {
	ownerID := uuid.New()
	return ctxutil.WithOwnerID(context.Background(), ownerID), ownerID
}

func csvImport(body string, settings domain.ImportSettings) ImportInput {
	return ImportInput{
		Format:   "csv",
		Source:   strings.NewReader(body),
		Options:  format.DefaultOptions(),
		Settings: settings,
	}
}
