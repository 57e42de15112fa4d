package synonym

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/synonym-backend/internal/domain"
	"github.com/heartmarshall/synonym-backend/internal/jobs"
)

// aggregator collects per-item outcomes from concurrent units.
type aggregator struct {
	mu  sync.Mutex
	res ImportResult
}

func (a *aggregator) record(item GroupedItem, out outcome, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.res.Failed = append(a.res.Failed, ImportError{
			Word:     item.Word,
			Synonyms: item.Synonyms,
			Reason:   failureReason(err),
			Err:      err,
		})
		return
	}
	a.res.Succeeded = append(a.res.Succeeded, out.ID)
	if out.Created {
		a.res.Created++
	} else {
		a.res.Updated++
	}
}

func (a *aggregator) result() *ImportResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	res := a.res
	return &res
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrLookup):
		return "lookup failed"
	case errors.Is(err, domain.ErrPersist):
		return "save failed"
	default:
		return "internal error"
	}
}

// schedule reconciles items either inline or, above the sync threshold, as
// chunks on the job runner. It returns once every item has an outcome.
func (s *Service) schedule(ctx context.Context, items []GroupedItem, settings domain.ImportSettings, ownerID uuid.UUID) *ImportResult {
	agg := &aggregator{res: ImportResult{
		Succeeded: make([]uuid.UUID, 0, len(items)),
		Failed:    []ImportError{},
	}}

	processItem := func(ctx context.Context, item GroupedItem) {
		out, err := s.reconcile(ctx, item, settings, ownerID)
		if err != nil {
			s.log.WarnContext(ctx, "import item failed",
				slog.String("word", item.Word),
				slog.String("error", err.Error()),
			)
		}
		agg.record(item, out, err)
	}

	if len(items) <= s.importCfg.SyncThreshold {
		for _, item := range items {
			processItem(ctx, item)
		}
		return agg.result()
	}

	chunks := chunkItems(items, s.chunkSize())
	units := make([]jobs.Unit, len(chunks))
	for i, chunk := range chunks {
		units[i] = func(ctx context.Context) error {
			for _, item := range chunk {
				processItem(ctx, item)
			}
			return nil
		}
	}

	finished := make(chan struct{})
	job := s.runner.Submit(ctx, units,
		func(index int, _ error) {
			s.log.DebugContext(ctx, "import chunk done", slog.Int("chunk", index))
		},
		func() { close(finished) },
	)
	s.log.InfoContext(ctx, "import batched",
		slog.String("job_id", job.ID.String()),
		slog.Int("items", len(items)),
		slog.Int("chunks", len(chunks)),
	)
	<-finished

	res := agg.result()
	res.Batched = true
	return res
}

// chunkItems splits items into ordered slices of at most size elements.
func chunkItems(items []GroupedItem, size int) [][]GroupedItem {
	chunks := make([][]GroupedItem, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
