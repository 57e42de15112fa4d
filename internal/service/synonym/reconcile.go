package synonym

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

type outcome struct {
	ID      uuid.UUID
	Created bool
}

// reconcile creates or updates the record for one grouped item. Lookup and
// write share a transaction, so a failed write leaves nothing behind.
func (s *Service) reconcile(ctx context.Context, item GroupedItem, settings domain.ImportSettings, ownerID uuid.UUID) (out outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.ErrorContext(ctx, "reconcile panicked",
				slog.String("word", item.Word),
				slog.Any("panic", r),
			)
			out, err = outcome{}, fmt.Errorf("reconcile %q: panic: %v", item.Word, r)
		}
	}()

	key := domain.LookupKey{
		Word:     item.Word,
		Type:     settings.Type,
		Language: settings.Language,
		Match:    s.lookupMode(),
	}

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		id, findErr := s.synonyms.FindID(txCtx, key)
		switch {
		case findErr == nil:
			existing, getErr := s.synonyms.GetByID(txCtx, id)
			if getErr != nil {
				return &domain.LookupError{Word: item.Word, Err: getErr}
			}

			if settings.UpdateExisting == domain.UpdatePolicyOverwrite {
				existing.Synonyms = domain.DedupeSynonyms(item.Synonyms)
			} else {
				existing.Synonyms = domain.DedupeSynonyms(existing.Synonyms, item.Synonyms)
			}
			existing.Active = settings.Active
			existing.ChangedAt = s.now()

			if _, updErr := s.synonyms.Update(txCtx, existing); updErr != nil {
				return &domain.PersistError{Word: item.Word, Err: updErr}
			}
			out = outcome{ID: existing.ID}
			return nil

		case errors.Is(findErr, domain.ErrNotFound):
			id, idErr := uuid.NewV7()
			if idErr != nil {
				return &domain.PersistError{Word: item.Word, Err: idErr}
			}
			now := s.now()
			rec := &domain.Synonym{
				ID:        id,
				Word:      item.Word,
				Synonyms:  domain.DedupeSynonyms(item.Synonyms),
				Type:      settings.Type,
				Language:  settings.Language,
				Active:    settings.Active,
				CreatedAt: now,
				ChangedAt: now,
				OwnerID:   ownerID,
			}
			created, createErr := s.synonyms.Create(txCtx, rec)
			if createErr != nil {
				return &domain.PersistError{Word: item.Word, Err: createErr}
			}
			out = outcome{ID: created.ID, Created: true}
			return nil

		default:
			return &domain.LookupError{Word: item.Word, Err: findErr}
		}
	})
	if txErr != nil {
		var lookupErr *domain.LookupError
		var persistErr *domain.PersistError
		if errors.As(txErr, &lookupErr) || errors.As(txErr, &persistErr) {
			return outcome{}, txErr
		}
		// Begin or commit failed.
		return outcome{}, &domain.PersistError{Word: item.Word, Err: txErr}
	}

	return out, nil
}
