package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

// UniqueWord returns a word that will not collide with other tests sharing
// the container.
func UniqueWord(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// SeedSynonym inserts an active record and returns it.
func SeedSynonym(t *testing.T, pool *pgxpool.Pool, word string, typ domain.SynonymType, lang string, syns ...string) domain.Synonym {
	t.Helper()

	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("SeedSynonym: uuid: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.Synonym{
		ID:        id,
		Word:      word,
		Synonyms:  domain.DedupeSynonyms(syns),
		Type:      typ,
		Language:  lang,
		Active:    true,
		CreatedAt: now,
		ChangedAt: now,
		OwnerID:   uuid.New(),
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO synonyms (id, word, synonyms, type, language, active, created_at, changed_at, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Word, domain.JoinSynonyms(s.Synonyms), string(s.Type), s.Language, s.Active, s.CreatedAt, s.ChangedAt, s.OwnerID,
	)
	if err != nil {
		t.Fatalf("SeedSynonym: insert: %v", err)
	}
	return s
}
