// Package synonym implements the synonym record store on PostgreSQL.
// Synonym lists are persisted comma-joined in a single text column.
package synonym

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/synonym-backend/internal/adapter/postgres"
	"github.com/heartmarshall/synonym-backend/internal/domain"
)

const (
	table  = "synonyms"
	entity = "synonym"
)

var columns = []string{
	"id", "word", "synonyms", "type", "language",
	"active", "created_at", "changed_at", "owner_id",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides synonym record persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new synonym repository. db is used whenever the context
// carries no transaction.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID        uuid.UUID `db:"id"`
	Word      string    `db:"word"`
	Synonyms  string    `db:"synonyms"`
	Type      string    `db:"type"`
	Language  string    `db:"language"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	ChangedAt time.Time `db:"changed_at"`
	OwnerID   uuid.UUID `db:"owner_id"`
}

func (r row) toDomain() domain.Synonym {
	return domain.Synonym{
		ID:        r.ID,
		Word:      r.Word,
		Synonyms:  domain.SplitSynonyms(r.Synonyms),
		Type:      domain.SynonymType(r.Type),
		Language:  r.Language,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
		ChangedAt: r.ChangedAt,
		OwnerID:   r.OwnerID,
	}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindID returns the id of the first record, by insertion order, matching
// key. MatchContains matches stored words containing key.Word.
// Returns domain.ErrNotFound when nothing matches.
func (r *Repo) FindID(ctx context.Context, key domain.LookupKey) (uuid.UUID, error) {
	q := psql.Select("id").
		From(table).
		Where(squirrel.Eq{"type": string(key.Type), "language": key.Language}).
		OrderBy("id").
		Limit(1)

	if key.Match == domain.MatchContains {
		q = q.Where("strpos(word, ?) > 0", key.Word)
	} else {
		q = q.Where(squirrel.Eq{"word": key.Word})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build find query: %w", err)
	}

	var id uuid.UUID
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return uuid.Nil, postgres.MapError(err, entity, key.Word)
	}
	return id, nil
}

// GetByID returns a record by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Synonym, error) {
	sql, args, err := psql.Select(columns...).
		From(table).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	var rec row
	if err := getOne(ctx, postgres.QuerierFromCtx(ctx, r.db), &rec, sql, args...); err != nil {
		return nil, postgres.MapError(err, entity, id.String())
	}

	s := rec.toDomain()
	return &s, nil
}

// List returns records for one language ordered by insertion.
func (r *Repo) List(ctx context.Context, filter domain.SynonymFilter) ([]domain.Synonym, error) {
	q := psql.Select(columns...).
		From(table).
		Where(squirrel.Eq{"language": filter.Language}).
		OrderBy("id")

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": string(*filter.Type)})
	}
	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"active": true})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list synonyms: %w", err)
	}

	out := make([]domain.Synonym, len(rows))
	for i, rec := range rows {
		out[i] = rec.toDomain()
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts s and returns the stored record.
func (r *Repo) Create(ctx context.Context, s *domain.Synonym) (*domain.Synonym, error) {
	sql, args, err := psql.Insert(table).
		Columns(columns...).
		Values(
			s.ID, s.Word, domain.JoinSynonyms(s.Synonyms), string(s.Type), s.Language,
			s.Active, s.CreatedAt, s.ChangedAt, s.OwnerID,
		).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	var rec row
	if err := getOne(ctx, postgres.QuerierFromCtx(ctx, r.db), &rec, sql, args...); err != nil {
		return nil, postgres.MapError(err, entity, s.Word)
	}

	out := rec.toDomain()
	return &out, nil
}

// Update replaces the synonym list, active flag and change time of an
// existing record. Word, type, language and created_at are immutable.
func (r *Repo) Update(ctx context.Context, s *domain.Synonym) (*domain.Synonym, error) {
	sql, args, err := psql.Update(table).
		Set("synonyms", domain.JoinSynonyms(s.Synonyms)).
		Set("active", s.Active).
		Set("changed_at", s.ChangedAt).
		Where("id = ?", s.ID).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var rec row
	if err := getOne(ctx, postgres.QuerierFromCtx(ctx, r.db), &rec, sql, args...); err != nil {
		return nil, postgres.MapError(err, entity, s.ID.String())
	}

	out := rec.toDomain()
	return &out, nil
}

func returning() string {
	return strings.Join(columns, ", ")
}

// getOne scans a single row into dst, reporting an empty result as
// pgx.ErrNoRows so MapError turns it into domain.ErrNotFound.
func getOne(ctx context.Context, q postgres.Querier, dst any, sql string, args ...any) error {
	err := pgxscan.Get(ctx, q, dst, sql, args...)
	if pgxscan.NotFound(err) {
		return pgx.ErrNoRows
	}
	return err
}
