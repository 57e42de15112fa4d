package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

var synonymColumns = []string{
	"id", "word", "synonyms", "type", "language",
	"active", "created_at", "changed_at", "owner_id",
}

var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// SynonymRepo provides synonym record persistence backed by SQLite.
type SynonymRepo struct {
	db *sql.DB
}

func NewSynonymRepo(db *sql.DB) *SynonymRepo {
	return &SynonymRepo{db: db}
}

type synonymRow struct {
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

func (r synonymRow) toDomain() domain.Synonym {
	return domain.Synonym{
		ID:        r.ID,
		Word:      r.Word,
		Synonyms:  domain.SplitSynonyms(r.Synonyms),
		Type:      domain.SynonymType(r.Type),
		Language:  r.Language,
		Active:    r.Active,
		CreatedAt: r.CreatedAt.UTC(),
		ChangedAt: r.ChangedAt.UTC(),
		OwnerID:   r.OwnerID,
	}
}

// FindID returns the first matching record id by insertion order.
func (r *SynonymRepo) FindID(ctx context.Context, key domain.LookupKey) (uuid.UUID, error) {
	q := sq.Select("id").
		From("synonyms").
		Where(squirrel.Eq{"type": string(key.Type), "language": key.Language}).
		OrderBy("id").
		Limit(1)

	if key.Match == domain.MatchContains {
		q = q.Where("instr(word, ?) > 0", key.Word)
	} else {
		q = q.Where(squirrel.Eq{"word": key.Word})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build find query: %w", err)
	}

	var id uuid.UUID
	if err := QuerierFromCtx(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, mapError(err, key.Word)
	}
	return id, nil
}

func (r *SynonymRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Synonym, error) {
	query, args, err := sq.Select(synonymColumns...).
		From("synonyms").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	var row synonymRow
	if err := getOne(ctx, QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, mapError(err, id.String())
	}

	s := row.toDomain()
	return &s, nil
}

func (r *SynonymRepo) List(ctx context.Context, filter domain.SynonymFilter) ([]domain.Synonym, error) {
	q := sq.Select(synonymColumns...).
		From("synonyms").
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

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var rows []synonymRow
	if err := sqlscan.Select(ctx, QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list synonyms: %w", err)
	}

	out := make([]domain.Synonym, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *SynonymRepo) Create(ctx context.Context, s *domain.Synonym) (*domain.Synonym, error) {
	query, args, err := sq.Insert("synonyms").
		Columns(synonymColumns...).
		Values(
			s.ID, s.Word, domain.JoinSynonyms(s.Synonyms), string(s.Type), s.Language,
			s.Active, s.CreatedAt.UTC(), s.ChangedAt.UTC(), s.OwnerID,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if _, err := QuerierFromCtx(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return nil, mapError(err, s.Word)
	}
	return r.GetByID(ctx, s.ID)
}

// Update replaces the synonym list, active flag and change time.
func (r *SynonymRepo) Update(ctx context.Context, s *domain.Synonym) (*domain.Synonym, error) {
	query, args, err := sq.Update("synonyms").
		Set("synonyms", domain.JoinSynonyms(s.Synonyms)).
		Set("active", s.Active).
		Set("changed_at", s.ChangedAt.UTC()).
		Where("id = ?", s.ID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	res, err := QuerierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, s.ID.String())
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, mapError(sql.ErrNoRows, s.ID.String())
	}
	return r.GetByID(ctx, s.ID)
}

func getOne(ctx context.Context, q Querier, dst any, query string, args ...any) error {
	err := sqlscan.Get(ctx, q, dst, query, args...)
	if sqlscan.NotFound(err) {
		return sql.ErrNoRows
	}
	return err
}

// mapError converts database/sql and sqlite3 errors to domain errors.
func mapError(err error, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("synonym %s: %w", key, domain.ErrNotFound)
	}

	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) && sqErr.Code == sqlite3.ErrConstraint {
		switch sqErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("synonym %s: %w", key, domain.ErrAlreadyExists)
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("synonym %s: %w (%s)", key, domain.ErrValidation, strings.TrimSpace(sqErr.Error()))
		}
	}
	return fmt.Errorf("synonym %s: %w", key, err)
}
