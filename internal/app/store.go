package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql, used by goose
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/synonym-backend/internal/adapter/postgres"
	pgsynonym "github.com/heartmarshall/synonym-backend/internal/adapter/postgres/synonym"
	"github.com/heartmarshall/synonym-backend/internal/adapter/sqlite"
	"github.com/heartmarshall/synonym-backend/internal/config"
	"github.com/heartmarshall/synonym-backend/internal/domain"
	"github.com/heartmarshall/synonym-backend/migrations"
)

// SynonymStore is the record store contract both adapters implement.
type SynonymStore interface {
	FindID(ctx context.Context, key domain.LookupKey) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Synonym, error)
	Create(ctx context.Context, s *domain.Synonym) (*domain.Synonym, error)
	Update(ctx context.Context, s *domain.Synonym) (*domain.Synonym, error)
	List(ctx context.Context, filter domain.SynonymFilter) ([]domain.Synonym, error)
}

// TxRunner runs fn inside a store transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store bundles the repository and transaction manager of the configured
// driver together with its lifecycle hooks.
type Store struct {
	Driver   string
	Synonyms SynonymStore
	Tx       TxRunner

	ping  func(ctx context.Context) error
	close func() error
}

// OpenStore connects to the backend selected by cfg.Store.Driver. The SQLite
// store migrates itself on open; PostgreSQL expects "migrate" to have run.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:   config.DriverPostgres,
			Synonyms: pgsynonym.New(pool),
			Tx:       postgres.NewTxManager(pool),
			ping:     pool.Ping,
			close: func() error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:   config.DriverSQLite,
			Synonyms: sqlite.NewSynonymRepo(db),
			Tx:       sqlite.NewTxManager(db),
			ping:     db.PingContext,
			close:    db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// Ping reports whether the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the underlying connections.
func (s *Store) Close() error {
	return s.close()
}

// Migrate applies the embedded migrations to the configured store and
// returns how many were applied.
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (int, error) {
	var (
		db      *sql.DB
		dialect goose.Dialect
		err     error
	)

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		dialect = goose.DialectPostgres
		db, err = sql.Open("pgx", cfg.Database.DSN)
		if err != nil {
			return 0, fmt.Errorf("open postgres: %w", err)
		}
	case config.DriverSQLite:
		dialect = goose.DialectSQLite3
		db, err = sqlite.Connect(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
	defer db.Close()

	applied, err := migrations.Up(ctx, db, dialect)
	if err != nil {
		return 0, err
	}

	logger.Info("migrations applied",
		slog.String("driver", cfg.Store.Driver),
		slog.Int("applied", applied),
	)
	return applied, nil
}
