package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ideaboard/ideaboard/shared/config"
	"github.com/ideaboard/ideaboard/shared/logger"
	shared_pg "github.com/ideaboard/ideaboard/shared/storage/pg"
)

// Querier is re-exported so the internal methods read the same as the shared package.
type Querier = shared_pg.Querier

// bound for a single store call; the ajax endpoint never waits longer on the db
const queryTimeout = 5 * time.Second

type Storage struct {
	db *sql.DB
}

func New(cfg *config.Config) (*Storage, error) {
	return NewWithConnectionConfig(cfg, shared_pg.DefaultConnectionConfig())
}

func NewWithConnectionConfig(cfg *config.Config, connCfg shared_pg.ConnectionConfig) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Private.Pg.Host, "dbname", cfg.Private.Pg.Dbname)
	db, err := shared_pg.Connect(cfg, connCfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")
	return &Storage{db: db}, nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// Ping backs the readiness check.
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func (s *Storage) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return shared_pg.WithTx(ctx, s.db, fn)
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}
