package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-server/internal/config"
)

// PostgresStore is the production backend.
type PostgresStore struct {
	sqlDB *sql.DB
	db    bob.DB
}

var _ Store = (*PostgresStore)(nil)

// ConnectionString builds the lib/pq DSN for env.
func ConnectionString(env *config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(env.PostgresUsername, env.PostgresPassword),
		Host:     env.PostgresAddress + ":" + env.PostgresPort,
		Path:     "/" + env.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func NewPostgresStore(env *config.Config) (*PostgresStore, error) {
	sqlDB, err := sql.Open("postgres", ConnectionString(env))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB.SetMaxOpenConns(env.PostgresMaxConns)
	sqlDB.SetMaxIdleConns(env.PostgresMaxConns)

	return NewPostgresStoreFromDB(sqlDB), nil
}

// NewPostgresStoreFromDB wraps an already opened database handle.
func NewPostgresStoreFromDB(sqlDB *sql.DB) *PostgresStore {
	return &PostgresStore{
		sqlDB: sqlDB,
		db:    bob.NewDB(sqlDB),
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func (s *PostgresStore) Read() *Reader {
	return NewReader(s.db)
}

func (s *PostgresStore) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return NewWriter(tx), nil
}

func (s *PostgresStore) Close() error {
	logrus.Info("PostgresStore.Close")
	return s.sqlDB.Close()
}
