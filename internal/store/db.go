package store

import (
	"context"
	"database/sql"
	"log/slog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

type Store struct {
	DB *sql.DB
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer; a single connection also serializes
	// every read-modify-write transaction the ledgers run.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		slog.Warn("Failed to set sqlite pragmas", "error", err)
	}

	return &Store{DB: db}, nil
}

// Open creates the store and brings the schema up to date.
func Open(ctx context.Context, dataSourceName string) (*Store, error) {
	s, err := NewStore(dataSourceName)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
