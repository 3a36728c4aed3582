package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the bookkeeping collections. The _v2 suffix matches the layout
// written by the browser-side tool, so exported local storage imports as is.
const (
	TasksKey    = "harborform_tasks_v2"
	BillingKey  = "harborform_billing_v2"
	InvoicesKey = "harborform_invoices_v2"
)

var ErrCorruptCollection = errors.New("stored collection is not valid JSON")

// KV stores one serialized collection per key. Get returns nil, nil for
// an absent key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// TxKV is a KV that can group several reads and writes into one
// all-or-nothing unit.
type TxKV interface {
	KV
	WithinTx(ctx context.Context, fn func(kv KV) error) error
}

// ReadCollection decodes the ordered sequence stored under key. An absent
// key yields an empty, non-nil slice.
func ReadCollection[T any](ctx context.Context, kv KV, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	items := []T{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", key, ErrCorruptCollection, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// WriteCollection replaces the whole collection stored under key.
func WriteCollection[T any](ctx context.Context, kv KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlKV struct {
	q querier
}

func (k sqlKV) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := k.q.QueryRowContext(ctx, `SELECT payload FROM collections WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (k sqlKV) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO collections (key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`
	_, err := k.q.ExecContext(ctx, query, key, value)
	return err
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	return sqlKV{q: s.DB}.Get(ctx, key)
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return sqlKV{q: s.DB}.Set(ctx, key, value)
}

// WithinTx runs fn against a transaction-scoped KV. The transaction is
// committed when fn returns nil and rolled back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(kv KV) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(sqlKV{q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
