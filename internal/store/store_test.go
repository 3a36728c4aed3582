package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/michael-berardi/harborform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Amount float64  `json:"amount"`
	Tags   []string `json:"tags,omitempty"`
	Rate   *float64 `json:"rate,omitempty"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func backends(t *testing.T) map[string]TxKV {
	return map[string]TxKV{
		"sqlite": newTestStore(t),
		"memory": NewMemoryKV(),
	}
}

func TestReadCollectionAbsentKey(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			items, err := ReadCollection[record](context.Background(), kv, "missing")
			require.NoError(t, err)
			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	rate := 42.5
	want := []record{
		{ID: "c", Name: "third-by-id", Amount: 1.25, Tags: []string{"seo", "ads"}},
		{ID: "a", Name: "second", Amount: 0, Rate: &rate},
		{ID: "b", Name: "unicode ✓", Amount: 99.99},
	}

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, WriteCollection(ctx, kv, TasksKey, want))

			got, err := ReadCollection[record](ctx, kv, TasksKey)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// Overwrite replaces the whole collection.
			require.NoError(t, WriteCollection(ctx, kv, TasksKey, want[:1]))
			got, err = ReadCollection[record](ctx, kv, TasksKey)
			require.NoError(t, err)
			assert.Equal(t, want[:1], got)
		})
	}
}

func TestReadCollectionCorrupt(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, BillingKey, []byte(`[{"id":`)))

			_, err := ReadCollection[record](ctx, kv, BillingKey)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorruptCollection)
		})
	}
}

func TestWithinTxRollback(t *testing.T) {
	boom := errors.New("boom")

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, WriteCollection(ctx, kv, InvoicesKey, []record{{ID: "keep"}}))

			err := kv.WithinTx(ctx, func(tx KV) error {
				if err := WriteCollection(ctx, tx, InvoicesKey, []record{{ID: "lost"}}); err != nil {
					return err
				}
				// Reads inside the transaction see its own writes.
				inside, err := ReadCollection[record](ctx, tx, InvoicesKey)
				require.NoError(t, err)
				assert.Equal(t, "lost", inside[0].ID)
				return boom
			})
			assert.ErrorIs(t, err, boom)

			got, err := ReadCollection[record](ctx, kv, InvoicesKey)
			require.NoError(t, err)
			assert.Equal(t, []record{{ID: "keep"}}, got)
		})
	}
}

func TestWithinTxCommit(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			err := kv.WithinTx(ctx, func(tx KV) error {
				if err := WriteCollection(ctx, tx, TasksKey, []record{{ID: "t1"}}); err != nil {
					return err
				}
				return WriteCollection(ctx, tx, BillingKey, []record{{ID: "b1"}})
			})
			require.NoError(t, err)

			tasks, err := ReadCollection[record](ctx, kv, TasksKey)
			require.NoError(t, err)
			billing, err := ReadCollection[record](ctx, kv, BillingKey)
			require.NoError(t, err)
			assert.Len(t, tasks, 1)
			assert.Len(t, billing, 1)
		})
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))

	var n int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestSubmissions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Jane", "John", "Ada"} {
		sub := &models.Submission{
			Kind:    models.SubmissionLead,
			Name:    name,
			Email:   name + "@example.com",
			Company: "Acme",
			Payload: `{"name":"` + name + `"}`,
		}
		require.NoError(t, s.CreateSubmission(ctx, sub))
		assert.NotZero(t, sub.ID)
	}

	count, err := s.GetTotalSubmissionsCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	page, err := s.GetSubmissions(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Ada", page[0].Name)
	assert.Equal(t, "John", page[1].Name)

	page, err = s.GetSubmissions(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Jane", page[0].Name)
	assert.Equal(t, models.SubmissionLead, page[0].Kind)
}
