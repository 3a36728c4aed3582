package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/michael-berardi/harborform/internal/models"
)

// Snapshot maps collection keys to their JSON arrays. It is the shape of a
// browser local-storage dump, where each value may also be the array
// encoded as a JSON string.
type Snapshot map[string]json.RawMessage

// ImportResult reports how many records were written per key, and which
// keys in the snapshot were not collections.
type ImportResult struct {
	Counts  map[string]int
	Skipped []string
}

// Import replaces every collection present in the snapshot read from r.
// Nothing is written unless all of them decode.
func Import(ctx context.Context, kv TxKV, r io.Reader) (*ImportResult, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	res := &ImportResult{Counts: make(map[string]int)}
	for key := range snap {
		switch key {
		case TasksKey, BillingKey, InvoicesKey:
		default:
			res.Skipped = append(res.Skipped, key)
		}
	}
	sort.Strings(res.Skipped)

	err := kv.WithinTx(ctx, func(tx KV) error {
		if err := importKey[models.Task](ctx, tx, snap, TasksKey, res); err != nil {
			return err
		}
		if err := importKey[models.BillingItem](ctx, tx, snap, BillingKey, res); err != nil {
			return err
		}
		return importKey[models.Invoice](ctx, tx, snap, InvoicesKey, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func importKey[T any](ctx context.Context, kv KV, snap Snapshot, key string, res *ImportResult) error {
	raw, ok := snap[key]
	if !ok {
		return nil
	}
	// localStorage values are strings; unwrap one level of quoting.
	if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return fmt.Errorf("decode %s: %w: %v", key, ErrCorruptCollection, err)
		}
		raw = json.RawMessage(inner)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("decode %s: %w: %v", key, ErrCorruptCollection, err)
	}
	res.Counts[key] = len(items)
	return WriteCollection(ctx, kv, key, items)
}

// Export writes every collection as one JSON object keyed like Import expects.
func Export(ctx context.Context, kv KV, w io.Writer) error {
	snap := make(Snapshot)
	for _, key := range []string{TasksKey, BillingKey, InvoicesKey} {
		raw, err := kv.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if len(raw) == 0 {
			raw = []byte("[]")
		}
		if !json.Valid(raw) {
			return fmt.Errorf("export %s: %w", key, ErrCorruptCollection)
		}
		snap[key] = raw
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
