package ledger

import (
	"context"

	"github.com/michael-berardi/harborform/internal/models"
	"github.com/michael-berardi/harborform/internal/store"
)

type Billing struct {
	kv   store.TxKV
	opts Options
}

func (l *Billing) List(ctx context.Context) ([]models.BillingItem, error) {
	return store.ReadCollection[models.BillingItem](ctx, l.kv, store.BillingKey)
}

// Create appends a pending item. Durations, rates and the fixed-rate flag
// are stored as given; the admin form checks them before they get here.
func (l *Billing) Create(ctx context.Context, in models.NewBillingItem) (models.BillingItem, error) {
	item := models.BillingItem{
		ID:          l.opts.NewID(),
		TaskID:      in.TaskID,
		Title:       in.Title,
		Client:      in.Client,
		Property:    in.Property,
		Platforms:   in.Platforms,
		Duration:    in.Duration,
		Minutes:     in.Minutes,
		IsFixedRate: in.IsFixedRate,
		Rate:        in.Rate,
		Date:        in.Date,
		Status:      models.BillingPending,
	}
	if item.Duration == 0 && item.Minutes != nil {
		item.Duration = float64(*item.Minutes) / 60
	}

	err := l.kv.WithinTx(ctx, func(kv store.KV) error {
		items, err := store.ReadCollection[models.BillingItem](ctx, kv, store.BillingKey)
		if err != nil {
			return err
		}
		return store.WriteCollection(ctx, kv, store.BillingKey, append(items, item))
	})
	if err != nil {
		return models.BillingItem{}, err
	}
	return item, nil
}

// Update applies the non-nil fields of patch. found is false, and the
// collection is left unchanged, when no item has the given id.
func (l *Billing) Update(ctx context.Context, id string, patch models.BillingPatch) (item models.BillingItem, found bool, err error) {
	err = l.kv.WithinTx(ctx, func(kv store.KV) error {
		items, err := store.ReadCollection[models.BillingItem](ctx, kv, store.BillingKey)
		if err != nil {
			return err
		}
		for i := range items {
			if items[i].ID != id {
				continue
			}
			applyBilling(&items[i], patch)
			item, found = items[i], true
			return store.WriteCollection(ctx, kv, store.BillingKey, items)
		}
		return nil
	})
	if err != nil {
		return models.BillingItem{}, false, err
	}
	return item, found, nil
}

func applyBilling(b *models.BillingItem, p models.BillingPatch) {
	if p.TaskID != nil {
		b.TaskID = *p.TaskID
	}
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Client != nil {
		b.Client = *p.Client
	}
	if p.Property != nil {
		b.Property = *p.Property
	}
	if p.Platforms != nil {
		b.Platforms = p.Platforms
	}
	if p.Minutes != nil {
		m := *p.Minutes
		b.Minutes = &m
		if p.Duration == nil {
			b.Duration = float64(m) / 60
		}
	}
	if p.Duration != nil {
		b.Duration = *p.Duration
	}
	if p.IsFixedRate != nil {
		b.IsFixedRate = *p.IsFixedRate
	}
	if p.Rate != nil {
		r := *p.Rate
		b.Rate = &r
	}
	if p.Date != nil {
		b.Date = *p.Date
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
}

func (l *Billing) Delete(ctx context.Context, id string) error {
	return l.kv.WithinTx(ctx, func(kv store.KV) error {
		items, err := store.ReadCollection[models.BillingItem](ctx, kv, store.BillingKey)
		if err != nil {
			return err
		}
		kept := items[:0]
		for _, b := range items {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		if len(kept) == len(items) {
			return nil
		}
		return store.WriteCollection(ctx, kv, store.BillingKey, kept)
	})
}

// Amount prices a billing item. Fixed-rate items cost their rate; hourly
// items cost duration times their own rate, or hourlyRate when unset.
func Amount(b models.BillingItem, hourlyRate float64) float64 {
	if b.IsFixedRate {
		if b.Rate == nil {
			return 0
		}
		return *b.Rate
	}
	rate := hourlyRate
	if b.Rate != nil {
		rate = *b.Rate
	}
	return b.Duration * rate
}

// Amount prices b with the ledger's configured hourly rate.
func (l *Billing) Amount(b models.BillingItem) float64 {
	return Amount(b, l.opts.HourlyRate)
}
