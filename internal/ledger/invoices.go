package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/michael-berardi/harborform/internal/models"
	"github.com/michael-berardi/harborform/internal/store"
)

const (
	invoicePrefix = "INV-"
	// totalTolerance absorbs float rounding between the caller's sum and ours.
	totalTolerance = 0.01
)

type Invoices struct {
	kv   store.TxKV
	opts Options
}

func (l *Invoices) List(ctx context.Context) ([]models.Invoice, error) {
	return store.ReadCollection[models.Invoice](ctx, l.kv, store.InvoicesKey)
}

// Create records a draft invoice over itemIDs and marks those billing items
// invoiced, in a single transaction. Ids that match no billing item are
// ignored. total and client are stored as given; a total that differs from
// the priced items is logged, never rejected, so discounts go through.
func (l *Invoices) Create(ctx context.Context, itemIDs []string, total float64, client string) (models.Invoice, error) {
	invoice := models.Invoice{
		ID:        invoicePrefix + l.opts.NewID(),
		Items:     append([]string(nil), itemIDs...),
		Total:     total,
		Client:    client,
		Status:    models.InvoiceDraft,
		CreatedAt: l.opts.Now(),
	}

	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}

	err := l.kv.WithinTx(ctx, func(kv store.KV) error {
		items, err := store.ReadCollection[models.BillingItem](ctx, kv, store.BillingKey)
		if err != nil {
			return err
		}

		var sum float64
		for _, b := range items {
			if wanted[b.ID] {
				sum += Amount(b, l.opts.HourlyRate)
			}
		}
		if math.Abs(sum-total) > totalTolerance {
			slog.Warn("Invoice total differs from its items",
				"invoice", invoice.ID,
				"client", client,
				"total", total,
				"items_sum", sum,
			)
		}

		invoices, err := store.ReadCollection[models.Invoice](ctx, kv, store.InvoicesKey)
		if err != nil {
			return err
		}
		if err := store.WriteCollection(ctx, kv, store.InvoicesKey, append(invoices, invoice)); err != nil {
			return err
		}

		for i := range items {
			if wanted[items[i].ID] {
				items[i].Status = models.BillingInvoiced
			}
		}
		return store.WriteCollection(ctx, kv, store.BillingKey, items)
	})
	if err != nil {
		return models.Invoice{}, err
	}
	return invoice, nil
}

// SetStatus moves an invoice between draft, sent and paid. The referenced
// items are never revisited.
func (l *Invoices) SetStatus(ctx context.Context, id string, status models.InvoiceStatus) (invoice models.Invoice, found bool, err error) {
	if !status.Valid() {
		return models.Invoice{}, false, invalid(fmt.Errorf("unknown invoice status %q", status))
	}

	err = l.kv.WithinTx(ctx, func(kv store.KV) error {
		invoices, err := store.ReadCollection[models.Invoice](ctx, kv, store.InvoicesKey)
		if err != nil {
			return err
		}
		for i := range invoices {
			if invoices[i].ID == id {
				invoices[i].Status = status
				invoice, found = invoices[i], true
				return store.WriteCollection(ctx, kv, store.InvoicesKey, invoices)
			}
		}
		return nil
	})
	if err != nil {
		return models.Invoice{}, false, err
	}
	return invoice, found, nil
}

// Quote prices the given billing items with the ledger's hourly rate, for
// callers building the total they pass to Create.
func (l *Invoices) Quote(ctx context.Context, itemIDs []string) (float64, error) {
	items, err := store.ReadCollection[models.BillingItem](ctx, l.kv, store.BillingKey)
	if err != nil {
		return 0, err
	}
	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	var sum float64
	for _, b := range items {
		if wanted[b.ID] {
			sum += Amount(b, l.opts.HourlyRate)
		}
	}
	return sum, nil
}
