package ledger

import (
	"context"
	"sort"

	"github.com/michael-berardi/harborform/internal/models"
)

type DashboardStats struct {
	TotalTasks       int
	TasksByStatus    map[models.TaskStatus]int
	PendingHours     float64
	PendingAmount    float64
	InvoiceTotals    map[models.InvoiceStatus]float64
	OutstandingTotal float64 // draft + sent
}

type ClientSummary struct {
	Client        string
	OpenTasks     int
	PendingHours  float64
	PendingAmount float64
	InvoicedTotal float64
	PaidTotal     float64
}

func (l *Ledgers) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	tasks, err := l.Tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	items, err := l.Billing.List(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := l.Invoices.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalTasks:    len(tasks),
		TasksByStatus: make(map[models.TaskStatus]int),
		InvoiceTotals: make(map[models.InvoiceStatus]float64),
	}
	for _, t := range tasks {
		stats.TasksByStatus[t.Status]++
	}
	for _, b := range items {
		if b.Status != models.BillingPending {
			continue
		}
		stats.PendingHours += b.Duration
		stats.PendingAmount += l.Billing.Amount(b)
	}
	for _, inv := range invoices {
		stats.InvoiceTotals[inv.Status] += inv.Total
		if inv.Status != models.InvoicePaid {
			stats.OutstandingTotal += inv.Total
		}
	}
	return stats, nil
}

// Clients rolls tasks, billing items and invoices up per client name,
// sorted by name.
func (l *Ledgers) Clients(ctx context.Context) ([]ClientSummary, error) {
	tasks, err := l.Tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	items, err := l.Billing.List(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := l.Invoices.List(ctx)
	if err != nil {
		return nil, err
	}

	byClient := make(map[string]*ClientSummary)
	get := func(name string) *ClientSummary {
		cs, ok := byClient[name]
		if !ok {
			cs = &ClientSummary{Client: name}
			byClient[name] = cs
		}
		return cs
	}

	for _, t := range tasks {
		cs := get(t.Client)
		if t.Status != models.TaskCompleted {
			cs.OpenTasks++
		}
	}
	for _, b := range items {
		cs := get(b.Client)
		if b.Status == models.BillingPending {
			cs.PendingHours += b.Duration
			cs.PendingAmount += l.Billing.Amount(b)
		}
	}
	for _, inv := range invoices {
		cs := get(inv.Client)
		cs.InvoicedTotal += inv.Total
		if inv.Status == models.InvoicePaid {
			cs.PaidTotal += inv.Total
		}
	}

	out := make([]ClientSummary, 0, len(byClient))
	for _, cs := range byClient {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out, nil
}
