package ledger

import (
	"context"
	"testing"

	"github.com/michael-berardi/harborform/internal/models"
	"github.com/michael-berardi/harborform/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourly(title string, hours float64) models.NewBillingItem {
	return models.NewBillingItem{
		Title:    title,
		Client:   "Harbor Dental",
		Duration: hours,
		Date:     "2024-03-01",
	}
}

func TestBillingCreate(t *testing.T) {
	l, _ := newTestLedgers(t)
	ctx := context.Background()

	item, err := l.Billing.Create(ctx, models.NewBillingItem{
		TaskID:    "task-that-does-not-exist",
		Title:     "Local SEO sprint",
		Client:    "Harbor Dental",
		Platforms: []string{"google", "yelp"},
		Minutes:   ptr(90),
		Date:      "2024-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BillingPending, item.Status)
	assert.Equal(t, 1.5, item.Duration)
	assert.Equal(t, "task-that-does-not-exist", item.TaskID)

	items, err := l.Billing.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.BillingItem{item}, items)
}

func TestBillingCreateLeavesChecksToCaller(t *testing.T) {
	l, _ := newTestLedgers(t)
	ctx := context.Background()

	fixed, err := l.Billing.Create(ctx, models.NewBillingItem{Title: "Retainer", Client: "Harbor Dental", IsFixedRate: true})
	require.NoError(t, err)
	assert.True(t, fixed.IsFixedRate)
	assert.Nil(t, fixed.Rate)
	assert.Zero(t, Amount(fixed, 100))

	negative, err := l.Billing.Create(ctx, hourly("Refund", -1))
	require.NoError(t, err)
	assert.Equal(t, -1.0, negative.Duration)
	assert.Equal(t, -100.0, l.Billing.Amount(negative))

	items, err := l.Billing.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestBillingUpdateUnknownID(t *testing.T) {
	l, kv := newTestLedgers(t)
	ctx := context.Background()

	_, err := l.Billing.Create(ctx, hourly("keep", 2))
	require.NoError(t, err)
	before, err := kv.Get(ctx, store.BillingKey)
	require.NoError(t, err)

	_, found, err := l.Billing.Update(ctx, "missing", models.BillingPatch{Status: ptr(models.BillingInvoiced)})
	require.NoError(t, err)
	assert.False(t, found)

	after, err := kv.Get(ctx, store.BillingKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBillingUpdate(t *testing.T) {
	l, _ := newTestLedgers(t)
	ctx := context.Background()

	item, err := l.Billing.Create(ctx, hourly("Ads setup", 2))
	require.NoError(t, err)

	updated, found, err := l.Billing.Update(ctx, item.ID, models.BillingPatch{Minutes: ptr(30)})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0.5, updated.Duration)

	updated, found, err = l.Billing.Update(ctx, item.ID, models.BillingPatch{IsFixedRate: ptr(true)})
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, updated.Rate)

	items, err := l.Billing.List(ctx)
	require.NoError(t, err)
	assert.True(t, items[0].IsFixedRate)
}

func TestBillingDelete(t *testing.T) {
	l, _ := newTestLedgers(t)
	ctx := context.Background()

	a, err := l.Billing.Create(ctx, hourly("a", 1))
	require.NoError(t, err)
	b, err := l.Billing.Create(ctx, hourly("b", 1))
	require.NoError(t, err)

	require.NoError(t, l.Billing.Delete(ctx, a.ID))
	items, err := l.Billing.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.BillingItem{b}, items)
}

func TestAmount(t *testing.T) {
	assert.Equal(t, 250.0, Amount(models.BillingItem{Duration: 2.5}, 100))
	assert.Equal(t, 120.0, Amount(models.BillingItem{Duration: 2, Rate: ptr(60.0)}, 100))
	assert.Equal(t, 500.0, Amount(models.BillingItem{IsFixedRate: true, Duration: 9, Rate: ptr(500.0)}, 100))
	assert.Equal(t, 0.0, Amount(models.BillingItem{IsFixedRate: true}, 100))
}
