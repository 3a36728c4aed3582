// Package ledger implements the bookkeeping collections: tasks, billable
// entries and the invoices built from them. Every mutation reads the whole
// collection, transforms it and writes it back inside one store transaction.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/michael-berardi/harborform/internal/store"
)

var ErrInvalid = errors.New("invalid input")

// Options are shared by the three ledgers.
type Options struct {
	Now   func() time.Time
	NewID func() string
	// HourlyRate prices hourly billing items that carry no rate of their own.
	HourlyRate float64
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Ledgers bundles the three ledgers over one store.
type Ledgers struct {
	Tasks    *Tasks
	Billing  *Billing
	Invoices *Invoices
}

func New(kv store.TxKV, opts Options) *Ledgers {
	opts = opts.withDefaults()
	return &Ledgers{
		Tasks:    &Tasks{kv: kv, opts: opts},
		Billing:  &Billing{kv: kv, opts: opts},
		Invoices: &Invoices{kv: kv, opts: opts},
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}
