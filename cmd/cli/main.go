// Command harborctl moves bookkeeping data in and out of the HarborForm
// store and prints the ledgers.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/michael-berardi/harborform/internal/ledger"
	"github.com/michael-berardi/harborform/internal/store"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	dbPath     string
	hourlyRate float64
	asJSON     bool
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "harborctl",
		Short: "Manage HarborForm bookkeeping data",
		Long: `Manage HarborForm bookkeeping data.

Examples:
  harborctl import localstorage.json   # Load a browser local-storage dump
  harborctl export > backup.json       # Dump all collections
  harborctl tasks list                 # Print the task ledger
  harborctl billing list --json        # Billing items as JSON
`,
		SilenceUsage: true,
	}

	defaultDB := os.Getenv("DB_PATH")
	if defaultDB == "" {
		defaultDB = "./harborform.db"
	}
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", defaultDB, "SQLite database path")
	cmd.PersistentFlags().Float64Var(&opts.hourlyRate, "hourly-rate", 100, "Default hourly rate used to price billing items")
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Output as JSON")

	cmd.AddCommand(importCmd(opts), exportCmd(opts))
	cmd.AddCommand(listGroup("tasks", "Task ledger", opts, listTasks))
	cmd.AddCommand(listGroup("billing", "Billing ledger", opts, listBilling))
	cmd.AddCommand(listGroup("invoices", "Invoices", opts, listInvoices))
	return cmd
}

func openStore(ctx context.Context, opts *options) (*store.Store, error) {
	st, err := store.Open(ctx, opts.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.dbPath, err)
	}
	return st, nil
}

func importCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace collections from a JSON dump (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			st, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := store.Import(cmd.Context(), st, in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range []string{store.TasksKey, store.BillingKey, store.InvoicesKey} {
				if n, ok := res.Counts[key]; ok {
					fmt.Fprintf(out, "imported %d records into %s\n", n, key)
				}
			}
			if len(res.Skipped) > 0 {
				fmt.Fprintf(out, "skipped unknown keys: %s\n", strings.Join(res.Skipped, ", "))
			}
			return nil
		},
	}
}

func exportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write all collections as one JSON object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer st.Close()
			return store.Export(cmd.Context(), st, cmd.OutOrStdout())
		},
	}
}

type lister func(ctx context.Context, l *ledger.Ledgers, w io.Writer, asJSON bool) error

func listGroup(name, short string, opts *options, list lister) *cobra.Command {
	group := &cobra.Command{Use: name, Short: short}
	group.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List " + strings.ToLower(short),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer st.Close()
			l := ledger.New(st, ledger.Options{HourlyRate: opts.hourlyRate})
			return list(cmd.Context(), l, cmd.OutOrStdout(), opts.asJSON)
		},
	})
	return group
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func listTasks(ctx context.Context, l *ledger.Ledgers, w io.Writer, asJSON bool) error {
	tasks, err := l.Tasks.List(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, tasks)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tASSIGNEE\tCLIENT\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, t.AssignedTo, t.Client, t.Title)
	}
	return tw.Flush()
}

func listBilling(ctx context.Context, l *ledger.Ledgers, w io.Writer, asJSON bool) error {
	items, err := l.Billing.List(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, items)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tCLIENT\tHOURS\tAMOUNT\tTITLE")
	for _, b := range items {
		hours := fmt.Sprintf("%.2f", b.Duration)
		if b.IsFixedRate {
			hours = "fixed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n", b.ID, b.Date, b.Status, b.Client, hours, l.Billing.Amount(b), b.Title)
	}
	return tw.Flush()
}

func listInvoices(ctx context.Context, l *ledger.Ledgers, w io.Writer, asJSON bool) error {
	invoices, err := l.Invoices.List(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, invoices)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tCLIENT\tITEMS\tTOTAL")
	for _, inv := range invoices {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.2f\n", inv.ID, inv.CreatedAt.Format("2006-01-02"), inv.Status, inv.Client, len(inv.Items), inv.Total)
	}
	return tw.Flush()
}
