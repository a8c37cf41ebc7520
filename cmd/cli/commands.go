package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/tally/internal/app"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

type environment struct {
	cfg  *config.Config
	open func(ctx context.Context) (*app.App, error)
}

func newRootCmd(env *environment) *cobra.Command {
	root := &cobra.Command{
		Use:           "tally",
		Short:         "Operator tools for the invoice engine",
		SilenceUsage: true,
	}

	root.AddCommand(
		newRecalculateCmd(env),
		newRecalculatePaymentCmd(env),
		newCheckPaidCmd(env),
		newBalancesCmd(env),
		newMigrateCmd(env),
	)

	return root
}

// withApp opens the application for the duration of one command.
func withApp(cmd *cobra.Command, env *environment, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := env.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func parseUUIDArg(args []string) (uuid.UUID, error) {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", args[0], err)
	}

	return id, nil
}

func newRecalculateCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate <invoice-id>",
		Short: "Recompute the cached amounts of an invoice and its parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUIDArg(args)
			if err != nil {
				return err
			}

			return withApp(cmd, env, func(ctx context.Context, a *app.App) error {
				if err := a.Invoices.Recalculate(ctx, id); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "recalculated %s\n", id)

				return nil
			})
		},
	}
}

func newRecalculatePaymentCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate-payment <payment-id>",
		Short: "Recompute every invoice a payment is applied to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUIDArg(args)
			if err != nil {
				return err
			}

			return withApp(cmd, env, func(ctx context.Context, a *app.App) error {
				if err := a.Invoices.RecalculateFromPayment(ctx, id); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "recalculated invoices of payment %s\n", id)

				return nil
			})
		},
	}
}

func newCheckPaidCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "check-paid <invoice-id>",
		Short: "Mark an invoice paid when nothing is left open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUIDArg(args)
			if err != nil {
				return err
			}

			return withApp(cmd, env, func(ctx context.Context, a *app.App) error {
				changed, err := a.Invoices.CheckPaid(ctx, id)
				if err != nil {
					return err
				}

				inv, err := a.Invoices.Get(ctx, id)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "invoice %s status=%s changed=%t\n", id, inv.Status, changed)

				return nil
			})
		},
	}
}

type balancesOutput struct {
	InvoiceID       uuid.UUID `json:"invoice_id"`
	AsOf            string    `json:"as_of"`
	Total           string    `json:"total"`
	TaxedSubtotal   string    `json:"taxed_subtotal"`
	Applied         string    `json:"applied"`
	Adjusted        string    `json:"adjusted"`
	AdjustedTotal   string    `json:"adjusted_total"`
	Open            string    `json:"open"`
	PendingApplied  string    `json:"pending_applied"`
	PendingOpen     string    `json:"pending_open"`
	InterestCharged string    `json:"interest_charged"`
}

func newBalancesCmd(env *environment) *cobra.Command {
	var asOfFlag string

	cmd := &cobra.Command{
		Use:   "balances <invoice-id>",
		Short: "Print the derived amounts of an invoice at a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUIDArg(args)
			if err != nil {
				return err
			}

			return withApp(cmd, env, func(ctx context.Context, a *app.App) error {
				asOf := a.Invoices.Now()

				if asOfFlag != "" {
					asOf, err = invoice.ParseAsOf(asOfFlag)
					if err != nil {
						return fmt.Errorf("invalid --as-of, use YYYY-MM-DD: %w", err)
					}
				}

				amounts, err := a.Invoices.Balances(ctx, id, asOf)
				if err != nil {
					return err
				}

				out := balancesOutput{
					InvoiceID:       id,
					AsOf:            asOf.Format(time.DateOnly),
					Total:           amounts.Total.String(),
					TaxedSubtotal:   amounts.TaxedSubtotal.String(),
					Applied:         amounts.Applied.String(),
					Adjusted:        amounts.Adjusted.String(),
					AdjustedTotal:   amounts.AdjustedTotal.String(),
					Open:            amounts.Open.String(),
					PendingApplied:  amounts.PendingApplied.String(),
					PendingOpen:     amounts.PendingOpen.String(),
					InterestCharged: amounts.InterestCharged.String(),
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(out)
			})
		},
	}

	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "date to compute balances at (YYYY-MM-DD, default: now)")

	return cmd
}

func newMigrateCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if env.cfg.Store.Driver != config.StorePostgres {
				return fmt.Errorf("migrate needs STORE_DRIVER=%s, got %s", config.StorePostgres, env.cfg.Store.Driver)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			db, err := app.Open(ctx, env.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")

			return nil
		},
	}
}
