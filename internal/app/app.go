// Package app wires the store, workflows and adapters from configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/tally/internal/adjustment"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/tally/internal/invoice/store"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/memory"
	"github.com/MrJamesThe3rd/tally/internal/payment"
)

// Store is everything the workflows persist through.
type Store interface {
	invoice.Repository
	invoice.PriceLookup
	payment.Repository
	adjustment.Repository
}

type App struct {
	Invoices    *invoice.Service
	Payments    *payment.Service
	Adjustments *adjustment.Service
	Importer    *importer.Service

	db *sql.DB
}

// New opens the configured store and builds the services on top of it.
// Postgres schemas are migrated on start.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	rounding, err := cfg.RoundingTable()
	if err != nil {
		return nil, err
	}

	tags, err := cfg.TagPolicy()
	if err != nil {
		return nil, err
	}

	a := &App{}

	var store Store

	switch cfg.Store.Driver {
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		store = memory.New()
	default:
		db, err := Open(ctx, cfg)
		if err != nil {
			return nil, err
		}

		a.db = db
		store = invoiceStore.New(db)
	}

	opts := []invoice.Option{
		invoice.WithLogger(logger),
		invoice.WithPriceLookup(store),
		invoice.WithTagPolicy(tags),
	}

	var poster invoice.LedgerPoster

	if cfg.Ledger.URL != "" {
		poster = ledger.NewClient(cfg.Ledger.URL, cfg.Ledger.Token, cfg.Ledger.Timeout)
		opts = append(opts, invoice.WithLedger(poster))
	}

	a.Invoices = invoice.NewService(store, rounding, opts...)
	a.Payments = payment.NewService(store, a.Invoices, payment.WithLogger(logger))

	adjOpts := []adjustment.Option{adjustment.WithLogger(logger)}
	if poster != nil {
		adjOpts = append(adjOpts, adjustment.WithLedger(poster))
	}

	a.Adjustments = adjustment.NewService(store, a.Invoices, adjOpts...)
	a.Importer = importer.NewService(a.Payments)

	return a, nil
}

// Open connects to postgres and applies the schema.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.New(ctx, cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return db, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}

	return a.db.Close()
}
