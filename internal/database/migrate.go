package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type migration struct {
	name string
	up   string
}

// migrations are idempotent and applied in order.
var migrations = []migration{
	{
		name: "create_invoices",
		up: `
CREATE TABLE IF NOT EXISTS invoices (
    id               UUID PRIMARY KEY,
    type             TEXT NOT NULL,
    status           TEXT NOT NULL DEFAULT 'in_process',
    currency         TEXT NOT NULL,
    description      TEXT NOT NULL DEFAULT '',
    invoice_date     DATE NOT NULL,
    due_date         DATE,
    paid_date        DATE,
    posted_at        TIMESTAMPTZ,
    total            NUMERIC NOT NULL DEFAULT 0,
    taxed_subtotal   NUMERIC NOT NULL DEFAULT 0,
    applied          NUMERIC NOT NULL DEFAULT 0,
    adjusted         NUMERIC NOT NULL DEFAULT 0,
    adjusted_total   NUMERIC NOT NULL DEFAULT 0,
    open_amount      NUMERIC NOT NULL DEFAULT 0,
    pending_applied  NUMERIC NOT NULL DEFAULT 0,
    pending_open     NUMERIC NOT NULL DEFAULT 0,
    interest_charged NUMERIC NOT NULL DEFAULT 0,
    recalculated_at  TIMESTAMPTZ,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices (status);
`,
	},
	{
		name: "create_invoice_items",
		up: `
CREATE TABLE IF NOT EXISTS invoice_items (
    id                UUID PRIMARY KEY,
    invoice_id        UUID NOT NULL REFERENCES invoices (id) ON DELETE CASCADE,
    seq               INT NOT NULL,
    type              TEXT NOT NULL,
    product_id        TEXT NOT NULL DEFAULT '',
    description       TEXT NOT NULL DEFAULT '',
    amount            NUMERIC,
    quantity          NUMERIC,
    parent_invoice_id UUID REFERENCES invoices (id),
    tags              JSONB NOT NULL DEFAULT '{}',
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CHECK (parent_invoice_id IS NULL OR parent_invoice_id <> invoice_id)
);

CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items (invoice_id, seq);
CREATE INDEX IF NOT EXISTS idx_invoice_items_parent ON invoice_items (parent_invoice_id) WHERE parent_invoice_id IS NOT NULL;
`,
	},
	{
		name: "create_payments",
		up: `
CREATE TABLE IF NOT EXISTS payments (
    id             UUID PRIMARY KEY,
    status         TEXT NOT NULL,
    amount         NUMERIC NOT NULL,
    effective_date TIMESTAMPTZ NOT NULL,
    reference      TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS payment_applications (
    id             UUID PRIMARY KEY,
    payment_id     UUID NOT NULL REFERENCES payments (id) ON DELETE CASCADE,
    invoice_id     UUID REFERENCES invoices (id),
    amount_applied NUMERIC NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payment_applications_invoice ON payment_applications (invoice_id);
`,
	},
	{
		name: "create_invoice_adjustments",
		up: `
CREATE TABLE IF NOT EXISTS invoice_adjustments (
    id             UUID PRIMARY KEY,
    invoice_id     UUID NOT NULL REFERENCES invoices (id) ON DELETE CASCADE,
    type           TEXT NOT NULL,
    amount         NUMERIC NOT NULL,
    effective_date TIMESTAMPTZ NOT NULL,
    description    TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_invoice_adjustments_invoice ON invoice_adjustments (invoice_id, effective_date);
`,
	},
	{
		name: "create_product_prices",
		up: `
CREATE TABLE IF NOT EXISTS product_prices (
    product_id TEXT NOT NULL,
    currency   TEXT NOT NULL,
    price      NUMERIC NOT NULL,
    PRIMARY KEY (product_id, currency)
);
`,
	},
}

// Migrate applies the schema in a single transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration: %w", err)
	}
	defer tx.Rollback()

	for _, m := range migrations {
		if _, err := tx.ExecContext(ctx, m.up); err != nil {
			return fmt.Errorf("applying %s: %w", m.name, err)
		}

		slog.Debug("migration applied", "name", m.name)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	return nil
}
