package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

func (s *Store) DefaultPrice(ctx context.Context, productID, currency string) (decimal.Decimal, error) {
	var price decimal.Decimal

	err := s.db.QueryRowContext(ctx, `
		SELECT price FROM product_prices WHERE product_id = $1 AND currency = UPPER($2)`,
		productID, currency,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, invoice.ErrNotFound
		}

		return decimal.Zero, fmt.Errorf("getting price: %w", err)
	}

	return price, nil
}

func (s *Store) SetPrice(ctx context.Context, productID, currency string, price decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product_prices (product_id, currency, price)
		VALUES ($1, UPPER($2), $3)
		ON CONFLICT (product_id, currency) DO UPDATE SET price = EXCLUDED.price`,
		productID, currency, price,
	)
	if err != nil {
		return fmt.Errorf("setting price: %w", err)
	}

	return nil
}
