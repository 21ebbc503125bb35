package order

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"farmpos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Settle(ctx context.Context, in SettleInput) (*domain.Order, *domain.Payment, error) {
	// Idempotent replay: a retry after a reported failure must not write
	// a second order under the same key.
	existing, payment, err := r.getByIdempotencyKey(ctx, in.IdempotencyKey)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	if existing != nil {
		r.logger.Printf("order repo: replay idempotency_key=%s order_id=%s", in.IdempotencyKey, existing.ID)
		return existing, payment, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var ord domain.Order
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, total_cents, status, idempotency_key)
VALUES ($1, $2, 'pending', $3)
RETURNING id::text, user_id, total_cents, status, created_at
`, in.UserID, in.TotalCents, in.IdempotencyKey).Scan(
		&ord.ID, &ord.UserID, &ord.TotalCents, &ord.Status, &ord.CreatedAt,
	)
	if err != nil {
		// Two retries racing on the same key: the unique constraint stops
		// the second insert, so hand back the winner's order instead of an
		// error the caller would read as a fresh failure.
		if isIdempotencyConflict(err) {
			r.logger.Printf("order repo: concurrent replay idempotency_key=%s", in.IdempotencyKey)
			return r.getByIdempotencyKey(ctx, in.IdempotencyKey)
		}
		r.logger.Printf("order repo: insert order user_id=%s error=%v", in.UserID, err)
		return nil, nil, err
	}
	ord.IdempotencyKey = in.IdempotencyKey

	for _, line := range in.Lines {
		var item domain.OrderItem
		err = tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, variant_id, product_name, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`, ord.ID, line.ProductID, line.VariantID, line.ProductName, line.Quantity, line.UnitPriceCents).Scan(&item.ID)
		if err != nil {
			r.logger.Printf("order repo: insert item order_id=%s product_id=%s error=%v", ord.ID, line.ProductID, err)
			return nil, nil, err
		}
		item.OrderID = ord.ID
		item.ProductID = line.ProductID
		item.VariantID = line.VariantID
		item.ProductName = line.ProductName
		item.Quantity = line.Quantity
		item.UnitPriceCents = line.UnitPriceCents
		ord.Items = append(ord.Items, item)

		// Conditional decrement is the authoritative oversell guard.
		// Zero rows touched means another settlement got there first;
		// abort before any payment row exists.
		if err := decrementStock(ctx, tx, line); err != nil {
			if errors.Is(err, domain.ErrStockConflict) {
				r.logger.Printf("order repo: stock conflict order_id=%s product_id=%s qty=%d", ord.ID, line.ProductID, line.Quantity)
			}
			return nil, nil, err
		}
	}

	var pay domain.Payment
	err = tx.QueryRow(ctx, `
INSERT INTO payments (order_id, amount_cents, method, status, txn_ref)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, created_at
`, ord.ID, in.AmountCents, in.Method, in.PaymentStatus, in.TxnRef).Scan(&pay.ID, &pay.CreatedAt)
	if err != nil {
		r.logger.Printf("order repo: insert payment order_id=%s error=%v", ord.ID, err)
		return nil, nil, err
	}
	pay.OrderID = ord.ID
	pay.AmountCents = in.AmountCents
	pay.Method = in.Method
	pay.Status = in.PaymentStatus
	pay.TxnRef = in.TxnRef

	if in.Status != domain.OrderPending {
		if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, in.Status, ord.ID); err != nil {
			r.logger.Printf("order repo: update status order_id=%s error=%v", ord.ID, err)
			return nil, nil, err
		}
		ord.Status = in.Status
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	r.logger.Printf("order repo: settled order_id=%s total_cents=%d lines=%d", ord.ID, ord.TotalCents, len(ord.Items))
	return &ord, &pay, nil
}

// isIdempotencyConflict reports whether err is the unique violation raised
// when a second order insert carries an idempotency key already on file.
func isIdempotencyConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == "23505" &&
		strings.Contains(pgErr.ConstraintName, "idempotency_key")
}

func decrementStock(ctx context.Context, tx pgx.Tx, line SettleLine) error {
	var cmd pgconn.CommandTag
	var err error
	if line.VariantID != nil {
		cmd, err = tx.Exec(ctx, `
UPDATE product_variants
SET stock = stock - $1
WHERE id = $2 AND stock >= $1
`, line.Quantity, *line.VariantID)
	} else {
		cmd, err = tx.Exec(ctx, `
UPDATE products
SET stock = stock - $1
WHERE id = $2 AND stock >= $1
`, line.Quantity, line.ProductID)
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrStockConflict
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, *domain.Payment, error) {
	return r.fetchOrder(ctx, `
SELECT id::text, user_id, total_cents, status, idempotency_key, created_at
FROM orders
WHERE id = $1
`, id)
}

func (r *postgresRepo) getByIdempotencyKey(ctx context.Context, key string) (*domain.Order, *domain.Payment, error) {
	return r.fetchOrder(ctx, `
SELECT id::text, user_id, total_cents, status, idempotency_key, created_at
FROM orders
WHERE idempotency_key = $1
`, key)
}

func (r *postgresRepo) fetchOrder(ctx context.Context, orderQuery string, arg interface{}) (*domain.Order, *domain.Payment, error) {
	var ord domain.Order
	err := r.pool.QueryRow(ctx, orderQuery, arg).Scan(
		&ord.ID, &ord.UserID, &ord.TotalCents, &ord.Status, &ord.IdempotencyKey, &ord.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, product_id::text, variant_id::text, product_name, quantity, unit_price_cents
FROM order_items
WHERE order_id = $1
ORDER BY product_name ASC
`, ord.ID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID, &item.ProductName, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, nil, err
		}
		ord.Items = append(ord.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var pay domain.Payment
	err = r.pool.QueryRow(ctx, `
SELECT id::text, order_id::text, amount_cents, method, status, txn_ref, created_at
FROM payments
WHERE order_id = $1
ORDER BY created_at ASC
LIMIT 1
`, ord.ID).Scan(&pay.ID, &pay.OrderID, &pay.AmountCents, &pay.Method, &pay.Status, &pay.TxnRef, &pay.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &ord, nil, nil
		}
		return nil, nil, err
	}
	return &ord, &pay, nil
}
