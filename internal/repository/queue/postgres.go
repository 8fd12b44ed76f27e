package queue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ledger/internal/db"
	"ledger/internal/domain"
	"ledger/internal/logging"
)

const selectQueue = `
SELECT q.id::text, q.customer_id::text, q.status, q.payment_method, q.date, q.created_at,
       c.id::text, c.name, c.balance, c.debt, c.created_at
FROM queues q
LEFT JOIN customers c ON c.id = q.customer_id
`

const selectOrders = `
SELECT id::text, queue_id::text, product_id::text, product_name, product_price, quantity, discount, total_price
FROM product_orders
WHERE queue_id::text = ANY($1)
ORDER BY queue_id, position ASC
`

// ErrInsufficientBalance is returned when a write would leave the customer's
// balance negative, e.g. after a concurrent withdrawal.
var ErrInsufficientBalance = domain.Invalid("insufficient balance")

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger).Named("queue_repo")}
}

func (r *postgresRepo) Add(ctx context.Context, q domain.Queue) (*domain.Queue, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		customers, err := lockCustomers(ctx, tx, q.CustomerID)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
INSERT INTO queues (customer_id, status, payment_method, date)
VALUES ($1, $2, $3, $4)
RETURNING id::text
`, q.CustomerID, string(q.Status), string(q.PaymentMethod), q.Date).Scan(&q.ID)
		if err != nil {
			return mapError(err)
		}
		if err := insertOrders(ctx, tx, q.ID, q.ProductOrders, 0); err != nil {
			return err
		}

		if c := customerOf(customers, q.CustomerID); c != nil {
			if err := chargeMade(c, q); err != nil {
				return err
			}
			return saveLedger(ctx, tx, *c)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("add queue", zap.Error(err))
		return nil, err
	}
	r.logger.Info("queue added", zap.String("id", q.ID), zap.String("status", string(q.Status)), zap.String("grand_total", q.GrandTotalPrice().String()))
	return r.GetByID(ctx, q.ID)
}

func (r *postgresRepo) Update(ctx context.Context, q domain.Queue) (*domain.Queue, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		old, err := fetchOne(ctx, tx, selectQueue+`WHERE q.id = $1 FOR UPDATE OF q`, q.ID)
		if err != nil {
			return err
		}
		customers, err := lockCustomers(ctx, tx, old.CustomerID, q.CustomerID)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
UPDATE queues
SET customer_id = $2, status = $3, payment_method = $4, date = $5
WHERE id = $1
`, q.ID, q.CustomerID, string(q.Status), string(q.PaymentMethod), q.Date); err != nil {
			return mapError(err)
		}
		if err := syncOrders(ctx, tx, q.ID, old.ProductOrders, q.ProductOrders); err != nil {
			return err
		}

		// The previous owner only gets its charge back; the current owner gets
		// the revert-then-apply delta, which covers an unchanged owner as well.
		if old.CustomerID != nil && !q.BelongsTo(*old.CustomerID) {
			if prev := customerOf(customers, old.CustomerID); prev != nil {
				prev.Balance, prev.Debt = prev.BalanceOnRevertedPayment(*old), prev.DebtOnRevertedPayment(*old)
				if err := saveLedger(ctx, tx, *prev); err != nil {
					return err
				}
			}
		}
		if cur := customerOf(customers, q.CustomerID); cur != nil {
			if err := chargeUpdated(cur, *old, q); err != nil {
				return err
			}
			return saveLedger(ctx, tx, *cur)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Error("update queue", zap.String("id", q.ID), zap.Error(err))
		}
		return nil, err
	}
	r.logger.Info("queue updated", zap.String("id", q.ID), zap.String("status", string(q.Status)))
	return r.GetByID(ctx, q.ID)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) (*domain.Queue, error) {
	var old *domain.Queue
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		old, err = fetchOne(ctx, tx, selectQueue+`WHERE q.id = $1 FOR UPDATE OF q`, id)
		if err != nil {
			return err
		}
		customers, err := lockCustomers(ctx, tx, old.CustomerID)
		if err != nil {
			return err
		}
		if c := customerOf(customers, old.CustomerID); c != nil {
			c.Balance, c.Debt = c.BalanceOnRevertedPayment(*old), c.DebtOnRevertedPayment(*old)
			if err := saveLedger(ctx, tx, *c); err != nil {
				return err
			}
		}
		_, err = tx.Exec(ctx, `DELETE FROM queues WHERE id = $1`, id)
		return err
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Error("delete queue", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	r.logger.Info("queue deleted", zap.String("id", id))
	return old, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Queue, error) {
	return fetchOne(ctx, r.pool, selectQueue+`WHERE q.id = $1`, id)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Queue, error) {
	queues, err := fetchMany(ctx, r.pool, selectQueue+`ORDER BY q.date DESC`)
	if err != nil {
		r.logger.Error("list queues", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("listed queues", zap.Int("count", len(queues)))
	return queues, nil
}

func (r *postgresRepo) ListInRange(ctx context.Context, from, to time.Time) ([]domain.Queue, error) {
	queues, err := fetchMany(ctx, r.pool, selectQueue+`WHERE q.date >= $1 AND q.date <= $2 ORDER BY q.date DESC`, from, to)
	if err != nil {
		r.logger.Error("list queues in range", zap.Time("from", from), zap.Time("to", to), zap.Error(err))
		return nil, err
	}
	return queues, nil
}

func fetchOne(ctx context.Context, qr querier, sql string, args ...any) (*domain.Queue, error) {
	queues, err := fetchMany(ctx, qr, sql, args...)
	if err != nil {
		return nil, err
	}
	if len(queues) == 0 {
		return nil, domain.ErrNotFound
	}
	return &queues[0], nil
}

func fetchMany(ctx context.Context, qr querier, sql string, args ...any) ([]domain.Queue, error) {
	rows, err := qr.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}

	var queues []domain.Queue
	index := map[string]int{}
	for rows.Next() {
		q, err := scanQueue(rows)
		if err != nil {
			rows.Close()
			return nil, mapError(err)
		}
		index[q.ID] = len(queues)
		queues = append(queues, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	if len(queues) == 0 {
		return nil, nil
	}

	ids := make([]string, len(queues))
	for i, q := range queues {
		ids[i] = q.ID
	}
	orderRows, err := qr.Query(ctx, selectOrders, ids)
	if err != nil {
		return nil, err
	}
	defer orderRows.Close()

	for orderRows.Next() {
		var o domain.ProductOrder
		if err := orderRows.Scan(&o.ID, &o.QueueID, &o.ProductID, &o.ProductName, &o.ProductPrice, &o.Quantity, &o.Discount, &o.TotalPrice); err != nil {
			return nil, err
		}
		i := index[o.QueueID]
		queues[i].ProductOrders = append(queues[i].ProductOrders, o)
	}
	if err := orderRows.Err(); err != nil {
		return nil, err
	}
	return queues, nil
}

func scanQueue(row pgx.Row) (domain.Queue, error) {
	var (
		q                        domain.Queue
		status, method           string
		customerID, customerName *string
		balance                  *int64
		debt                     decimal.NullDecimal
		customerCreatedAt        *time.Time
	)
	err := row.Scan(&q.ID, &q.CustomerID, &status, &method, &q.Date, &q.CreatedAt,
		&customerID, &customerName, &balance, &debt, &customerCreatedAt)
	if err != nil {
		return domain.Queue{}, err
	}
	q.Status = domain.QueueStatus(status)
	q.PaymentMethod = domain.PaymentMethod(method)
	if customerID != nil {
		q.Customer = &domain.Customer{
			ID:        *customerID,
			Name:      *customerName,
			Balance:   *balance,
			Debt:      debt.Decimal,
			CreatedAt: *customerCreatedAt,
		}
	}
	return q, nil
}

// lockCustomers takes row locks in id order so concurrent edits of queues
// sharing customers cannot deadlock.
func lockCustomers(ctx context.Context, tx pgx.Tx, ids ...*string) (map[string]*domain.Customer, error) {
	var keys []string
	for _, id := range ids {
		if id != nil && !slices.Contains(keys, *id) {
			keys = append(keys, *id)
		}
	}
	slices.Sort(keys)

	locked := make(map[string]*domain.Customer, len(keys))
	for _, id := range keys {
		var c domain.Customer
		err := tx.QueryRow(ctx, `
SELECT id::text, name, balance, debt, created_at
FROM customers
WHERE id = $1
FOR UPDATE
`, id).Scan(&c.ID, &c.Name, &c.Balance, &c.Debt, &c.CreatedAt)
		if err != nil {
			if mapped := mapError(err); errors.Is(mapped, domain.ErrNotFound) {
				return nil, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
			}
			return nil, err
		}
		locked[id] = &c
	}
	return locked, nil
}

func customerOf(customers map[string]*domain.Customer, id *string) *domain.Customer {
	if id == nil {
		return nil
	}
	return customers[*id]
}

// chargeMade applies q to c, refusing to overdraw the balance.
func chargeMade(c *domain.Customer, q domain.Queue) error {
	balance := c.BalanceOnMadePayment(q)
	if balance < 0 {
		return ErrInsufficientBalance
	}
	c.Balance, c.Debt = balance, c.DebtOnMadePayment(q)
	return nil
}

// chargeUpdated replaces the effect of old with updated, refusing to overdraw the balance.
func chargeUpdated(c *domain.Customer, old, updated domain.Queue) error {
	balance := c.BalanceOnUpdatedPayment(old, updated)
	if balance < 0 {
		return ErrInsufficientBalance
	}
	c.Balance, c.Debt = balance, c.DebtOnUpdatedPayment(old, updated)
	return nil
}

func saveLedger(ctx context.Context, tx execer, c domain.Customer) error {
	_, err := tx.Exec(ctx, `UPDATE customers SET balance = $2, debt = $3 WHERE id = $1`, c.ID, c.Balance, c.Debt)
	return err
}

func insertOrders(ctx context.Context, tx execer, queueID string, orders []domain.ProductOrder, offset int) error {
	for i, o := range orders {
		if _, err := tx.Exec(ctx, `
INSERT INTO product_orders (queue_id, product_id, product_name, product_price, quantity, discount, total_price, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, queueID, o.ProductID, o.ProductName, o.ProductPrice, o.Quantity, o.Discount, o.TotalPrice, offset+i); err != nil {
			return mapError(err)
		}
	}
	return nil
}

// syncOrders drops orders missing from updated, then updates kept orders in place
// and inserts new ones.
func syncOrders(ctx context.Context, tx execer, queueID string, old, updated []domain.ProductOrder) error {
	existing := make(map[string]bool, len(old))
	for _, o := range old {
		existing[o.ID] = true
	}
	kept := make([]string, 0, len(updated))
	for _, o := range updated {
		if o.ID != "" && existing[o.ID] {
			kept = append(kept, o.ID)
		}
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM product_orders
WHERE queue_id = $1 AND NOT (id::text = ANY($2))
`, queueID, kept); err != nil {
		return mapError(err)
	}

	for i, o := range updated {
		if o.ID != "" && existing[o.ID] {
			if _, err := tx.Exec(ctx, `
UPDATE product_orders
SET product_id = $3, product_name = $4, product_price = $5, quantity = $6, discount = $7, total_price = $8, position = $9
WHERE id = $1 AND queue_id = $2
`, o.ID, queueID, o.ProductID, o.ProductName, o.ProductPrice, o.Quantity, o.Discount, o.TotalPrice, i); err != nil {
				return mapError(err)
			}
			continue
		}
		if err := insertOrders(ctx, tx, queueID, []domain.ProductOrder{o}, i); err != nil {
			return err
		}
	}
	return nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "22P02":
			return domain.ErrNotFound
		case "23503":
			return fmt.Errorf("%w: referenced record does not exist", domain.ErrNotFound)
		}
	}
	return err
}
