package customer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"ledger/internal/db"
	"ledger/internal/domain"
	"ledger/internal/logging"
)

const columns = `id::text, name, balance, debt, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger).Named("customer_repo")}
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (name, balance, debt)
VALUES ($1, $2, $3)
RETURNING ` + columns
	return r.scanCustomer(r.pool.QueryRow(ctx, q, c.Name, c.Balance, c.Debt))
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
UPDATE customers
SET name = $2, balance = $3, debt = $4
WHERE id = $1
RETURNING ` + columns
	return r.scanCustomer(r.pool.QueryRow(ctx, q, c.ID, c.Name, c.Balance, c.Debt))
}

func (r *postgresRepo) Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Customer, error) {
	var out *domain.Customer
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := r.scanCustomer(tx.QueryRow(ctx, `SELECT `+columns+` FROM customers WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		next, err := fn(*current)
		if err != nil {
			return err
		}
		out, err = r.scanCustomer(tx.QueryRow(ctx, `
UPDATE customers
SET balance = $2, debt = $3
WHERE id = $1
RETURNING `+columns, id, next.Balance, next.Debt))
		return err
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("customer mutated", zap.String("id", id), zap.Int64("balance", out.Balance), zap.String("debt", out.Debt.String()))
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.scanCustomer(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM customers WHERE id = $1`, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM customers ORDER BY created_at ASC`)
	if err != nil {
		r.logger.Error("list customers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("list customers rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("listed customers", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if mapped := mapError(err); mapped != err {
			return mapped
		}
		r.logger.Error("delete customer", zap.String("id", id), zap.Error(err))
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Balance, &c.Debt, &c.CreatedAt)
	if err != nil {
		if mapped := mapError(err); mapped != err {
			return nil, mapped
		}
		r.logger.Error("scan customer", zap.Error(err))
		return nil, err
	}
	return &c, nil
}

// mapError translates driver errors into domain errors. A malformed id can never
// match a row, so it reads as not found.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return domain.ErrAlreadyExists
		case "22P02":
			return domain.ErrNotFound
		}
	}
	return err
}
