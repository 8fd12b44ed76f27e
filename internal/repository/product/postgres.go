package product

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"ledger/internal/domain"
	"ledger/internal/logging"
)

const columns = `id::text, name, price, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger).Named("product_repo")}
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, price)
VALUES ($1, $2)
RETURNING ` + columns
	return r.scanProduct(r.pool.QueryRow(ctx, q, p.Name, p.Price))
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = $2, price = $3
WHERE id = $1
RETURNING ` + columns
	return r.scanProduct(r.pool.QueryRow(ctx, q, p.ID, p.Name, p.Price))
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, price)
VALUES ($1, $2)
ON CONFLICT ((lower(name))) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price
RETURNING ` + columns
	res, err := r.scanProduct(r.pool.QueryRow(ctx, q, p.Name, p.Price))
	if err != nil {
		r.logger.Error("upsert product", zap.String("name", p.Name), zap.Error(err))
		return nil, err
	}
	r.logger.Info("upserted product", zap.String("id", res.ID), zap.String("name", res.Name), zap.Int64("price", res.Price))
	return res, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := r.scanProduct(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, domain.ErrNotFound) {
		r.logger.Debug("product not found", zap.String("id", id))
	}
	return p, err
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Error("list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("list products rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("listed products", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

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
