package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name  string
	Price int64
}

type customerSeed struct {
	Name    string
	Balance int64
}

var (
	demoProducts = []productSeed{
		{Name: "Kopi Susu", Price: 18000},
		{Name: "Teh Manis", Price: 8000},
		{Name: "Roti Bakar", Price: 15000},
		{Name: "Air Mineral", Price: 5000},
	}
	demoCustomers = []customerSeed{
		{Name: "Andi", Balance: 100000},
		{Name: "Budi", Balance: 25000},
		{Name: "Citra", Balance: 0},
	}
)

// Apply inserts demo data for manual testing. Running it twice changes nothing:
// products upsert on their name and customers are only added when missing.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, p := range demoProducts {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	for _, c := range demoCustomers {
		if err := ensureCustomer(ctx, pool, c); err != nil {
			return fmt.Errorf("ensure customer %s: %w", c.Name, err)
		}
	}
	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, price)
VALUES ($1, $2)
ON CONFLICT ((lower(name))) DO UPDATE
SET price = EXCLUDED.price
`
	_, err := pool.Exec(ctx, q, p.Name, p.Price)
	return err
}

func ensureCustomer(ctx context.Context, pool *pgxpool.Pool, c customerSeed) error {
	const q = `
INSERT INTO customers (name, balance, debt)
SELECT $1::text, $2::bigint, 0
WHERE NOT EXISTS (SELECT 1 FROM customers WHERE lower(name) = lower($1::text))
`
	_, err := pool.Exec(ctx, q, c.Name, c.Balance)
	return err
}
