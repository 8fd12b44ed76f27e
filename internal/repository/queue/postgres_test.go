package queue

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/domain"
	customerrepo "ledger/internal/repository/customer"
	"ledger/internal/testutil"
)

func line(name string, price int64, qty string) domain.ProductOrder {
	return domain.ProductOrder{
		ProductName:  name,
		ProductPrice: price,
		Quantity:     decimal.RequireFromString(qty),
	}.WithCalculatedTotal()
}

func TestPostgres_AddUpdateDeleteKeepsLedger(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Pool(ctx, t)
	customers := customerrepo.NewPostgres(pool, nil)
	repo := NewPostgres(pool, nil)

	amy, err := customers.Create(ctx, domain.Customer{Name: "Amy", Balance: 500, Debt: decimal.Zero})
	require.NoError(t, err)

	added, err := repo.Add(ctx, domain.Queue{
		CustomerID:    &amy.ID,
		Status:        domain.StatusCompleted,
		PaymentMethod: domain.PaymentAccountBalance,
		Date:          time.Now(),
		ProductOrders: []domain.ProductOrder{line("Kopi", 100, "1")},
	})
	require.NoError(t, err)
	require.Len(t, added.ProductOrders, 1)
	require.NotNil(t, added.Customer)
	assert.Equal(t, int64(400), added.Customer.Balance)

	edited := *added
	edited.ProductOrders = []domain.ProductOrder{
		added.ProductOrders[0],
		line("Teh", 150, "1"),
	}
	updated, err := repo.Update(ctx, edited)
	require.NoError(t, err)
	assert.Len(t, updated.ProductOrders, 2)
	assert.Equal(t, added.ProductOrders[0].ID, updated.ProductOrders[0].ID)
	assert.Equal(t, int64(250), updated.Customer.Balance)

	again, err := repo.Update(ctx, *updated)
	require.NoError(t, err)
	assert.Equal(t, int64(250), again.Customer.Balance)

	unpaid := *again
	unpaid.Status = domain.StatusUnpaid
	unpaid.PaymentMethod = domain.PaymentCash
	unpaid.ProductOrders = unpaid.ProductOrders[1:]
	afterUnpaid, err := repo.Update(ctx, unpaid)
	require.NoError(t, err)
	assert.Equal(t, int64(500), afterUnpaid.Customer.Balance)
	assert.True(t, decimal.NewFromInt(-150).Equal(afterUnpaid.Customer.Debt))
	assert.Len(t, afterUnpaid.ProductOrders, 1)

	deleted, err := repo.Delete(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added.ID, deleted.ID)

	got, err := customers.GetByID(ctx, amy.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.Balance)
	assert.True(t, decimal.Zero.Equal(got.Debt))

	_, err = repo.GetByID(ctx, added.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_UpdateMovesChargeBetweenCustomers(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Pool(ctx, t)
	customers := customerrepo.NewPostgres(pool, nil)
	repo := NewPostgres(pool, nil)

	amy, err := customers.Create(ctx, domain.Customer{Name: "Amy", Balance: 1000, Debt: decimal.Zero})
	require.NoError(t, err)
	ben, err := customers.Create(ctx, domain.Customer{Name: "Ben", Balance: 1000, Debt: decimal.Zero})
	require.NoError(t, err)

	added, err := repo.Add(ctx, domain.Queue{
		CustomerID:    &amy.ID,
		Status:        domain.StatusCompleted,
		PaymentMethod: domain.PaymentAccountBalance,
		Date:          time.Now(),
		ProductOrders: []domain.ProductOrder{line("Kopi", 300, "1")},
	})
	require.NoError(t, err)

	moved := *added
	moved.CustomerID = &ben.ID
	_, err = repo.Update(ctx, moved)
	require.NoError(t, err)

	gotAmy, err := customers.GetByID(ctx, amy.ID)
	require.NoError(t, err)
	gotBen, err := customers.GetByID(ctx, ben.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), gotAmy.Balance)
	assert.Equal(t, int64(700), gotBen.Balance)
}

func TestPostgres_ListInRange(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Pool(ctx, t)
	repo := NewPostgres(pool, nil)

	now := time.Now().UTC().Truncate(time.Second)
	for _, d := range []time.Time{now.AddDate(0, 0, -10), now.AddDate(0, 0, -1), now} {
		_, err := repo.Add(ctx, domain.Queue{
			Status:        domain.StatusInQueue,
			PaymentMethod: domain.PaymentCash,
			Date:          d,
			ProductOrders: []domain.ProductOrder{line("Air", 10, "2.5")},
		})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, decimal.NewFromInt(25).Equal(all[0].GrandTotalPrice()))
	assert.Nil(t, all[0].Customer)

	recent, err := repo.ListInRange(ctx, now.AddDate(0, 0, -2), now)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestPostgres_UnknownCustomer(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Pool(ctx, t)
	repo := NewPostgres(pool, nil)

	missing := "00000000-0000-0000-0000-000000000000"
	_, err := repo.Add(ctx, domain.Queue{
		CustomerID:    &missing,
		Status:        domain.StatusInQueue,
		PaymentMethod: domain.PaymentCash,
		Date:          time.Now(),
		ProductOrders: []domain.ProductOrder{line("Air", 10, "1")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_AddRefusesOverdraw(t *testing.T) {
	ctx := context.Background()
	pool := testutil.Pool(ctx, t)
	customers := customerrepo.NewPostgres(pool, nil)
	repo := NewPostgres(pool, nil)

	amy, err := customers.Create(ctx, domain.Customer{Name: "Amy", Balance: 50, Debt: decimal.Zero})
	require.NoError(t, err)

	_, err = repo.Add(ctx, domain.Queue{
		CustomerID:    &amy.ID,
		Status:        domain.StatusCompleted,
		PaymentMethod: domain.PaymentAccountBalance,
		Date:          time.Now(),
		ProductOrders: []domain.ProductOrder{line("Kopi", 100, "1")},
	})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	got, err := customers.GetByID(ctx, amy.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Balance)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
