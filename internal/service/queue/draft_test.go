package queue

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/domain"
)

func line(price int64) domain.ProductOrder {
	return domain.ProductOrder{ProductName: "Coffee", ProductPrice: price, Quantity: decimal.NewFromInt(1)}
}

func TestDraft_NewQueueDefaults(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	d := NewDraft(nil, nil, now)

	q := d.Queue()
	assert.Equal(t, domain.StatusInQueue, q.Status)
	assert.Equal(t, domain.PaymentCash, q.PaymentMethod)
	assert.Equal(t, now, q.Date)
	assert.Equal(t, []domain.PaymentMethod{domain.PaymentCash}, d.AllowedPaymentMethods())
	assert.Nil(t, d.TemporalCustomer())
	assert.ErrorIs(t, d.Validate(), domain.ErrInvalidInput)
}

func TestDraft_AccountBalanceFollowsStatus(t *testing.T) {
	amy := &domain.Customer{ID: "1", Name: "Amy", Balance: 500, Debt: decimal.Zero}
	d := NewDraft(nil, amy, time.Now())
	d.SetProductOrders([]domain.ProductOrder{line(100)})

	d.SetPaymentMethod(domain.PaymentAccountBalance)
	assert.Equal(t, domain.PaymentCash, d.Queue().PaymentMethod, "in queue only allows cash")

	d.SetStatus(domain.StatusCompleted)
	require.Contains(t, d.AllowedPaymentMethods(), domain.PaymentAccountBalance)
	d.SetPaymentMethod(domain.PaymentAccountBalance)
	assert.Equal(t, domain.PaymentAccountBalance, d.Queue().PaymentMethod)
	assert.Equal(t, int64(400), d.TemporalCustomer().Balance)

	d.SetStatus(domain.StatusUnpaid)
	assert.Equal(t, domain.PaymentCash, d.Queue().PaymentMethod)
	assert.Equal(t, int64(500), d.TemporalCustomer().Balance)
	assert.True(t, decimal.NewFromInt(-100).Equal(d.TemporalCustomer().Debt))
}

func TestDraft_OrdersBeyondBalanceResetToCash(t *testing.T) {
	amy := &domain.Customer{ID: "1", Balance: 500}
	d := NewDraft(nil, amy, time.Now())
	d.SetStatus(domain.StatusCompleted)
	d.SetProductOrders([]domain.ProductOrder{line(100)})
	d.SetPaymentMethod(domain.PaymentAccountBalance)

	d.SetProductOrders([]domain.ProductOrder{line(1000)})
	assert.Equal(t, []domain.PaymentMethod{domain.PaymentCash}, d.AllowedPaymentMethods())
	assert.Equal(t, domain.PaymentCash, d.Queue().PaymentMethod)
	assert.Equal(t, int64(500), d.TemporalCustomer().Balance)
}

func TestDraft_SetProductOrdersRecomputesTotals(t *testing.T) {
	d := NewDraft(nil, nil, time.Now())
	d.SetProductOrders([]domain.ProductOrder{{
		ProductName:  "Tea",
		ProductPrice: 1000,
		Quantity:     decimal.NewFromInt(3),
		Discount:     500,
		TotalPrice:   decimal.NewFromInt(1),
	}})

	q := d.Queue()
	assert.True(t, decimal.NewFromInt(2500).Equal(q.GrandTotalPrice()))
	assert.NoError(t, d.Validate())
}

func TestDraft_EditRevertsSavedCharge(t *testing.T) {
	id := "1"
	saved := domain.Queue{
		ID:            "q1",
		CustomerID:    &id,
		Status:        domain.StatusCompleted,
		PaymentMethod: domain.PaymentAccountBalance,
		ProductOrders: []domain.ProductOrder{line(100).WithCalculatedTotal()},
	}
	amy := &domain.Customer{ID: "1", Balance: 400}

	d := NewDraft(&saved, amy, time.Now())
	assert.Equal(t, domain.PaymentAccountBalance, d.Queue().PaymentMethod)
	assert.Equal(t, int64(400), d.TemporalCustomer().Balance)

	d.SetProductOrders([]domain.ProductOrder{line(250)})
	assert.Equal(t, int64(250), d.TemporalCustomer().Balance)

	d.SetProductOrders([]domain.ProductOrder{line(500)})
	assert.Equal(t, domain.PaymentAccountBalance, d.Queue().PaymentMethod)
	assert.Equal(t, int64(0), d.TemporalCustomer().Balance)

	d.SetProductOrders([]domain.ProductOrder{line(501)})
	assert.Equal(t, domain.PaymentCash, d.Queue().PaymentMethod)
	assert.Equal(t, int64(500), d.TemporalCustomer().Balance)

	assert.Len(t, d.Initial().ProductOrders, 1)
	assert.Equal(t, int64(100), d.Initial().ProductOrders[0].ProductPrice)
}

func TestDraft_SwitchCustomer(t *testing.T) {
	id := "1"
	saved := domain.Queue{
		ID:            "q1",
		CustomerID:    &id,
		Status:        domain.StatusCompleted,
		PaymentMethod: domain.PaymentAccountBalance,
		ProductOrders: []domain.ProductOrder{line(100).WithCalculatedTotal()},
	}
	ben := &domain.Customer{ID: "2", Balance: 50}

	d := NewDraft(&saved, ben, time.Now())
	assert.Equal(t, domain.PaymentCash, d.Queue().PaymentMethod)
	assert.Equal(t, int64(50), d.TemporalCustomer().Balance)
	require.NotNil(t, d.Queue().CustomerID)
	assert.Equal(t, "2", *d.Queue().CustomerID)

	d.SetCustomer(nil)
	assert.Nil(t, d.Queue().CustomerID)
	assert.Nil(t, d.TemporalCustomer())
}

func TestDraft_SetDateKeepsSelection(t *testing.T) {
	amy := &domain.Customer{ID: "1", Balance: 500}
	d := NewDraft(nil, amy, time.Now())
	d.SetStatus(domain.StatusCompleted)
	d.SetProductOrders([]domain.ProductOrder{line(100)})
	d.SetPaymentMethod(domain.PaymentAccountBalance)

	when := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	d.SetDate(when)
	assert.Equal(t, when, d.Queue().Date)
	assert.Equal(t, domain.PaymentAccountBalance, d.Queue().PaymentMethod)
}
