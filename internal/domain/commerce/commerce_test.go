package commerce

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sellable(storeID uuid.UUID, price, stock int64) *StoreProduct {
	p := NewStoreProduct(storeID, uuid.New(), "Milk 1L")
	p.RetailPrice = decimal.NewFromInt(price)
	p.Stock = decimal.NewFromInt(stock)
	return p
}

func TestStoreProduct_Sellable(t *testing.T) {
	storeID := uuid.New()
	assert.True(t, sellable(storeID, 10, 1).Sellable())
	assert.False(t, sellable(storeID, 0, 1).Sellable())
	// out of stock is reported by the quantity check
	assert.True(t, sellable(storeID, 10, 0).Sellable())
	assert.False(t, sellable(storeID, 10, 0).HasStock(decimal.NewFromInt(1)))
	assert.True(t, sellable(storeID, 10, 2).HasStock(decimal.NewFromInt(2)))

	p := sellable(storeID, 10, 1)
	p.Status = shared.StatusSuspended
	assert.False(t, p.Sellable())
}

func TestStoreProduct_Adjust(t *testing.T) {
	p := sellable(uuid.New(), 10, 5)

	entry, err := p.Adjust(decimal.NewFromInt(-3), StockSold, "order")
	require.NoError(t, err)
	assert.True(t, entry.Balance.Equal(decimal.NewFromInt(2)))
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(2)))

	_, err = p.Adjust(decimal.NewFromInt(-3), StockSold, "order")
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock for Milk 1L.", err.Error())
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(2)))
}

func TestOffer_Discount(t *testing.T) {
	now := time.Now()
	sub := decimal.NewFromInt(200)

	tests := []struct {
		name  string
		by    OfferBy
		value int64
		min   int64
		want  int64
	}{
		{"percentage", OfferByPercentage, 10, 0, 20},
		{"fixed", OfferByFixedPrice, 15, 0, 15},
		{"by price", OfferByPrice, 150, 0, 50},
		{"fixed capped at subtotal", OfferByFixedPrice, 500, 0, 200},
		{"below minimum", OfferByPercentage, 10, 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOffer("OF100001")
			o.StartsAt = now.Add(-time.Hour)
			o.OfferBy = tt.by
			o.Value = decimal.NewFromInt(tt.value)
			o.MinOrderValue = decimal.NewFromInt(tt.min)
			assert.True(t, o.Discount(sub, now).Equal(decimal.NewFromInt(tt.want)))
		})
	}

	t.Run("outside window", func(t *testing.T) {
		o := NewOffer("OF100001")
		o.StartsAt = now.Add(time.Hour)
		o.Value = decimal.NewFromInt(10)
		assert.True(t, o.Discount(sub, now).IsZero())

		ended := now.Add(-time.Minute)
		o.StartsAt = now.Add(-time.Hour)
		o.EndsAt = &ended
		assert.True(t, o.Discount(sub, now).IsZero())
	})
}

func TestOrder_ItemsAndTotals(t *testing.T) {
	storeID := uuid.New()
	order := NewOrder("OR100000001", storeID, uuid.New())

	_, err := order.AddItem(sellable(storeID, 25, 10), decimal.NewFromInt(2))
	require.NoError(t, err)
	_, err = order.AddItem(sellable(storeID, 10, 10), decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, order.SubTotal.Equal(decimal.NewFromInt(60)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(60)))

	offer := NewOffer("OF100001")
	offer.StartsAt = time.Now().Add(-time.Hour)
	offer.Value = decimal.NewFromInt(50)
	order.ApplyOffer(offer, time.Now())
	assert.True(t, order.Discount.Equal(decimal.NewFromInt(30)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(30)))
	require.NotNil(t, order.OfferID)

	_, err = order.AddItem(sellable(uuid.New(), 10, 10), decimal.NewFromInt(1))
	assert.Error(t, err)
	_, err = order.AddItem(sellable(storeID, 10, 10), decimal.Zero)
	assert.Error(t, err)

	_, err = order.AddItem(sellable(storeID, 10, 0), decimal.NewFromInt(1))
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock for Milk 1L.", err.Error())
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	suspended := sellable(storeID, 10, 10)
	suspended.Status = shared.StatusSuspended
	_, err = order.AddItem(suspended, decimal.NewFromInt(1))
	require.Error(t, err)
	assert.Equal(t, "Milk 1L is not available.", err.Error())
}

func TestOrder_TransitionTo(t *testing.T) {
	order := NewOrder("OR100000001", uuid.New(), uuid.New())

	path := []OrderStatus{OrderCreated, OrderAccepted, OrderPacking, OrderPacked, OrderAssigned, OrderShipping, OrderCompleted}
	for _, next := range path {
		require.NoError(t, order.TransitionTo(next), next)
	}
	assert.True(t, order.Status.IsTerminal())

	err := order.TransitionTo(OrderCancelled)
	require.Error(t, err)
	assert.Equal(t, "Cannot change order from COMPLETED to CANCELLED.", err.Error())

	err = order.TransitionTo(OrderStatus("LOST"))
	require.Error(t, err)
	assert.Equal(t, "Value 'LOST' is not a valid choice.", err.Error())
}

func TestOrderStatus_ReleasesStock(t *testing.T) {
	assert.True(t, OrderCancelled.ReleasesStock())
	assert.True(t, OrderUnableToProcess.ReleasesStock())
	for _, s := range []OrderStatus{OrderPending, OrderCreated, OrderAccepted, OrderPacked, OrderShipping, OrderRescheduled, OrderCompleted} {
		assert.False(t, s.ReleasesStock(), s)
	}
}

func TestDelivery_TransitionTo(t *testing.T) {
	d := NewDelivery(uuid.New(), uuid.New())
	now := time.Now()

	assert.Error(t, d.TransitionTo(DeliveryCompleted, now))
	require.NoError(t, d.TransitionTo(DeliveryOnTheWay, now))
	require.NoError(t, d.TransitionTo(DeliveryCompleted, now))
	assert.NotNil(t, d.CompletedAt)
	assert.False(t, d.IsOpen())

	status, ok := DeliveryCompleted.OrderStatus()
	assert.True(t, ok)
	assert.Equal(t, OrderCompleted, status)
	_, ok = DeliveryCreated.OrderStatus()
	assert.False(t, ok)
}

func TestNewInvoice(t *testing.T) {
	store := NewStore("ST100000001")
	order := NewOrder("OR100000001", store.ID, uuid.New())
	issued := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	_, err := NewInvoice(order, store, issued)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	require.NoError(t, order.TransitionTo(OrderCreated))
	inv, err := NewInvoice(order, store, issued)
	require.NoError(t, err)
	assert.Equal(t, "invoices/ST100000001/OR100000001.pdf", inv.Key("pdf"))

	_, err = NewInvoice(order, NewStore("ST100000002"), issued)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
