package event

import (
	"testing"

	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register(t *testing.T) {
	registry := NewHandlerRegistry()
	orders := newTestHandler(commerce.EventTypeOrderPlaced, commerce.EventTypeOrderStatusChanged)
	registry.Register(orders, orders.EventTypes()...)

	assert.Equal(t, []shared.EventHandler{orders}, registry.GetHandlers(commerce.EventTypeOrderPlaced))
	assert.Equal(t, []shared.EventHandler{orders}, registry.GetHandlers(commerce.EventTypeOrderStatusChanged))
	assert.Empty(t, registry.GetHandlers(commerce.EventTypeStockAdjusted))
}

func TestHandlerRegistry_WildcardComesLast(t *testing.T) {
	registry := NewHandlerRegistry()
	audit := newTestHandler()
	saved := newTestHandler(shared.EventTypeRecordSaved)
	registry.Register(audit)
	registry.Register(saved, shared.EventTypeRecordSaved)

	assert.Equal(t, []shared.EventHandler{saved, audit}, registry.GetHandlers(shared.EventTypeRecordSaved))
	assert.Equal(t, []shared.EventHandler{audit}, registry.GetHandlers(shared.EventTypeRecordDeleted))
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	audit := newTestHandler()
	stock := newTestHandler(commerce.EventTypeStockAdjusted)
	other := newTestHandler(commerce.EventTypeStockAdjusted)
	registry.Register(audit)
	registry.Register(stock, commerce.EventTypeStockAdjusted)
	registry.Register(other, commerce.EventTypeStockAdjusted)

	registry.Unregister(stock)
	assert.Equal(t, []shared.EventHandler{other, audit}, registry.GetHandlers(commerce.EventTypeStockAdjusted))

	registry.Unregister(audit)
	registry.Unregister(other)
	assert.Empty(t, registry.GetHandlers(commerce.EventTypeStockAdjusted))
	assert.Zero(t, registry.Len())
}

func TestHandlerRegistry_LenCountsDistinctHandlers(t *testing.T) {
	registry := NewHandlerRegistry()
	h := newTestHandler(shared.EventTypeRecordSaved, shared.EventTypeRecordDeleted)
	registry.Register(h, h.EventTypes()...)
	registry.Register(newTestHandler())

	assert.Equal(t, 2, registry.Len())
}
