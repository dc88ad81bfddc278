package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusPaid},
		{OrderStatusPending, OrderStatusCanceled},
		{OrderStatusPaid, OrderStatusShipped},
		{OrderStatusPaid, OrderStatusCanceled},
		{OrderStatusShipped, OrderStatusDelivered},
		{OrderStatusDelivered, OrderStatusReturnRequested},
		{OrderStatusReturnRequested, OrderStatusReturnCompleted},
		{OrderStatusReturnRequested, OrderStatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusCanceled},
		{OrderStatusDelivered, OrderStatusCanceled},
		{OrderStatusCanceled, OrderStatusPending},
		{OrderStatusReturnCompleted, OrderStatusDelivered},
		{OrderStatusPaid, OrderStatusPaid},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	assert.True(t, OrderStatusCanceled.Terminal())
	assert.True(t, OrderStatusReturnCompleted.Terminal())
	assert.False(t, OrderStatusDelivered.Terminal())
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus(" shipped ")
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, s)

	_, err = ParseOrderStatus("LOST")
	assert.Error(t, err)
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{Price: 10000, Quantity: 3}
	assert.Equal(t, int64(30000), item.Subtotal())
}
