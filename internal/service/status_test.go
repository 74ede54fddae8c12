package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vendaro/marketplace/internal/models"
)

var allStatuses = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusConfirmed,
	models.OrderStatusPacked,
	models.OrderStatusShipping,
	models.OrderStatusDelivered,
	models.OrderStatusCompleted,
	models.OrderStatusCancelled,
}

func TestCanTransition_Closure(t *testing.T) {
	t.Parallel()

	allowed := map[string]bool{
		"PENDING->CONFIRMED":   true,
		"PENDING->CANCELLED":   true,
		"CONFIRMED->PACKED":    true,
		"CONFIRMED->CANCELLED": true,
		"PACKED->SHIPPING":     true,
		"SHIPPING->DELIVERED":  true,
		"DELIVERED->COMPLETED": true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			key := fmt.Sprintf("%s->%s", from, to)
			assert.Equal(t, allowed[key], CanTransition(from, to), key)
		}
	}
}

func TestCanTransition_TerminalStates(t *testing.T) {
	t.Parallel()

	for _, terminal := range []models.OrderStatus{models.OrderStatusCompleted, models.OrderStatusCancelled} {
		for _, to := range allStatuses {
			assert.False(t, CanTransition(terminal, to), "%s is terminal", terminal)
		}
	}
}

func TestIsKnownStatus(t *testing.T) {
	t.Parallel()

	for _, s := range allStatuses {
		assert.True(t, IsKnownStatus(s))
	}
	assert.False(t, IsKnownStatus("REFUNDED"))
	assert.False(t, IsKnownStatus(""))
	assert.False(t, IsKnownStatus("pending"))
}
