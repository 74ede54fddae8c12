package service

import "github.com/vendaro/marketplace/internal/models"

// transitions is the closed set of legal status moves. PENDING is the only
// entry state; COMPLETED and CANCELLED are terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusPacked, models.OrderStatusCancelled},
	models.OrderStatusPacked:    {models.OrderStatusShipping},
	models.OrderStatusShipping:  {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {models.OrderStatusCompleted},
	models.OrderStatusCompleted: {},
	models.OrderStatusCancelled: {},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func IsKnownStatus(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}
