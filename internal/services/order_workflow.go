package services

import (
	"errors"

	"restaurant_backend/internal/models"

	"github.com/shopspring/decimal"
)

// Progression is the staff-driven fulfilment order of statuses.
var Progression = []models.OrderStatus{
	models.OrderConfirmed,
	models.OrderPreparing,
	models.OrderReady,
	models.OrderDelivering,
	models.OrderCompleted,
}

var ErrUnadvanceable = errors.New("order status cannot be advanced automatically")

// NextStatus returns the status one step after current. Completed maps to
// itself; statuses outside Progression yield ErrUnadvanceable.
func NextStatus(current models.OrderStatus) (models.OrderStatus, error) {
	if current == models.OrderCompleted {
		return models.OrderCompleted, nil
	}
	for i, s := range Progression {
		if s != current {
			continue
		}
		if i+1 < len(Progression) {
			return Progression[i+1], nil
		}
		return models.OrderCompleted, nil
	}
	return "", ErrUnadvanceable
}

var pointUnit = decimal.NewFromInt(1000)

// LoyaltyPoints is the floor of total/1000. Negative totals earn nothing.
func LoyaltyPoints(total decimal.Decimal) int {
	if total.IsNegative() {
		return 0
	}
	return int(total.Div(pointUnit).Floor().IntPart())
}

func normalizePaymentMethod(method string) string {
	switch method {
	case "":
		return models.PaymentMethodCash
	case "momo wallet":
		return models.PaymentMethodMoMo
	}
	return method
}
