package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"restaurant_backend/internal/auth"
	"restaurant_backend/internal/logging"
	"restaurant_backend/internal/metrics"
	"restaurant_backend/internal/models"
	"restaurant_backend/pkg/payment"

	"go.uber.org/zap"
)

const callbackClaimTTL = 24 * time.Hour

// PaymentGateway creates provider payments and authenticates callbacks.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, provider payment.Provider, req payment.CreateRequest) (*payment.CreateResult, error)
	VerifyCallback(provider payment.Provider, body []byte) (*payment.Result, error)
}

// CallbackGuard remembers applied provider transaction ids.
type CallbackGuard interface {
	ClaimCallback(ctx context.Context, provider, transactionID string, ttl time.Duration) (bool, error)
	ReleaseCallback(ctx context.Context, provider, transactionID string) error
}

type CallbackResult struct {
	OrderID   uint
	Paid      bool
	Duplicate bool
	Message   string
}

type PaymentService interface {
	Create(ctx context.Context, principal auth.Principal, orderID uint, method string) (string, error)
	HandleCallback(ctx context.Context, provider payment.Provider, body []byte) (*CallbackResult, error)
}

type paymentService struct {
	gateway PaymentGateway
	orders  OrderService
	guard   CallbackGuard
}

// NewPaymentService accepts a nil guard, in which case repeated callbacks
// are re-applied. Applying the same result twice leaves the order unchanged.
func NewPaymentService(gateway PaymentGateway, orders OrderService, guard CallbackGuard) PaymentService {
	return &paymentService{gateway: gateway, orders: orders, guard: guard}
}

func (s *paymentService) Create(ctx context.Context, principal auth.Principal, orderID uint, method string) (string, error) {
	if orderID == 0 || method == "" {
		return "", invalid("Missing required fields")
	}
	provider, err := payment.ParseProvider(method)
	if err != nil {
		return "", &Error{Kind: ErrValidation, Message: "Invalid payment method", Err: err}
	}

	var sale *models.Sale
	switch p := principal.(type) {
	case auth.CustomerPrincipal:
		sale, err = s.orders.GetCustomerOrder(ctx, p.CustomerID, orderID)
	case auth.StaffPrincipal:
		sale, err = s.orders.GetOrder(ctx, orderID)
	default:
		return "", forbidden("Access denied")
	}
	if err != nil {
		return "", err
	}
	if sale.PaymentStatus == string(models.PaymentPaid) {
		return "", conflict("Order is already paid")
	}
	if sale.Status == string(models.OrderCancelled) {
		return "", conflict("Order cannot be paid when status is %q", sale.Status)
	}

	result, err := s.gateway.CreatePayment(ctx, provider, payment.CreateRequest{
		OrderID: sale.ID,
		Amount:  sale.TotalAmount.Round(0).IntPart(),
		Info:    fmt.Sprintf("Payment for order #%d", sale.ID),
	})
	if err != nil {
		return "", fmt.Errorf("create %s payment for order %d: %w", provider, sale.ID, err)
	}

	if err := s.orders.MarkPaymentPending(ctx, sale.ID, string(provider)); err != nil {
		return "", err
	}

	logging.FromContext(ctx).Info("payment created",
		zap.Uint("order_id", sale.ID),
		zap.String("provider", string(provider)))
	return result.RedirectURL, nil
}

func (s *paymentService) HandleCallback(ctx context.Context, provider payment.Provider, body []byte) (*CallbackResult, error) {
	log := logging.FromContext(ctx).With(zap.String("provider", string(provider)))

	result, err := s.gateway.VerifyCallback(provider, body)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			metrics.PaymentCallbacks.WithLabelValues(string(provider), "invalid_signature").Inc()
			log.Warn("rejected payment callback with invalid signature")
			return nil, &Error{Kind: ErrForbidden, Message: "Invalid signature", Err: err}
		}
		metrics.PaymentCallbacks.WithLabelValues(string(provider), "malformed").Inc()
		return nil, &Error{Kind: ErrValidation, Message: "Malformed callback payload", Err: err}
	}

	id, err := strconv.ParseUint(result.OrderID, 10, 64)
	if err != nil || id == 0 {
		metrics.PaymentCallbacks.WithLabelValues(string(provider), "malformed").Inc()
		return nil, invalid("Invalid order id %q", result.OrderID)
	}
	orderID := uint(id)
	log = log.With(zap.Uint("order_id", orderID), zap.String("transaction_id", result.TransactionID))

	claimed := false
	if s.guard != nil && result.TransactionID != "" {
		ok, err := s.guard.ClaimCallback(ctx, string(provider), result.TransactionID, callbackClaimTTL)
		switch {
		case err != nil:
			log.Warn("callback replay guard unavailable", zap.Error(err))
		case !ok:
			metrics.PaymentCallbacks.WithLabelValues(string(provider), "duplicate").Inc()
			log.Info("duplicate payment callback acknowledged")
			return &CallbackResult{OrderID: orderID, Paid: result.Success, Duplicate: true, Message: result.Message}, nil
		default:
			claimed = true
		}
	}

	_, err = s.orders.ApplyPaymentResult(ctx, PaymentOutcome{
		OrderID:       orderID,
		Provider:      string(provider),
		TransactionID: result.TransactionID,
		Paid:          result.Success,
	})
	if err != nil {
		if claimed {
			if releaseErr := s.guard.ReleaseCallback(ctx, string(provider), result.TransactionID); releaseErr != nil {
				log.Warn("failed to release callback claim", zap.Error(releaseErr))
			}
		}
		metrics.PaymentCallbacks.WithLabelValues(string(provider), "error").Inc()
		return nil, err
	}

	outcome := "failed"
	if result.Success {
		outcome = "paid"
	}
	metrics.PaymentCallbacks.WithLabelValues(string(provider), outcome).Inc()
	log.Info("payment callback applied", zap.Bool("paid", result.Success))
	return &CallbackResult{OrderID: orderID, Paid: result.Success, Message: result.Message}, nil
}
