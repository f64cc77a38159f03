package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_backend/internal/auth"
	"restaurant_backend/internal/events"
	"restaurant_backend/internal/logging"
	"restaurant_backend/internal/metrics"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderItemInput struct {
	RecipeID uint
	Quantity int
}

type OrderInput struct {
	Items            []OrderItemInput
	DeliveryAddress  string
	DeliveryDistance *float64
	DeliveryCharge   decimal.Decimal
	PaymentMethod    string
	// GuestContact is the phone number of a guest order.
	GuestContact string
	// LoyaltyPointsUsed is redeemed from the customer's balance.
	LoyaltyPointsUsed int
}

// TransitionResult describes the effect of a status operation. Changed is
// false for idempotent no-ops.
type TransitionResult struct {
	OrderID       uint               `json:"order_id"`
	From          models.OrderStatus `json:"from"`
	To            models.OrderStatus `json:"status"`
	Changed       bool               `json:"changed"`
	PointsAwarded int                `json:"points_awarded"`
}

// PaymentOutcome is a verified provider result for one order.
type PaymentOutcome struct {
	OrderID       uint
	Provider      string
	TransactionID string
	Paid          bool
}

type OrderService interface {
	CreateGuestOrder(ctx context.Context, in OrderInput) (*models.Sale, error)
	CreateCustomerOrder(ctx context.Context, customerID uint, in OrderInput) (*models.Sale, error)
	GetOrder(ctx context.Context, id uint) (*models.Sale, error)
	GetCustomerOrder(ctx context.Context, customerID, id uint) (*models.Sale, error)
	ListOrders(ctx context.Context, opts repository.SaleListOptions) ([]models.Sale, error)
	ListCustomerOrders(ctx context.Context, customerID uint) ([]models.Sale, error)
	ListGuestOrders(ctx context.Context, phone string) ([]models.Sale, error)
	FavoriteMeals(ctx context.Context, customerID uint) ([]models.FavoriteMeal, error)

	Advance(ctx context.Context, id uint) (*TransitionResult, error)
	// Cancel moves a Confirmed order to Cancel. A non-nil owner restricts the
	// operation to that customer's orders.
	Cancel(ctx context.Context, id uint, owner *uint) (*TransitionResult, error)
	Complete(ctx context.Context, customerID, id uint) (*TransitionResult, error)
	CompleteGuest(ctx context.Context, id uint) (*TransitionResult, error)
	AutoComplete(ctx context.Context, id uint) (bool, error)
	ApplyPaymentResult(ctx context.Context, outcome PaymentOutcome) (*TransitionResult, error)
	MarkPaymentPending(ctx context.Context, id uint, method string) error
}

type orderService struct {
	sales             repository.SaleRepository
	details           repository.OrderDetailRepository
	customers         repository.CustomerRepository
	recipes           repository.RecipeRepository
	publisher         events.Publisher
	autoCompleteDelay time.Duration
	now               func() time.Time
}

func NewOrderService(
	sales repository.SaleRepository,
	details repository.OrderDetailRepository,
	customers repository.CustomerRepository,
	recipes repository.RecipeRepository,
	publisher events.Publisher,
	autoCompleteDelay time.Duration,
) OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &orderService{
		sales:             sales,
		details:           details,
		customers:         customers,
		recipes:           recipes,
		publisher:         publisher,
		autoCompleteDelay: autoCompleteDelay,
		now:               time.Now,
	}
}

func (s *orderService) CreateGuestOrder(ctx context.Context, in OrderInput) (*models.Sale, error) {
	phone := strings.TrimSpace(in.GuestContact)
	if len(in.Items) == 0 || strings.TrimSpace(in.DeliveryAddress) == "" || in.DeliveryDistance == nil || phone == "" {
		return nil, invalid("Missing required fields: items, delivery_address, delivery_distance, guest_contact")
	}

	items, total, err := s.priceItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	customer, err := s.guestCustomer(ctx, phone)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sale := &models.Sale{
		CustomerID:       customer.ID,
		TotalAmount:      total,
		Status:           string(models.OrderPending),
		PaymentMethod:    normalizePaymentMethod(in.PaymentMethod),
		PaymentStatus:    string(models.PaymentUnpaid),
		DeliveryAddress:  in.DeliveryAddress,
		DeliveryDistance: *in.DeliveryDistance,
		DeliveryCharge:   in.DeliveryCharge,
		SaleTime:         now,
		Items:            items,
	}
	job := &models.ScheduledJob{
		Kind:     models.JobAutoComplete,
		RunAfter: now.Add(s.autoCompleteDelay),
	}

	if err := s.sales.CreateOrder(ctx, sale, job); err != nil {
		return nil, fromRepo(err, "create guest order", "Customer not found")
	}

	logging.FromContext(ctx).Info("guest order created",
		zap.Uint("order_id", sale.ID),
		zap.String("total", total.String()),
		zap.Time("auto_complete_at", job.RunAfter))
	return sale, nil
}

func (s *orderService) CreateCustomerOrder(ctx context.Context, customerID uint, in OrderInput) (*models.Sale, error) {
	if len(in.Items) == 0 || strings.TrimSpace(in.DeliveryAddress) == "" || in.DeliveryDistance == nil {
		return nil, invalid("Missing required fields: items, delivery_address, delivery_distance")
	}
	if in.LoyaltyPointsUsed < 0 {
		return nil, invalid("loyalty_points_used must not be negative")
	}

	items, total, err := s.priceItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	sale := &models.Sale{
		CustomerID:        customerID,
		TotalAmount:       total,
		Status:            string(models.OrderConfirmed),
		PaymentMethod:     normalizePaymentMethod(in.PaymentMethod),
		PaymentStatus:     string(models.PaymentUnpaid),
		DeliveryAddress:   in.DeliveryAddress,
		DeliveryDistance:  *in.DeliveryDistance,
		DeliveryCharge:    in.DeliveryCharge,
		LoyaltyPointsUsed: in.LoyaltyPointsUsed,
		SaleTime:          s.now(),
		Items:             items,
	}

	if err := s.sales.CreateOrder(ctx, sale, nil); err != nil {
		if errors.Is(err, repository.ErrInsufficientPoint) {
			return nil, invalid("Insufficient loyalty points")
		}
		return nil, fromRepo(err, "create customer order", "Customer not found")
	}

	logging.FromContext(ctx).Info("customer order created",
		zap.Uint("order_id", sale.ID),
		zap.Uint("customer_id", customerID),
		zap.Int("points_redeemed", in.LoyaltyPointsUsed))
	return sale, nil
}

// priceItems resolves recipe prices server-side and returns the line items
// with their total.
func (s *orderService) priceItems(ctx context.Context, in []OrderItemInput) ([]models.OrderDetail, decimal.Decimal, error) {
	ids := make([]uint, 0, len(in))
	for _, item := range in {
		if item.RecipeID == 0 || item.Quantity <= 0 {
			return nil, decimal.Zero, invalid("Each item needs a recipe id and a positive quantity")
		}
		ids = append(ids, item.RecipeID)
	}

	recipes, err := s.recipes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, fromRepo(err, "load recipes", "Recipe not found")
	}
	byID := make(map[uint]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	total := decimal.Zero
	items := make([]models.OrderDetail, 0, len(in))
	for _, item := range in {
		recipe, ok := byID[item.RecipeID]
		if !ok {
			return nil, decimal.Zero, invalid("Recipe %d not found", item.RecipeID)
		}
		if recipe.Status == models.RecipeUnavailable {
			return nil, decimal.Zero, invalid("Recipe %q is not available", recipe.Name)
		}
		total = total.Add(recipe.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, models.OrderDetail{RecipeID: item.RecipeID, Quantity: item.Quantity})
	}
	return items, total, nil
}

func (s *orderService) guestCustomer(ctx context.Context, phone string) (*models.Customer, error) {
	customer, err := s.customers.FindGuestByPhone(ctx, phone)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fromRepo(err, "find guest customer", "Customer not found")
	}

	// Guest rows can never sign in: the password is a hash of a random value.
	hashed, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("hash guest password: %w", err)
	}
	customer = &models.Customer{
		Name:     models.GuestPrefix + phone,
		Phone:    phone,
		Email:    fmt.Sprintf("guest_%s@temp.com", phone),
		Password: hashed,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Created concurrently by another guest order.
			existing, findErr := s.customers.FindGuestByPhone(ctx, phone)
			if findErr == nil {
				return existing, nil
			}
		}
		return nil, fromRepo(err, "create guest customer", "Customer not found")
	}
	return customer, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (*models.Sale, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "get order", "Order not found")
	}
	return sale, nil
}

func (s *orderService) GetCustomerOrder(ctx context.Context, customerID, id uint) (*models.Sale, error) {
	sale, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.CustomerID != customerID {
		return nil, notFound("Order not found")
	}
	return sale, nil
}

func (s *orderService) ListOrders(ctx context.Context, opts repository.SaleListOptions) ([]models.Sale, error) {
	if opts.SortBy != "" && opts.SortBy != "time" && opts.SortBy != "total_price" {
		return nil, invalid("sortBy must be 'time' or 'total_price'")
	}
	sales, err := s.sales.List(ctx, opts)
	return sales, fromRepo(err, "list orders", "")
}

func (s *orderService) ListCustomerOrders(ctx context.Context, customerID uint) ([]models.Sale, error) {
	sales, err := s.sales.ListByCustomer(ctx, customerID)
	return sales, fromRepo(err, "list customer orders", "")
}

func (s *orderService) ListGuestOrders(ctx context.Context, phone string) ([]models.Sale, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, invalid("Phone is required")
	}
	sales, err := s.sales.ListByGuestPhone(ctx, phone)
	return sales, fromRepo(err, "list guest orders", "")
}

func (s *orderService) FavoriteMeals(ctx context.Context, customerID uint) ([]models.FavoriteMeal, error) {
	meals, err := s.details.FavoriteMeals(ctx, customerID)
	return meals, fromRepo(err, "favorite meals", "")
}

func (s *orderService) Advance(ctx context.Context, id uint) (*TransitionResult, error) {
	sale, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	from := models.OrderStatus(sale.Status)
	if from == models.OrderCompleted {
		return &TransitionResult{OrderID: id, From: from, To: from}, nil
	}

	next, err := NextStatus(from)
	if err != nil {
		return nil, &Error{Kind: ErrValidation, Message: fmt.Sprintf("Order status %q cannot be advanced automatically", sale.Status), Err: err}
	}

	fields := map[string]interface{}{"status": string(next)}
	if from == models.OrderDelivering && next == models.OrderCompleted {
		fields["completion_time"] = s.now()
		fields["payment_status"] = string(models.PaymentPaid)
	}
	if err := s.sales.UpdateStatus(ctx, id, from, fields); err != nil {
		return nil, fromRepo(err, "advance order", "Order not found")
	}

	s.transitioned(ctx, sale, from, next, "staff")
	return &TransitionResult{OrderID: id, From: from, To: next, Changed: true}, nil
}

func (s *orderService) Cancel(ctx context.Context, id uint, owner *uint) (*TransitionResult, error) {
	sale, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner != nil && sale.CustomerID != *owner {
		return nil, notFound("Order not found")
	}

	from := models.OrderStatus(sale.Status)
	if from != models.OrderConfirmed {
		return nil, conflict("Order cannot be cancelled when status is %q", sale.Status)
	}

	if err := s.sales.UpdateStatus(ctx, id, from, map[string]interface{}{"status": string(models.OrderCancelled)}); err != nil {
		return nil, fromRepo(err, "cancel order", "Order not found")
	}

	s.transitioned(ctx, sale, from, models.OrderCancelled, "customer")
	return &TransitionResult{OrderID: id, From: from, To: models.OrderCancelled, Changed: true}, nil
}

// completable lists the statuses a receipt confirmation may close: an
// unconfirmed Pending order or one already out for delivery.
func completable(status models.OrderStatus) bool {
	return status == models.OrderPending || status == models.OrderDelivering
}

func (s *orderService) Complete(ctx context.Context, customerID, id uint) (*TransitionResult, error) {
	sale, err := s.GetCustomerOrder(ctx, customerID, id)
	if err != nil {
		return nil, err
	}

	from := models.OrderStatus(sale.Status)
	switch {
	case from == models.OrderCompleted && sale.PointsAwarded:
		return &TransitionResult{OrderID: id, From: from, To: from}, nil
	case from != models.OrderCompleted && !completable(from):
		return nil, conflict("Order cannot be completed when status is %q", sale.Status)
	}

	points := LoyaltyPoints(sale.TotalAmount)
	if err := s.sales.CompleteWithAward(ctx, id, from, sale.CustomerID, points, s.now()); err != nil {
		return nil, fromRepo(err, "complete order", "Order not found")
	}

	if from == models.OrderCompleted {
		return &TransitionResult{OrderID: id, From: from, To: from, PointsAwarded: points}, nil
	}
	s.transitioned(ctx, sale, from, models.OrderCompleted, "customer")
	return &TransitionResult{OrderID: id, From: from, To: models.OrderCompleted, Changed: true, PointsAwarded: points}, nil
}

func (s *orderService) CompleteGuest(ctx context.Context, id uint) (*TransitionResult, error) {
	sale, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.Customer == nil || !strings.HasPrefix(sale.Customer.Name, models.GuestPrefix) {
		return nil, notFound("Guest order not found")
	}

	from := models.OrderStatus(sale.Status)
	switch {
	case from == models.OrderCompleted:
		return &TransitionResult{OrderID: id, From: from, To: from}, nil
	case !completable(from):
		return nil, conflict("Order cannot be completed when status is %q", sale.Status)
	}

	fields := map[string]interface{}{
		"status":          string(models.OrderCompleted),
		"completion_time": s.now(),
	}
	if err := s.sales.UpdateStatus(ctx, id, from, fields); err != nil {
		return nil, fromRepo(err, "complete guest order", "Order not found")
	}

	s.transitioned(ctx, sale, from, models.OrderCompleted, "guest")
	return &TransitionResult{OrderID: id, From: from, To: models.OrderCompleted, Changed: true}, nil
}

// AutoComplete closes an order that is still Pending. It reports whether
// the order changed; an order moved on by any other path is left alone.
func (s *orderService) AutoComplete(ctx context.Context, id uint) (bool, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load order %d: %w", id, err)
	}
	if sale.Status != string(models.OrderPending) {
		return false, nil
	}

	fields := map[string]interface{}{
		"status":          string(models.OrderCompleted),
		"completion_time": s.now(),
	}
	err = s.sales.UpdateStatus(ctx, id, models.OrderPending, fields)
	if errors.Is(err, repository.ErrStaleState) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("auto-complete order %d: %w", id, err)
	}

	s.transitioned(ctx, sale, models.OrderPending, models.OrderCompleted, "auto_complete")
	return true, nil
}

// ApplyPaymentResult records a verified gateway outcome. A successful
// payment forces the order to Completed from any status.
func (s *orderService) ApplyPaymentResult(ctx context.Context, outcome PaymentOutcome) (*TransitionResult, error) {
	sale, err := s.GetOrder(ctx, outcome.OrderID)
	if err != nil {
		return nil, err
	}

	from := models.OrderStatus(sale.Status)
	to := from
	fields := map[string]interface{}{
		"payment_status":         string(models.PaymentFailed),
		"payment_transaction_id": outcome.TransactionID,
	}
	if outcome.Paid {
		fields["payment_status"] = string(models.PaymentPaid)
		if from != models.OrderCompleted {
			to = models.OrderCompleted
			fields["status"] = string(models.OrderCompleted)
			fields["completion_time"] = s.now()
		}
		if from == models.OrderCancelled {
			logging.FromContext(ctx).Warn("payment completed a cancelled order",
				zap.Uint("order_id", sale.ID),
				zap.String("provider", outcome.Provider))
		}
	}

	if err := s.sales.Update(ctx, sale.ID, fields); err != nil {
		return nil, fromRepo(err, "apply payment result", "Order not found")
	}

	result := &TransitionResult{OrderID: sale.ID, From: from, To: to}
	if to != from {
		result.Changed = true
		s.transitioned(ctx, sale, from, to, "payment_"+outcome.Provider)
	}
	return result, nil
}

func (s *orderService) MarkPaymentPending(ctx context.Context, id uint, method string) error {
	err := s.sales.Update(ctx, id, map[string]interface{}{
		"payment_method": method,
		"payment_status": string(models.PaymentPending),
	})
	return fromRepo(err, "mark payment pending", "Order not found")
}

func (s *orderService) transitioned(ctx context.Context, sale *models.Sale, from, to models.OrderStatus, source string) {
	metrics.OrderTransitions.WithLabelValues(string(from), string(to), source).Inc()

	log := logging.FromContext(ctx).With(
		zap.Uint("order_id", sale.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("source", source))
	log.Info("order status changed")

	event := events.OrderStatusChanged{
		OrderID:    sale.ID,
		CustomerID: sale.CustomerID,
		From:       string(from),
		To:         string(to),
		Source:     source,
		ChangedAt:  s.now(),
	}
	if err := s.publisher.PublishOrderStatus(ctx, event); err != nil {
		log.Warn("failed to publish order status event", zap.Error(err))
	}
}
