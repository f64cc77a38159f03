package handlers

import (
	"strings"

	"restaurant_backend/internal/middleware"
	"restaurant_backend/internal/repository"
	"restaurant_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	orders services.OrderService
	sales  services.SalesService
}

func NewOrderHandler(orders services.OrderService, sales services.SalesService) *OrderHandler {
	return &OrderHandler{orders: orders, sales: sales}
}

type orderItemRequest struct {
	ID       uint `json:"id"`
	RecipeID uint `json:"recipe_id"`
	Quantity int  `json:"quantity"`
}

type orderRequest struct {
	Items             []orderItemRequest `json:"items"`
	DeliveryAddress   string             `json:"delivery_address"`
	DeliveryDistance  *float64           `json:"delivery_distance"`
	DeliveryCharge    decimal.Decimal    `json:"delivery_charge"`
	PaymentMethod     string             `json:"payment_method"`
	GuestContact      string             `json:"guest_contact"`
	LoyaltyPointsUsed int                `json:"loyalty_points_used"`
}

func (r orderRequest) input() services.OrderInput {
	items := make([]services.OrderItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		recipeID := it.RecipeID
		if recipeID == 0 {
			recipeID = it.ID
		}
		items = append(items, services.OrderItemInput{RecipeID: recipeID, Quantity: it.Quantity})
	}
	return services.OrderInput{
		Items:             items,
		DeliveryAddress:   r.DeliveryAddress,
		DeliveryDistance:  r.DeliveryDistance,
		DeliveryCharge:    r.DeliveryCharge,
		PaymentMethod:     r.PaymentMethod,
		GuestContact:      r.GuestContact,
		LoyaltyPointsUsed: r.LoyaltyPointsUsed,
	}
}

// CreateGuest places an order without an account.
func (h *OrderHandler) CreateGuest(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	sale, err := h.orders.CreateGuestOrder(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Order created successfully", "order": sale})
}

func (h *OrderHandler) CreateForCustomer(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	principal, _ := middleware.CustomerFrom(c)
	sale, err := h.orders.CreateCustomerOrder(c.Request.Context(), principal.CustomerID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Order created successfully", "order": sale})
}

func (h *OrderHandler) List(c *gin.Context) {
	opts := repository.SaleListOptions{
		SortBy:     c.DefaultQuery("sortBy", "time"),
		Descending: !strings.EqualFold(c.Query("sortOrder"), "asc"),
	}
	orders, err := h.orders.ListOrders(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"orders": orders})
}

// Get returns any order to staff and only their own orders to customers.
func (h *OrderHandler) Get(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}

	if customer, isCustomer := middleware.CustomerFrom(c); isCustomer {
		sale, err := h.orders.GetCustomerOrder(c.Request.Context(), customer.CustomerID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, gin.H{"order": sale})
		return
	}

	sale, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"order": sale})
}

type orderIDRequest struct {
	OrderID uint `json:"orderId"`
}

func bindOrderID(c *gin.Context) (uint, bool) {
	var req orderIDRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == 0 {
		badRequest(c, "orderId is required")
		return 0, false
	}
	return req.OrderID, true
}

// Advance moves an order one step along the fulfilment progression.
func (h *OrderHandler) Advance(c *gin.Context) {
	id, valid := bindOrderID(c)
	if !valid {
		return
	}

	result, err := h.orders.Advance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Order status updated"
	if !result.Changed {
		message = "Order is already completed"
	}
	ok(c, gin.H{"message": message, "status": result.To, "previous_status": result.From})
}

// Cancel is available to customers for their own orders and to staff for
// any order.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, valid := bindOrderID(c)
	if !valid {
		return
	}

	var owner *uint
	if customer, isCustomer := middleware.CustomerFrom(c); isCustomer {
		owner = &customer.CustomerID
	}

	result, err := h.orders.Cancel(c.Request.Context(), id, owner)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Order cancelled", "status": result.To})
}

func (h *OrderHandler) Complete(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}

	principal, _ := middleware.CustomerFrom(c)
	result, err := h.orders.Complete(c.Request.Context(), principal.CustomerID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Order marked as completed"
	if !result.Changed {
		message = "Order is already completed"
	}
	ok(c, gin.H{"message": message, "points_awarded": result.PointsAwarded, "status": result.To})
}

func (h *OrderHandler) CompleteGuest(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}

	result, err := h.orders.CompleteGuest(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Order marked as completed", "status": result.To})
}

func (h *OrderHandler) GuestOrders(c *gin.Context) {
	orders, err := h.orders.ListGuestOrders(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"orders": orders})
}

func (h *OrderHandler) Revenue(c *gin.Context) {
	revenue, err := h.sales.Revenue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"revenue": revenue})
}
