package handlers

import (
	"net/http"

	"restaurant_backend/internal/middleware"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customers services.CustomerService
	orders    services.OrderService
}

func NewCustomerHandler(customers services.CustomerService, orders services.OrderService) *CustomerHandler {
	return &CustomerHandler{customers: customers, orders: orders}
}

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	Ward         string `json:"ward"`
	District     string `json:"district"`
	Street       string `json:"street"`
	HouseNumber  string `json:"house_number"`
	BuildingName string `json:"building_name"`
	Block        string `json:"block"`
	Floor        string `json:"floor"`
	RoomNumber   string `json:"room_number"`
}

func (h *CustomerHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	customer, err := h.customers.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Address: models.Address{
			Ward:         req.Ward,
			District:     req.District,
			Street:       req.Street,
			HouseNumber:  req.HouseNumber,
			BuildingName: req.BuildingName,
			Block:        req.Block,
			Floor:        req.Floor,
			RoomNumber:   req.RoomNumber,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Registration successful",
		"customer": customer,
	})
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *CustomerHandler) SignIn(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	token, customer, err := h.customers.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Sign in successful", "token": token, "customer": customer})
}

func (h *CustomerHandler) Profile(c *gin.Context) {
	principal, _ := middleware.CustomerFrom(c)
	profile, err := h.customers.Profile(c.Request.Context(), principal.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"profile": profile})
}

type updateInformationRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func (h *CustomerHandler) UpdateInformation(c *gin.Context) {
	var req updateInformationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	principal, _ := middleware.CustomerFrom(c)
	customer, err := h.customers.UpdateInformation(c.Request.Context(), principal.CustomerID, services.UpdateInformationInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Information updated successfully", "customer": customer})
}

type updateAddressRequest struct {
	Ward         string `json:"ward"`
	District     string `json:"district"`
	Street       string `json:"street"`
	HouseNumber  string `json:"houseNumber"`
	BuildingName string `json:"buildingName"`
	Block        string `json:"block"`
	Floor        string `json:"floor"`
	RoomNumber   string `json:"roomNumber"`
}

func (h *CustomerHandler) UpdateAddress(c *gin.Context) {
	var req updateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	principal, _ := middleware.CustomerFrom(c)
	customer, err := h.customers.UpdateAddress(c.Request.Context(), principal.CustomerID, models.Address{
		Ward:         req.Ward,
		District:     req.District,
		Street:       req.Street,
		HouseNumber:  req.HouseNumber,
		BuildingName: req.BuildingName,
		Block:        req.Block,
		Floor:        req.Floor,
		RoomNumber:   req.RoomNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Address updated successfully", "customer": customer})
}

func (h *CustomerHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		badRequest(c, "Email is required")
		return
	}
	ok(c, gin.H{"message": h.customers.ForgotPassword(c.Request.Context(), req.Email)})
}

func (h *CustomerHandler) Orders(c *gin.Context) {
	principal, _ := middleware.CustomerFrom(c)
	orders, err := h.orders.ListCustomerOrders(c.Request.Context(), principal.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"orders": orders})
}

func (h *CustomerHandler) FavoriteMeals(c *gin.Context) {
	principal, _ := middleware.CustomerFrom(c)
	meals, err := h.orders.FavoriteMeals(c.Request.Context(), principal.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"favorite_meals": meals})
}
