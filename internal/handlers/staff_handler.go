package handlers

import (
	"net/http"

	"restaurant_backend/internal/middleware"
	"restaurant_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type StaffHandler struct {
	staff services.StaffService
}

func NewStaffHandler(staff services.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

func (h *StaffHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	token, principal, err := h.staff.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{
		"message": "Login successful",
		"token":   token,
		"staff": gin.H{
			"staff_id":    principal.StaffID,
			"staff_name":  principal.Name,
			"staff_email": principal.Email,
			"role":        principal.Role,
		},
	})
}

func (h *StaffHandler) Me(c *gin.Context) {
	principal, _ := middleware.StaffFrom(c)
	staff, err := h.staff.Me(c.Request.Context(), principal.StaffID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"staff": staff})
}

func (h *StaffHandler) List(c *gin.Context) {
	staff, err := h.staff.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"staff": staff})
}

type staffRequest struct {
	Name     *string          `json:"staff_name"`
	Email    *string          `json:"staff_email"`
	Password *string          `json:"password"`
	Role     *string          `json:"role"`
	Phone    *string          `json:"phone"`
	PayRates *decimal.Decimal `json:"pay_rates"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	staff, err := h.staff.Create(c.Request.Context(), services.StaffInput{
		Name:     deref(req.Name),
		Email:    deref(req.Email),
		Password: deref(req.Password),
		Role:     deref(req.Role),
		Phone:    deref(req.Phone),
		PayRates: req.PayRates,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Staff created", "staff": staff})
}

func (h *StaffHandler) Update(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	staff, err := h.staff.Update(c.Request.Context(), id, services.StaffUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		PayRates: req.PayRates,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Staff updated", "staff": staff})
}

func (h *StaffHandler) Delete(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	if err := h.staff.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Staff deleted"})
}

// Salary reports the caller's own pay for a month.
func (h *StaffHandler) Salary(c *gin.Context) {
	month, year, valid := monthYear(c)
	if !valid {
		return
	}

	principal, _ := middleware.StaffFrom(c)
	salary, err := h.staff.Salary(c.Request.Context(), principal.StaffID, month, year)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"hours": salary.Hours, "salary": salary.Salary})
}

func (h *StaffHandler) Salaries(c *gin.Context) {
	month, year, valid := monthYear(c)
	if !valid {
		return
	}

	salaries, err := h.staff.Salaries(c.Request.Context(), month, year)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"month": month, "year": year, "salaries": salaries})
}
