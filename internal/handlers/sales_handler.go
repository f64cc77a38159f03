package handlers

import (
	"strconv"

	"restaurant_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct {
	sales services.SalesService
}

func NewSalesHandler(sales services.SalesService) *SalesHandler {
	return &SalesHandler{sales: sales}
}

// DailyCounts serves both ?year=&month= and /daily/:year/:month.
func (h *SalesHandler) DailyCounts(c *gin.Context) {
	yearStr, monthStr := c.Param("year"), c.Param("month")
	if yearStr == "" {
		yearStr, monthStr = c.Query("year"), c.Query("month")
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		badRequest(c, "Year and month are required")
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		badRequest(c, "Year and month are required")
		return
	}

	counts, err := h.sales.DailyCounts(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"year": year, "month": month, "data": counts})
}
