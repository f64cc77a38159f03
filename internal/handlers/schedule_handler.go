package handlers

import (
	"net/http"
	"strconv"

	"restaurant_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	schedules services.ScheduleService
}

func NewScheduleHandler(schedules services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// Week returns seven days of shifts starting at startDate.
func (h *ScheduleHandler) Week(c *gin.Context) {
	days, err := h.schedules.Week(c.Request.Context(), c.Query("startDate"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": days})
}

func (h *ScheduleHandler) Month(c *gin.Context) {
	var req struct {
		Month int `json:"month"`
		Year  int `json:"year"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "month and year are required in request body")
		return
	}

	days, err := h.schedules.Month(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": days})
}

type scheduleRequest struct {
	ShiftDate string `json:"shift_date"`
	Shift     string `json:"shift"`
	StaffID   *uint  `json:"staff_id"`
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	entry, err := h.schedules.Create(c.Request.Context(), services.ScheduleInput{
		ShiftDate: req.ShiftDate,
		Shift:     req.Shift,
		StaffID:   req.StaffID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Shift created successfully"
	if req.StaffID != nil {
		message = "Staff assigned to shift successfully"
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": entry})
}

// DeleteBlock removes every entry of one shift on one day.
func (h *ScheduleHandler) DeleteBlock(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	deleted, err := h.schedules.DeleteBlock(c.Request.Context(), req.ShiftDate, req.Shift)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Shift deleted successfully", "deleted": deleted})
}

func (h *ScheduleHandler) DeleteEntry(c *gin.Context) {
	id, valid := idParam(c, "scheduleId")
	if !valid {
		return
	}
	if err := h.schedules.DeleteEntry(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Staff removed from shift successfully"})
}

func (h *ScheduleHandler) ForEmployee(c *gin.Context) {
	staffID, err := strconv.ParseUint(c.Query("employeeId"), 10, 64)
	if err != nil || staffID == 0 {
		badRequest(c, "employeeId is required")
		return
	}
	month, year, valid := monthYear(c)
	if !valid {
		return
	}

	entries, err := h.schedules.ForEmployee(c.Request.Context(), uint(staffID), month, year)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": entries})
}
