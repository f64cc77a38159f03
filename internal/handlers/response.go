package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant_backend/internal/logging"
	"restaurant_backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const exposeErrorsKey = "expose_errors"

// exposeErrors controls whether server error details reach the client.
func exposeErrors(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(exposeErrorsKey, enabled)
		c.Next()
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the JSON error body for err. Classified service errors
// carry their own message; anything else is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)

	message := "Internal server error"
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	body := gin.H{"success": false, "message": message}
	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed",
			zap.String("route", c.FullPath()), zap.Error(err))
		if c.GetBool(exposeErrorsKey) {
			body["error"] = err.Error()
		}
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

func ok(c *gin.Context, body gin.H) {
	body["success"] = true
	c.JSON(http.StatusOK, body)
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// monthYear reads month and year query parameters. Missing values become 0
// and are rejected by the services.
func monthYear(c *gin.Context) (int, int, bool) {
	month, err := strconv.Atoi(c.DefaultQuery("month", "0"))
	if err != nil {
		badRequest(c, "Invalid month")
		return 0, 0, false
	}
	year, err := strconv.Atoi(c.DefaultQuery("year", "0"))
	if err != nil {
		badRequest(c, "Invalid year")
		return 0, 0, false
	}
	return month, year, true
}
