package handlers

import (
	"errors"
	"io"
	"net/http"

	"restaurant_backend/internal/logging"
	"restaurant_backend/internal/middleware"
	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Callback bodies are small JSON documents.
const maxCallbackBody = 64 << 10

type PaymentHandler struct {
	payments services.PaymentService
}

func NewPaymentHandler(payments services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type createPaymentRequest struct {
	OrderID       uint   `json:"orderId"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	principal, _ := middleware.PrincipalFrom(c)
	url, err := h.payments.Create(c.Request.Context(), principal, req.OrderID, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"paymentUrl": url})
}

// MoMoCallback receives MoMo IPN notifications. MoMo expects
// {resultCode, message}.
func (h *PaymentHandler) MoMoCallback(c *gin.Context) {
	if _, err := h.handleCallback(c, payment.ProviderMoMo); err != nil {
		c.JSON(statusFor(err), gin.H{"resultCode": "1", "message": callbackMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resultCode": "0", "message": "Success"})
}

// VietcombankCallback receives Vietcombank webhooks, answered with
// {status, message}.
func (h *PaymentHandler) VietcombankCallback(c *gin.Context) {
	if _, err := h.handleCallback(c, payment.ProviderVietcombank); err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "message": callbackMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Payment processed successfully"})
}

// The raw body is kept intact because the signature covers it.
func (h *PaymentHandler) handleCallback(c *gin.Context, provider payment.Provider) (*services.CallbackResult, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackBody))
	if err != nil {
		return nil, &services.Error{Kind: services.ErrValidation, Message: "Unreadable callback body", Err: err}
	}
	result, err := h.payments.HandleCallback(c.Request.Context(), provider, body)
	if err != nil && statusFor(err) == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("payment callback failed",
			zap.String("provider", string(provider)), zap.Error(err))
	}
	return result, err
}

func callbackMessage(err error) string {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "Internal server error"
}
