package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restaurant_backend/internal/auth"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repository"
	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCustomers struct {
	services.CustomerService
	registerErr error
}

func (s *stubCustomers) Register(context.Context, services.RegisterInput) (*models.Customer, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &models.Customer{ID: 1, Name: "Alice"}, nil
}

type stubOrders struct {
	services.OrderService
	advanced  []uint
	cancelErr error
	owner     *uint
	listErr   error
}

func (s *stubOrders) Advance(_ context.Context, id uint) (*services.TransitionResult, error) {
	s.advanced = append(s.advanced, id)
	return &services.TransitionResult{OrderID: id, From: models.OrderConfirmed, To: models.OrderPreparing, Changed: true}, nil
}

func (s *stubOrders) Cancel(_ context.Context, id uint, owner *uint) (*services.TransitionResult, error) {
	s.owner = owner
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return &services.TransitionResult{OrderID: id, From: models.OrderConfirmed, To: models.OrderCancelled, Changed: true}, nil
}

func (s *stubOrders) ListOrders(context.Context, repository.SaleListOptions) ([]models.Sale, error) {
	return nil, s.listErr
}

type stubPayments struct {
	services.PaymentService
	callbackErr error
	bodies      [][]byte
}

func (s *stubPayments) HandleCallback(_ context.Context, _ payment.Provider, body []byte) (*services.CallbackResult, error) {
	s.bodies = append(s.bodies, body)
	if s.callbackErr != nil {
		return nil, s.callbackErr
	}
	return &services.CallbackResult{OrderID: 1, Paid: true}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testServer struct {
	router    *gin.Engine
	tokens    *auth.TokenManager
	customers *stubCustomers
	orders    *stubOrders
	payments  *stubPayments
}

func newTestServer(t *testing.T, production bool) *testServer {
	t.Helper()
	ts := &testServer{
		tokens:    auth.NewTokenManager("test-secret", time.Hour),
		customers: &stubCustomers{},
		orders:    &stubOrders{},
		payments:  &stubPayments{},
	}
	ts.router = NewRouter(RouterConfig{
		Logger:       zap.NewNop(),
		Tokens:       ts.tokens,
		ExposeErrors: !production,
		Health:       NewHealthHandler(stubPinger{}, nil),
		Customers:    NewCustomerHandler(ts.customers, ts.orders),
		Orders:       NewOrderHandler(ts.orders, nil),
		Payments:     NewPaymentHandler(ts.payments),
		Staff:        NewStaffHandler(nil),
		Schedules:    NewScheduleHandler(nil),
		Recipes:      NewRecipeHandler(nil),
		Inventory:    NewInventoryHandler(nil),
		Sales:        NewSalesHandler(nil),
	})
	return ts
}

func (ts *testServer) token(t *testing.T, p auth.Principal) string {
	t.Helper()
	token, err := ts.tokens.Issue(p)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegisterValidationIsBadRequest(t *testing.T) {
	ts := newTestServer(t, false)
	ts.customers.registerErr = &services.Error{Kind: services.ErrValidation, Message: "Phone number must be exactly 10 digits"}

	w := ts.do(http.MethodPost, "/api/customers/register", `{"name":"Alice","phone":"123"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Phone number must be exactly 10 digits", body["message"])
}

func TestStaffRoutesRejectMissingAndWrongPrincipals(t *testing.T) {
	ts := newTestServer(t, false)

	w := ts.do(http.MethodPost, "/api/orders/update", `{"orderId":5}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	customer := ts.token(t, auth.CustomerPrincipal{CustomerID: 9})
	w = ts.do(http.MethodPost, "/api/orders/update", `{"orderId":5}`, customer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, ts.orders.advanced)

	chef := ts.token(t, auth.StaffPrincipal{StaffID: 2, Role: "Chef"})
	w = ts.do(http.MethodPost, "/api/orders/update", `{"orderId":5}`, chef)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{5}, ts.orders.advanced)
	assert.Equal(t, "Preparing", decode(t, w)["status"])
}

func TestAdvanceRequiresOrderID(t *testing.T) {
	ts := newTestServer(t, false)
	chef := ts.token(t, auth.StaffPrincipal{StaffID: 2, Role: "Chef"})

	w := ts.do(http.MethodPost, "/api/orders/update", `{}`, chef)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "orderId is required", decode(t, w)["message"])
}

func TestCancel(t *testing.T) {
	ts := newTestServer(t, false)
	customer := ts.token(t, auth.CustomerPrincipal{CustomerID: 9})

	w := ts.do(http.MethodPost, "/api/orders/cancel", `{"orderId":3}`, customer)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, ts.orders.owner)
	assert.Equal(t, uint(9), *ts.orders.owner)

	manager := ts.token(t, auth.StaffPrincipal{StaffID: 1, Role: "Manager"})
	w = ts.do(http.MethodPost, "/api/orders/cancel", `{"orderId":3}`, manager)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, ts.orders.owner)

	ts.orders.cancelErr = &services.Error{Kind: services.ErrConflict, Message: "Cannot cancel order in Preparing status"}
	w = ts.do(http.MethodPost, "/api/orders/cancel", `{"orderId":3}`, customer)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Cannot cancel order in Preparing status", decode(t, w)["message"])
}

func TestServerErrorDetailOnlyOutsideProduction(t *testing.T) {
	staffToken := func(ts *testServer) string {
		return ts.token(t, auth.StaffPrincipal{StaffID: 1, Role: "Cashier"})
	}

	dev := newTestServer(t, false)
	dev.orders.listErr = errors.New("list orders: connection refused")
	w := dev.do(http.MethodGet, "/api/orders", "", staffToken(dev))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "list orders: connection refused", decode(t, w)["error"])

	prod := newTestServer(t, true)
	prod.orders.listErr = errors.New("list orders: connection refused")
	w = prod.do(http.MethodGet, "/api/orders", "", staffToken(prod))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.NotContains(t, body, "error")
	assert.Equal(t, "Internal server error", body["message"])
}

func TestPaymentCallbacks(t *testing.T) {
	ts := newTestServer(t, false)

	w := ts.do(http.MethodPost, "/api/payments/momo/callback", `{"orderId":"1","resultCode":0}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", decode(t, w)["resultCode"])
	require.Len(t, ts.payments.bodies, 1)
	assert.JSONEq(t, `{"orderId":"1","resultCode":0}`, string(ts.payments.bodies[0]))

	ts.payments.callbackErr = &services.Error{Kind: services.ErrForbidden, Message: "Invalid signature"}
	w = ts.do(http.MethodPost, "/api/payments/momo/callback", `{"orderId":"1"}`, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, "1", body["resultCode"])
	assert.Equal(t, "Invalid signature", body["message"])

	w = ts.do(http.MethodPost, "/api/payments/vietcombank/callback", `{"orderId":"1"}`, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "error", decode(t, w)["status"])
}

func TestPreflightAndHealth(t *testing.T) {
	ts := newTestServer(t, false)

	w := ts.do(http.MethodOptions, "/api/orders/cancel", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = ts.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthReportsDatabaseOutage(t *testing.T) {
	h := NewHealthHandler(stubPinger{err: errors.New("down")}, stubPinger{})
	r := gin.New()
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"unavailable"`)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)
}
