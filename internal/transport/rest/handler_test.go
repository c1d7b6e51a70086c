package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abgdnv/bookstore/internal/catalog"
	catalogerrors "github.com/abgdnv/bookstore/internal/catalog/errors"
	ordererrors "github.com/abgdnv/bookstore/internal/order/errors"
	"github.com/abgdnv/bookstore/internal/order/service"
	"github.com/abgdnv/bookstore/internal/pricing"
	"github.com/abgdnv/bookstore/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOrderService is a mock implementation of the OrderService interface
type mockOrderService struct {
	placed        *service.OrderPlacedDto
	order         *service.OrderDto
	topBooks      []catalog.BookSales
	topCategories []catalog.CategorySales
	stock         []catalog.StockLevel
	error         error

	placedDto     *service.PlaceOrderDto
	requestedBy   string
	receivedLimit int32
}

func (m *mockOrderService) PlaceOrder(_ context.Context, dto service.PlaceOrderDto) (*service.OrderPlacedDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	m.placedDto = &dto
	return m.placed, nil
}

func (m *mockOrderService) Confirm(_ context.Context, _ int64) error {
	return m.error
}

func (m *mockOrderService) Cancel(_ context.Context, _ int64, requestedBy string) error {
	m.requestedBy = requestedBy
	return m.error
}

func (m *mockOrderService) Ship(_ context.Context, _ int64) error {
	return m.error
}

func (m *mockOrderService) Find(_ context.Context, _ int64) (*service.OrderDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.order, nil
}

func (m *mockOrderService) Status(_ context.Context, _ int64) (pricing.Status, error) {
	if m.error != nil {
		return pricing.StatusUnknown, m.error
	}
	return pricing.ParseStatus(m.order.Status), nil
}

func (m *mockOrderService) Owner(_ context.Context, _ int64) (string, error) {
	if m.error != nil {
		return "", m.error
	}
	return m.order.CustomerID, nil
}

func (m *mockOrderService) Items(_ context.Context, _ int64) ([]service.OrderItemDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.order.Items, nil
}

func (m *mockOrderService) TopSellingBooks(_ context.Context, limit int32) ([]catalog.BookSales, error) {
	m.receivedLimit = limit
	if m.error != nil {
		return nil, m.error
	}
	return m.topBooks, nil
}

func (m *mockOrderService) TopCategories(_ context.Context, limit int32) ([]catalog.CategorySales, error) {
	m.receivedLimit = limit
	if m.error != nil {
		return nil, m.error
	}
	return m.topCategories, nil
}

func (m *mockOrderService) StockLevels(_ context.Context) ([]catalog.StockLevel, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.stock, nil
}

// ErrorResponse represents a generic error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse represents a response for validation errors
type ValidationErrorResponse struct {
	ValidationErrors map[string]string `json:"validation_errors"`
}

// toJSON converts a value to its JSON representation
func toJSON(t *testing.T, v any) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	require.NoError(t, err)
	return string(bytes)
}

func newTestHandler(mockService *mockOrderService) *Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewHandler(mockService, logger)
}

func authenticated(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), web.UserIDKey, userID)
	return req.WithContext(ctx)
}

func Test_Handler_PlaceOrder(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockOrderService
		body         string
		userID       string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - order placed",
			mockService: mockOrderService{
				placed: &service.OrderPlacedDto{OrderID: 42, Description: "Standard Order", Total: 50},
			},
			body:         `{"items":[{"isbn":"isbn-a","quantity":2}]}`,
			userID:       "alice",
			expectedCode: http.StatusCreated,
			expectedBody: toJSON(t, service.OrderPlacedDto{OrderID: 42, Description: "Standard Order", Total: 50}),
		},
		{
			name:         "Failure - missing auth header",
			mockService:  mockOrderService{},
			body:         `{"items":[{"isbn":"isbn-a","quantity":2}]}`,
			userID:       "",
			expectedCode: http.StatusUnauthorized,
			expectedBody: toJSON(t, ErrorResponse{Error: "Unauthorized: Missing or invalid user ID"}),
		},
		{
			name:         "Failure - malformed body",
			mockService:  mockOrderService{},
			body:         `{"items": not-json`,
			userID:       "alice",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid request body"}),
		},
		{
			name:         "Failure - missing items",
			mockService:  mockOrderService{},
			body:         `{}`,
			userID:       "alice",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{
				ValidationErrors: map[string]string{"Items": "failed on rule: required"},
			}),
		},
		{
			name:         "Failure - zero quantity",
			mockService:  mockOrderService{},
			body:         `{"items":[{"isbn":"isbn-a","quantity":0}]}`,
			userID:       "alice",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{
				ValidationErrors: map[string]string{"Quantity": "failed on rule: required"},
			}),
		},
		{
			name:         "Failure - unknown book",
			mockService:  mockOrderService{error: catalogerrors.ErrBookNotFound},
			body:         `{"items":[{"isbn":"isbn-missing","quantity":1}]}`,
			userID:       "alice",
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: catalogerrors.ErrBookNotFound.Error()}),
		},
		{
			name:         "Failure - empty cart",
			mockService:  mockOrderService{error: ordererrors.ErrCartEmpty},
			body:         `{"items":[{"isbn":"isbn-a","quantity":1}]}`,
			userID:       "alice",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: ordererrors.ErrCartEmpty.Error()}),
		},
		{
			name:         "Failure - store error",
			mockService:  mockOrderService{error: ordererrors.ErrCreateOrder},
			body:         `{"items":[{"isbn":"isbn-a","quantity":1}]}`,
			userID:       "alice",
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "An unexpected error occurred"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(tc.body))
			if tc.userID != "" {
				req = authenticated(req, tc.userID)
			}
			rr := httptest.NewRecorder()

			// when
			api.PlaceOrder(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_PlaceOrder_CustomerTakenFromAuth(t *testing.T) {
	// given: the body claims a different customer than the auth header
	mockService := mockOrderService{placed: &service.OrderPlacedDto{OrderID: 1}}
	api := newTestHandler(&mockService)
	body := `{"customer_id":"mallory","items":[{"isbn":"isbn-a","quantity":1}]}`
	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body)), "alice")
	rr := httptest.NewRecorder()

	// when
	api.PlaceOrder(rr, req)

	// then
	assert.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, mockService.placedDto)
	assert.Equal(t, "alice", mockService.placedDto.CustomerID)
}

func Test_Handler_FindByID(t *testing.T) {
	mockOrder := &service.OrderDto{
		ID:             1,
		CustomerID:     "alice",
		Status:         "Pending",
		Total:          50,
		ShippingMethod: "Standard",
		CreatedAt:      "2025-06-01T12:00:00Z",
		Items:          []service.OrderItemDto{{ISBN: "isbn-a", Quantity: 2}},
	}

	testCases := []struct {
		name         string
		mockService  mockOrderService
		orderID      string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - order found",
			mockService:  mockOrderService{order: mockOrder},
			orderID:      "1",
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, mockOrder),
		},
		{
			name:         "Failure - order not found",
			mockService:  mockOrderService{error: ordererrors.ErrOrderNotFound},
			orderID:      "99",
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: ordererrors.ErrOrderNotFound.Error()}),
		},
		{
			name:         "Failure - invalid ID",
			mockService:  mockOrderService{},
			orderID:      "abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid ID: abc"}),
		},
		{
			name:         "Failure - non-positive ID",
			mockService:  mockOrderService{},
			orderID:      "0",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid ID: 0"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+tc.orderID, nil)
			req.SetPathValue("id", tc.orderID)
			rr := httptest.NewRecorder()

			// when
			api.FindByID(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_Confirm(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockOrderService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - order confirmed",
			mockService:  mockOrderService{},
			expectedCode: http.StatusNoContent,
		},
		{
			name:         "Failure - order not found",
			mockService:  mockOrderService{error: ordererrors.ErrOrderNotFound},
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: ordererrors.ErrOrderNotFound.Error()}),
		},
		{
			name:         "Failure - already confirmed",
			mockService:  mockOrderService{error: ordererrors.ErrInvalidTransition},
			expectedCode: http.StatusConflict,
			expectedBody: toJSON(t, ErrorResponse{Error: ordererrors.ErrInvalidTransition.Error()}),
		},
		{
			name: "Failure - partial inventory update",
			mockService: mockOrderService{error: &ordererrors.InventoryError{
				OrderID: 1,
				Applied: []ordererrors.AppliedItem{{ISBN: "isbn-a", Quantity: 2}},
				Err:     catalogerrors.ErrNegativeStock,
			}},
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, map[string]any{
				"error": "Order 1 is confirmed but inventory was only partially updated",
				"applied_items": []map[string]any{
					{"isbn": "isbn-a", "quantity": 2},
				},
			}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/confirm", nil), "admin")
			req.SetPathValue("id", "1")
			rr := httptest.NewRecorder()

			// when
			api.Confirm(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			}
		})
	}
}

func Test_Handler_Cancel(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockOrderService
		userID       string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - order cancelled by owner",
			mockService:  mockOrderService{},
			userID:       "alice",
			expectedCode: http.StatusNoContent,
		},
		{
			name:         "Failure - cancelled by another customer",
			mockService:  mockOrderService{error: ordererrors.ErrAccessDenied},
			userID:       "bob",
			expectedCode: http.StatusForbidden,
			expectedBody: toJSON(t, ErrorResponse{Error: ordererrors.ErrAccessDenied.Error()}),
		},
		{
			name:         "Failure - missing auth header",
			mockService:  mockOrderService{},
			userID:       "",
			expectedCode: http.StatusUnauthorized,
			expectedBody: toJSON(t, ErrorResponse{Error: "Unauthorized: Missing or invalid user ID"}),
		},
		{
			name:         "Failure - already confirmed",
			mockService:  mockOrderService{error: ordererrors.ErrInvalidTransition},
			userID:       "alice",
			expectedCode: http.StatusConflict,
			expectedBody: toJSON(t, ErrorResponse{Error: ordererrors.ErrInvalidTransition.Error()}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/cancel", nil)
			if tc.userID != "" {
				req = authenticated(req, tc.userID)
			}
			req.SetPathValue("id", "1")
			rr := httptest.NewRecorder()

			// when
			api.Cancel(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			}
			if tc.expectedCode == http.StatusNoContent {
				assert.Equal(t, tc.userID, tc.mockService.requestedBy)
			}
		})
	}
}

func Test_Handler_Ship(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockOrderService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - order shipped",
			mockService:  mockOrderService{},
			expectedCode: http.StatusNoContent,
		},
		{
			name:         "Failure - not yet confirmed",
			mockService:  mockOrderService{error: ordererrors.ErrInvalidTransition},
			expectedCode: http.StatusConflict,
			expectedBody: toJSON(t, ErrorResponse{Error: ordererrors.ErrInvalidTransition.Error()}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/ship", nil), "admin")
			req.SetPathValue("id", "1")
			rr := httptest.NewRecorder()

			// when
			api.Ship(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			}
		})
	}
}

func Test_Handler_TopSellingBooks(t *testing.T) {
	mockBooks := []catalog.BookSales{
		{ISBN: "isbn-a", Title: "Go in Action", Author: "Kennedy", Sold: 10},
		{ISBN: "isbn-b", Title: "Dune", Author: "Herbert", Sold: 7},
	}

	testCases := []struct {
		name          string
		mockService   mockOrderService
		query         string
		expectedCode  int
		expectedBody  string
		expectedLimit int32
	}{
		{
			name:          "Success - default limit",
			mockService:   mockOrderService{topBooks: mockBooks},
			query:         "",
			expectedCode:  http.StatusOK,
			expectedBody:  toJSON(t, mockBooks),
			expectedLimit: 3,
		},
		{
			name:          "Success - explicit limit",
			mockService:   mockOrderService{topBooks: mockBooks[:1]},
			query:         "?limit=1",
			expectedCode:  http.StatusOK,
			expectedBody:  toJSON(t, mockBooks[:1]),
			expectedLimit: 1,
		},
		{
			name:         "Failure - invalid limit",
			mockService:  mockOrderService{},
			query:        "?limit=zero",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid limit number: zero"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/top-books"+tc.query, nil)
			rr := httptest.NewRecorder()

			// when
			api.TopSellingBooks(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			if tc.expectedCode == http.StatusOK {
				assert.Equal(t, tc.expectedLimit, tc.mockService.receivedLimit)
			}
		})
	}
}

func Test_Handler_TopCategories(t *testing.T) {
	mockCategories := []catalog.CategorySales{
		{Category: "Programming", TotalSold: 13},
		{Category: "Fiction", TotalSold: 9},
	}

	// given
	mockService := mockOrderService{topCategories: mockCategories}
	api := newTestHandler(&mockService)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/top-categories", nil)
	rr := httptest.NewRecorder()

	// when
	api.TopCategories(rr, req)

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, toJSON(t, mockCategories), rr.Body.String())
	assert.Equal(t, int32(3), mockService.receivedLimit)
}

func Test_Handler_StockLevels(t *testing.T) {
	mockStock := []catalog.StockLevel{
		{ISBN: "isbn-a", Title: "Go in Action", Stock: 10},
		{ISBN: "isbn-b", Title: "Dune", Stock: 3},
	}

	testCases := []struct {
		name         string
		mockService  mockOrderService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - stock report",
			mockService:  mockOrderService{stock: mockStock},
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, mockStock),
		},
		{
			name:         "Failure - store error",
			mockService:  mockOrderService{error: ordererrors.ErrFailedToFindOrder},
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to fetch stock levels"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/stock", nil)
			rr := httptest.NewRecorder()

			// when
			api.StockLevels(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_HealthCheck(t *testing.T) {
	// given
	api := newTestHandler(&mockOrderService{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	// when
	api.HealthCheck(rr, req)

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
}
