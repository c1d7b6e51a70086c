// Package rest provides HTTP handlers for order-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	catalogerrors "github.com/abgdnv/bookstore/internal/catalog/errors"
	ordererrors "github.com/abgdnv/bookstore/internal/order/errors"
	"github.com/abgdnv/bookstore/internal/order/service"
	"github.com/abgdnv/bookstore/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

const defaultStatsLimit = 3

type Handler struct {
	service  service.OrderService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the order API with the provided service.
func NewHandler(service service.OrderService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),

		logger: logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the bookstore service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(web.AuthMiddleware)
		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Post("/", h.PlaceOrder)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.FindByID)
				r.Post("/confirm", h.Confirm)
				r.Post("/cancel", h.Cancel)
				r.Post("/ship", h.Ship)
			})
		})
	})
	r.Route("/api/v1/stats", func(r chi.Router) {
		r.Get("/top-books", h.TopSellingBooks)
		r.Get("/top-categories", h.TopCategories)
		r.Get("/stock", h.StockLevels)
	})
	r.Get("/healthz", h.HealthCheck)
}

// PlaceOrder handles the creation of a new order from cart entries.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	customerID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}
	var dto service.PlaceOrderDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	// The customer placing the order is taken from the auth header, never
	// from the body.
	dto.CustomerID = customerID

	mLogger.DebugContext(r.Context(), "Received request to place order", "customer", customerID)
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	placed, err := h.service.PlaceOrder(r.Context(), dto)
	if err != nil {
		h.respondOrderError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully placed order", "order_id", placed.OrderID, "total", placed.Total)
	web.RespondJSON(w, mLogger, http.StatusCreated, placed)
}

// FindByID retrieves an order with its line items.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.Find(r.Context(), id)
	if err != nil {
		h.respondOrderError(w, r, mLogger, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Confirm moves a Pending order to Confirmed and applies inventory side effects.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to confirm order", "order_id", id)
	if err := h.service.Confirm(r.Context(), id); err != nil {
		h.respondOrderError(w, r, mLogger, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusNoContent, nil)
}

// Cancel moves a Pending order to Cancelled after an ownership check.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	customerID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to cancel order", "order_id", id, "customer", customerID)
	if err := h.service.Cancel(r.Context(), id, customerID); err != nil {
		h.respondOrderError(w, r, mLogger, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusNoContent, nil)
}

// Ship moves a Confirmed order to Shipped.
func (h *Handler) Ship(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to ship order", "order_id", id)
	if err := h.service.Ship(r.Context(), id); err != nil {
		h.respondOrderError(w, r, mLogger, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusNoContent, nil)
}

// TopSellingBooks returns the best selling books sorted by sold count.
func (h *Handler) TopSellingBooks(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseValidateGtDefault(r, w, mLogger, "limit", 0, defaultStatsLimit)
	if !ok {
		return
	}
	list, err := h.service.TopSellingBooks(r.Context(), limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving top selling books", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch top selling books")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// TopCategories returns the categories with the highest total sold counts.
func (h *Handler) TopCategories(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseValidateGtDefault(r, w, mLogger, "limit", 0, defaultStatsLimit)
	if !ok {
		return
	}
	list, err := h.service.TopCategories(r.Context(), limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving top categories", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch top categories")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// StockLevels returns every book with its available stock.
func (h *Handler) StockLevels(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.service.StockLevels(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving stock levels", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch stock levels")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// HealthCheck responds with 200 OK.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondOrderError maps service errors to HTTP status codes.
func (h *Handler) respondOrderError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, err error) {
	var invErr *ordererrors.InventoryError
	switch {
	case errors.Is(err, ordererrors.ErrOrderNotFound), errors.Is(err, catalogerrors.ErrBookNotFound):
		mLogger.WarnContext(r.Context(), "Resource not found", "error", err)
		web.RespondError(w, mLogger, http.StatusNotFound, err.Error())
	case errors.Is(err, ordererrors.ErrCartEmpty),
		errors.Is(err, ordererrors.ErrQuantityInvalid),
		errors.Is(err, ordererrors.ErrGiftNoteEmpty),
		errors.Is(err, ordererrors.ErrCustomizationEmpty):
		mLogger.WarnContext(r.Context(), "Invalid order request", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
	case errors.Is(err, ordererrors.ErrInvalidTransition):
		mLogger.WarnContext(r.Context(), "Invalid status transition", "error", err)
		web.RespondError(w, mLogger, http.StatusConflict, err.Error())
	case errors.Is(err, ordererrors.ErrAccessDenied):
		mLogger.WarnContext(r.Context(), "Access denied", "error", err)
		web.RespondError(w, mLogger, http.StatusForbidden, err.Error())
	case errors.As(err, &invErr):
		mLogger.ErrorContext(r.Context(), "Inventory update failed partway", "order_id", invErr.OrderID, "error", err)
		applied := make([]map[string]any, 0, len(invErr.Applied))
		for _, item := range invErr.Applied {
			applied = append(applied, map[string]any{"isbn": item.ISBN, "quantity": item.Quantity})
		}
		web.RespondJSON(w, mLogger, http.StatusInternalServerError, map[string]any{
			"error":         fmt.Sprintf("Order %d is confirmed but inventory was only partially updated", invErr.OrderID),
			"applied_items": applied,
		})
	default:
		mLogger.ErrorContext(r.Context(), "Unexpected error", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// loggerWithReqID returns a logger with the request ID from the request context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	return h.logger.With("request_id", middleware.GetReqID(r.Context()))
}
