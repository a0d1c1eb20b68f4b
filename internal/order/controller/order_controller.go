package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"myshop/internal/auth"
	"myshop/internal/domain"
	"myshop/internal/dto"
	apperrors "myshop/internal/errors"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, customerID string, payload dto.OrderPayload) (*domain.Order, error)
	ListOrders(ctx context.Context, customerID, startDate, endDate string) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, orderID string, payload dto.OrderPayload) (*domain.Order, error)
}

type OrderController struct {
	useCase OrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleCreateOrder serves POST /orders. The customer id comes from the
// authenticated principal, never from the body. Responds 201 with an empty
// body on success.
func (c *OrderController) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	customerID, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		logger.Warn("no principal in request context")
		c.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authenticated principal")
		return
	}

	var payload dto.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if validationErr := validateOrderPayload(payload); validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	order, err := c.useCase.CreateOrder(r.Context(), customerID, payload)
	if err != nil {
		logger.Error("creating order failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
		return
	}

	logger.Info("order created", zap.String("orderId", order.OrderID))
	w.WriteHeader(http.StatusCreated)
}

// HandleListOrders serves GET /orders?startDate=&endDate=. Both parameters
// are required and checked before any persistence call. Zero matches yields
// 404; a failed query yields 400 with the error in the body.
func (c *OrderController) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	customerID, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		logger.Warn("no principal in request context")
		c.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authenticated principal")
		return
	}

	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if startDate == "" || endDate == "" {
		c.writeValidationError(w, "missing required query parameters", apperrors.ValidationDetail{
			Field:   "startDate, endDate",
			Message: "startDate and endDate query parameters are required",
		})
		return
	}

	orders, err := c.useCase.ListOrders(r.Context(), customerID, startDate, endDate)
	if err != nil {
		logger.Error("listing orders failed", zap.Error(err))
		c.writeError(w, http.StatusBadRequest, "QUERY_FAILED", err.Error())
		return
	}

	if len(orders) == 0 {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", "no orders found in the requested range")
		return
	}

	c.writeJSON(w, http.StatusOK, mapOrdersResponse(orders))
}

// HandleUpdateOrder serves PUT /orders/{id}. The item sequence is replaced
// wholesale; customer id, order date and order id are immutable. Responds 201
// with an empty body on success, matching the documented contract.
func (c *OrderController) HandleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID := strings.TrimSpace(chi.URLParam(r, "id"))
	if orderID == "" {
		c.writeValidationError(w, "missing order id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "order id is required in the request path",
		})
		return
	}

	var payload dto.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if validationErr := validateOrderPayload(payload); validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	// An unknown order id is deliberately not mapped to 404 here; the
	// NotFoundError falls through with the other failures, preserving the
	// documented contract.
	order, err := c.useCase.UpdateOrder(r.Context(), orderID, payload)
	if err != nil {
		logger.Error("updating order failed", zap.String("orderId", orderID), zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
		return
	}

	logger.Info("order updated", zap.String("orderId", order.OrderID))
	w.WriteHeader(http.StatusCreated)
}

func validateOrderPayload(payload dto.OrderPayload) error {
	var details []apperrors.ValidationDetail

	if len(payload.OrderItems) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "orderItems",
			Message: "orderItems must not be empty",
		})
	}

	for idx, item := range payload.OrderItems {
		field := "orderItems[" + strconv.Itoa(idx) + "]"

		if item.ProductID == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".productID",
				Message: "productID is required",
			})
		}

		if item.ProductTitle == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".productTitle",
				Message: "productTitle is required",
			})
		}

		if item.ProductPrice < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".productPrice",
				Message: "productPrice must be non-negative",
			})
		}

		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".quantity",
				Message: "quantity must be at least 1",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func mapOrdersResponse(orders []domain.Order) []dto.OrderResponse {
	responses := make([]dto.OrderResponse, len(orders))
	for i, order := range orders {
		items := make([]dto.OrderItemResponse, len(order.OrderItems))
		for j, item := range order.OrderItems {
			items[j] = dto.OrderItemResponse{
				ProductID:    item.ProductID,
				ProductTitle: item.ProductTitle,
				ProductPrice: item.ProductPrice,
				Quantity:     item.Quantity,
			}
		}
		responses[i] = dto.OrderResponse{
			CustomerID:   order.CustomerID,
			OrderDateISO: order.OrderDateISO,
			OrderID:      order.OrderID,
			OrderItems:   items,
		}
	}
	return responses
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	response := validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}

	c.writeJSON(w, http.StatusBadRequest, response)
}

func (c *OrderController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
