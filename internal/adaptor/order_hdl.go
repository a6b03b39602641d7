package adaptor

import (
	"encoding/json"
	"net/http"

	"order-upload/internal/dto/request"
	"order-upload/internal/usecase"
	"order-upload/pkg/utils"

	"go.uber.org/zap"
)

type OrderHandler struct {
	service usecase.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service usecase.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log.With(zap.String("handler", "order")),
	}
}

// CreateOrder handles POST /api/orders (seller only)
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req request.OrderNumberRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create order")
		return
	}

	utils.ResponseCreated(w, "Order created successfully", order)
}

// ListOrders handles GET /api/orders?search= (seller only)
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		handleServiceError(w, h.log, err, "list orders")
		return
	}

	utils.ResponseSuccess(w, "Orders retrieved successfully", orders)
}

// DeleteOrder handles DELETE /api/orders/{orderNumber} (seller only)
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber, ok := orderNumberParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), orderNumber); err != nil {
		handleServiceError(w, h.log, err, "delete order")
		return
	}

	utils.ResponseSuccess(w, "Order deleted successfully", nil)
}

// VerifyOrder handles POST /api/verify-order
func (h *OrderHandler) VerifyOrder(w http.ResponseWriter, r *http.Request) {
	var req request.OrderNumberRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	order, err := h.service.VerifyOrder(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "verify order")
		return
	}

	utils.ResponseSuccess(w, "Order verified", order)
}

func orderNumberParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	orderNumber, err := utils.PathParam(r, "orderNumber")
	if err != nil || orderNumber == "" {
		utils.ResponseBadRequest(w, "Order number is required", nil)
		return "", false
	}
	return orderNumber, true
}
