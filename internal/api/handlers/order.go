package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/storehub/catalog-service/internal/api/middleware"
	"github.com/storehub/catalog-service/internal/models"
	service "github.com/storehub/catalog-service/internal/services"
	"github.com/storehub/catalog-service/internal/utils"
	"github.com/storehub/catalog-service/internal/utils/response"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.CreateOrder(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create order", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Order created",
			slog.String("orderId", order.ID.String()),
			slog.Float64("totalAmount", order.TotalAmount))
		response.Success(w, http.StatusCreated, order)
	}
}
