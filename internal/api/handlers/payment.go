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

type PaymentHandler struct {
	paymentService service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validator: validator.New()}
}

func (h *PaymentHandler) CreatePaymentIntent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreatePaymentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		intent, err := h.paymentService.CreatePaymentIntent(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create payment intent", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Payment intent created", slog.String("paymentIntentId", intent.ID))
		response.Success(w, http.StatusOK, intent)
	}
}
