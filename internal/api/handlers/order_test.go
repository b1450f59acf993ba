package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/storehub/catalog-service/internal/api/handlers"
	appErrors "github.com/storehub/catalog-service/internal/errors"
	"github.com/storehub/catalog-service/internal/models"
	"github.com/storehub/catalog-service/internal/services/mocks"
	"github.com/storehub/catalog-service/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderHandler(t *testing.T) {
	productID := uuid.New()

	reqBody := models.CreateOrderRequest{
		Email: "buyer@example.com",
		Items: []models.CreateOrderItem{{ProductID: productID, Quantity: 2}},
	}

	newRequest := func(t *testing.T, body any) *http.Request {
		t.Helper()

		raw, err := json.Marshal(body)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")

		return req
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockOrderService := new(mocks.OrderService)
		handler := handlers.NewOrderHandler(mockOrderService)

		expected := &models.Order{
			ID:          uuid.New(),
			Email:       reqBody.Email,
			Status:      models.OrderStatusPending,
			TotalAmount: 20,
		}
		mockOrderService.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *models.CreateOrderRequest) bool {
			return req.Email == "buyer@example.com" && len(req.Items) == 1
		})).Return(expected, nil).Once()

		rr := httptest.NewRecorder()

		// Act
		handler.CreateOrder().ServeHTTP(rr, newRequest(t, reqBody))

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Empty items rejected before the service", func(t *testing.T) {
		// Arrange
		mockOrderService := new(mocks.OrderService)
		handler := handlers.NewOrderHandler(mockOrderService)

		rr := httptest.NewRecorder()

		// Act
		handler.CreateOrder().ServeHTTP(rr, newRequest(t, models.CreateOrderRequest{Email: "buyer@example.com"}))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockOrderService.AssertNotCalled(t, "CreateOrder")
	})

	t.Run("Failure - Insufficient stock", func(t *testing.T) {
		// Arrange
		mockOrderService := new(mocks.OrderService)
		handler := handlers.NewOrderHandler(mockOrderService)

		mockOrderService.On("CreateOrder", mock.Anything, mock.Anything).
			Return(nil, appErrors.BadRequestError("Insufficient stock")).Once()

		rr := httptest.NewRecorder()

		// Act
		handler.CreateOrder().ServeHTTP(rr, newRequest(t, reqBody))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeBadRequest)
	})
}
