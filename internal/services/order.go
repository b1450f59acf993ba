package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/storehub/catalog-service/internal/cache"
	apperrors "github.com/storehub/catalog-service/internal/errors"
	"github.com/storehub/catalog-service/internal/models"
	repository "github.com/storehub/catalog-service/internal/repositories"
	"github.com/storehub/catalog-service/pkg/sendgrid"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	invalidator *cache.Invalidator
	email       sendgrid.EmailClient
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, invalidator *cache.Invalidator, email sendgrid.EmailClient) OrderService {
	return &orderService{orderRepo: orderRepo, productRepo: productRepo, invalidator: invalidator, email: email}
}

func (s *orderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {

	order := &models.Order{
		ID:     uuid.New(),
		Email:  req.Email,
		Status: models.OrderStatusPending,
	}

	// price each line from current storage, never from the request
	for _, item := range req.Items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperrors.NotFoundError("Product not found: " + item.ProductID.String()).WithError(err)
			}

			return nil, apperrors.DatabaseError("Failed to fetch product").WithError(err)
		}

		if product.Stock < item.Quantity {
			return nil, apperrors.BadRequestError("Insufficient stock for product: " + item.ProductID.String())
		}

		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
		order.TotalAmount += float64(item.Quantity) * product.Price
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, apperrors.BadRequestError("Insufficient stock").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to create order").WithError(err)
	}

	// stock changed on every ordered product: flush the whole detail family
	// instead of enumerating ids, and drop the aggregates with it
	s.invalidator.Invalidate(cache.Invalidation{Product: true, Admin: true, AllDetail: true})

	if s.email != nil {
		subject := fmt.Sprintf("Order %s confirmed", order.ID)
		body := fmt.Sprintf("Thanks for your order. %d item(s), total %.2f.", len(order.Items), order.TotalAmount)

		if err := s.email.Send(ctx, order.Email, subject, body, ""); err != nil {
			slog.Warn("failed to send order confirmation email",
				slog.String("orderId", order.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	return order, nil
}
