package service

import (
	"context"

	apperrors "github.com/storehub/catalog-service/internal/errors"
	"github.com/storehub/catalog-service/internal/models"
	"github.com/storehub/catalog-service/pkg/stripe"
)

type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, req *models.CreatePaymentRequest) (*models.PaymentIntent, error)
}

type paymentService struct {
	client stripe.Client
}

func NewPaymentService(client stripe.Client) PaymentService {
	return &paymentService{client: client}
}

// CreatePaymentIntent is a pass-through to the payment provider; the catalog
// keeps no payment state of its own.
func (s *paymentService) CreatePaymentIntent(ctx context.Context, req *models.CreatePaymentRequest) (*models.PaymentIntent, error) {
	intent, err := s.client.CreatePaymentIntent(req.Amount, req.Currency, req.Description)
	if err != nil {
		return nil, apperrors.InternalError("Failed to create payment intent").WithError(err)
	}

	return &models.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
		Status:       string(intent.Status),
	}, nil
}
