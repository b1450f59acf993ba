package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"orderId"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int64     `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	CreatedAt time.Time `json:"createdAt"`
}

type Order struct {
	ID              uuid.UUID   `json:"id"`
	Email           string      `json:"email"`
	Status          string      `json:"status"`
	TotalAmount     float64     `json:"totalAmount"`
	PaymentIntentID string      `json:"paymentIntentId,omitempty"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type CreateOrderItem struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int64     `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	Email string            `json:"email" validate:"required,email"`
	Items []CreateOrderItem `json:"items" validate:"required,min=1,dive"`
}
