package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/storehub/catalog-service/internal/models"
)

// ErrInsufficientStock is returned when an order would drive a product's
// stock below zero. The stock guard lives in the transaction so concurrent
// orders cannot both take the last unit.
var ErrInsufficientStock = errors.New("insufficient stock")

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// Create inserts the order with its items and decrements stock, all in one
// transaction.
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	orderQuery := `
		INSERT INTO orders (id, email, status, total_amount, payment_intent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(dbCtx, orderQuery, order.ID, order.Email, order.Status, order.TotalAmount, order.PaymentIntentID).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	stockQuery := `
		UPDATE products SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`

	for _, item := range order.Items {
		if _, err := tx.ExecContext(dbCtx, itemQuery, item.ID, order.ID, item.ProductID, item.Quantity, item.UnitPrice); err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}

		result, err := tx.ExecContext(dbCtx, stockQuery, item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read stock update result: %w", err)
		}

		if affected == 0 {
			return fmt.Errorf("product %s: %w", item.ProductID, ErrInsufficientStock)
		}
	}

	return tx.Commit()
}
