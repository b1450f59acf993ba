package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo references an asset held by the external asset store.
type Photo struct {
	AssetID string `json:"assetId"`
	URL     string `json:"url"`
}

type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int64     `json:"stock"`
	Category  string    `json:"category"`
	Photo     *Photo    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateProductRequest holds the multipart form fields of POST /products.
// Price and Stock are pointers so that a supplied zero is distinguishable
// from an absent field.
type CreateProductRequest struct {
	Name     string   `validate:"required,min=1,max=200"`
	Price    *float64 `validate:"required,gte=0"`
	Stock    *int64   `validate:"required,gte=0"`
	Category string   `validate:"required,min=1,max=100"`
}

// UpdateProductRequest is a partial update: nil fields are left unchanged.
type UpdateProductRequest struct {
	Name     *string  `validate:"omitempty,min=1,max=200"`
	Price    *float64 `validate:"omitempty,gte=0"`
	Stock    *int64   `validate:"omitempty,gte=0"`
	Category *string  `validate:"omitempty,min=1,max=100"`
}

type SearchResult struct {
	Products  []*Product `json:"products"`
	TotalPage int        `json:"totalPage"`
}
