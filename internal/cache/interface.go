package cache

import "errors"

// ErrKeyNotFound is the normal miss signal. Callers treat it as "go to
// storage", not as a failure.
var ErrKeyNotFound = errors.New("cache: key not found")

// ErrCorruptedEntry means a live payload failed to decode. Callers must
// degrade to a miss; the entry is overwritten by the next populate.
var ErrCorruptedEntry = errors.New("cache: corrupted entry")

type Store interface {
	Has(key string) bool
	Get(key string, dest any) error
	Set(key string, value any) error
	Delete(key string)
	DeleteByPrefix(prefix string)
}

const (
	KeyLatestProducts = "latest-products"
	KeyCategories     = "categories"
	KeyAllProducts    = "all-products"

	ProductKeyPrefix = "product-"
)

// ProductKey builds the single-product detail key for an id.
func ProductKey(id string) string {
	return ProductKeyPrefix + id
}
