package cache

import (
	"github.com/storehub/catalog-service/internal/metrics"
)

// Invalidation is a declarative signal emitted by mutating operations. The
// invalidator owns the mapping from flags to concrete keys; emitters never
// name keys directly.
type Invalidation struct {
	// Product drops the storefront aggregates (latest products, categories).
	Product bool
	// Admin drops the administrative full listing.
	Admin bool
	// ProductIDs drops the detail entry of each listed id.
	ProductIDs []string
	// AllDetail flushes the whole product detail family. Used when a mutation
	// touches products whose ids are not worth enumerating, e.g. order
	// placement changing stock across several records.
	AllDetail bool
}

type Invalidator struct {
	store Store
}

func NewInvalidator(store Store) *Invalidator {
	return &Invalidator{store: store}
}

// Invalidate applies the deletions for ev. Flags are handled independently;
// order does not matter. Deleting an absent key is a no-op.
//
// A delete here may race with a concurrent read repopulating the same key
// from pre-mutation storage. That read can serve one stale response; the next
// miss repopulates from current storage. Accepted trade-off: the cache
// converges within one read cycle and never diverges persistently.
func (i *Invalidator) Invalidate(ev Invalidation) {
	if ev.Product {
		i.store.Delete(KeyLatestProducts)
		i.store.Delete(KeyCategories)
		metrics.CacheInvalidations.WithLabelValues(KeyLatestProducts).Inc()
		metrics.CacheInvalidations.WithLabelValues(KeyCategories).Inc()
	}

	if ev.Admin {
		i.store.Delete(KeyAllProducts)
		metrics.CacheInvalidations.WithLabelValues(KeyAllProducts).Inc()
	}

	for _, id := range ev.ProductIDs {
		i.store.Delete(ProductKey(id))
		metrics.CacheInvalidations.WithLabelValues(ProductKeyPrefix + "*").Inc()
	}

	if ev.AllDetail {
		i.store.DeleteByPrefix(ProductKeyPrefix)
		metrics.CacheInvalidations.WithLabelValues(ProductKeyPrefix + "*").Inc()
	}
}
