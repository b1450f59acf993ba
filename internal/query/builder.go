// Package query translates the optional search parameters of a catalog
// request into a storage-engine-agnostic filter/sort/pagination descriptor.
package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/storehub/catalog-service/internal/errors"
)

const DefaultPageSize = 8

// Predicate is one filter condition. The set of variants is closed; storage
// adapters switch over them to build their native filter.
type Predicate interface {
	predicate()
}

// NameContains matches products whose name contains Term, case-insensitively.
type NameContains struct {
	Term string
}

// CategoryEquals matches the normalized category exactly.
type CategoryEquals struct {
	Category string
}

// PriceAtMost matches price <= Ceiling, inclusive. A ceiling of zero is a
// real filter, not an absent one; absence is expressed by the predicate not
// being present at all.
type PriceAtMost struct {
	Ceiling float64
}

func (NameContains) predicate()   {}
func (CategoryEquals) predicate() {}
func (PriceAtMost) predicate()    {}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type SortSpec struct {
	Field     string
	Direction SortDirection
}

type Descriptor struct {
	Predicates []Predicate
	Sort       *SortSpec
	Skip       int
	Limit      int
}

// CountOnly strips sort and pagination so the total count is computed over
// the same filter as the page slice.
func (d Descriptor) CountOnly() Descriptor {
	d.Sort = nil
	d.Skip = 0
	d.Limit = 0

	return d
}

// Params are the raw, all-optional query values of GET /products. Empty
// string means absent.
type Params struct {
	Search   string
	Category string
	Price    string
	Sort     string
	Page     string
}

// Build validates params and produces the descriptor for one result page.
//
// Page is clamped permissively: anything non-numeric or below 1 becomes page
// 1. Sort, by contrast, must be "asc" or "desc" when present; other values
// are rejected rather than silently coerced.
func Build(p Params, pageSize int) (Descriptor, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	desc := Descriptor{
		Limit: pageSize,
		Skip:  (clampPage(p.Page) - 1) * pageSize,
	}

	if p.Search != "" {
		desc.Predicates = append(desc.Predicates, NameContains{Term: p.Search})
	}

	if p.Category != "" {
		desc.Predicates = append(desc.Predicates, CategoryEquals{Category: strings.ToLower(p.Category)})
	}

	if p.Price != "" {
		ceiling, err := strconv.ParseFloat(p.Price, 64)
		if err != nil {
			return Descriptor{}, errors.AddValidationError("price", "must be a number")
		}

		if ceiling < 0 {
			return Descriptor{}, errors.AddValidationError("price", "must not be negative")
		}

		desc.Predicates = append(desc.Predicates, PriceAtMost{Ceiling: ceiling})
	}

	switch p.Sort {
	case "":
		// storage default order
	case string(SortAsc):
		desc.Sort = &SortSpec{Field: "price", Direction: SortAsc}
	case string(SortDesc):
		desc.Sort = &SortSpec{Field: "price", Direction: SortDesc}
	default:
		return Descriptor{}, errors.AddValidationError("sort", "must be asc or desc")
	}

	return desc, nil
}

// TotalPages computes the pagination metadata for a filtered count. Zero
// matches yield zero pages.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return int(math.Ceil(float64(count) / float64(pageSize)))
}

func clampPage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}

	return page
}
