package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/storehub/catalog-service/internal/models"
	"github.com/storehub/catalog-service/internal/query"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Find(ctx context.Context, desc query.Descriptor) ([]*models.Product, error)
	Count(ctx context.Context, desc query.Descriptor) (int, error)
	Latest(ctx context.Context, limit int) ([]*models.Product, error)
	All(ctx context.Context) ([]*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `id, name, price, stock, category, photo_asset_id, photo_url, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (name, price, stock, category, photo_asset_id, photo_url)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at
	`

	var assetID, url sql.NullString
	if product.Photo != nil {
		assetID = sql.NullString{String: product.Photo.AssetID, Valid: true}
		url = sql.NullString{String: product.Photo.URL, Valid: true}
	}

	return r.DB.QueryRowContext(dbCtx, query, product.Name, product.Price, product.Stock, product.Category, assetID, url).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

// Find returns one page of products for the descriptor's filter, sort and
// slice. The filter translation is the single place descriptor predicates
// become SQL; Count reuses it so both sub-queries share the same predicate.
func (r *productRepository) Find(ctx context.Context, desc query.Descriptor) ([]*models.Product, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	where, args := buildWhere(desc.Predicates)

	sqlQuery := `SELECT ` + productColumns + ` FROM products` + where + orderClause(desc.Sort)

	if desc.Limit > 0 {
		args = append(args, desc.Limit, desc.Skip)
		sqlQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.DB.QueryContext(dbCtx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) Count(ctx context.Context, desc query.Descriptor) (int, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	where, args := buildWhere(desc.Predicates)

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *productRepository) Latest(ctx context.Context, limit int) ([]*models.Product, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT $1`

	rows, err := r.DB.QueryContext(dbCtx, query, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) All(ctx context.Context) ([]*models.Product, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var categories []string

	for rows.Next() {
		var category string

		if err := rows.Scan(&category); err != nil {
			return nil, err
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *productRepository) Save(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products SET name = $1, price = $2, stock = $3, category = $4, photo_asset_id = $5, photo_url = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	var assetID, url sql.NullString
	if product.Photo != nil {
		assetID = sql.NullString{String: product.Photo.AssetID, Valid: true}
		url = sql.NullString{String: product.Photo.URL, Valid: true}
	}

	return r.DB.QueryRowContext(dbCtx, query, product.Name, product.Price, product.Stock, product.Category, assetID, url, product.ID).
		Scan(&product.UpdatedAt)
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// buildWhere translates descriptor predicates into a WHERE clause with
// positional args. ILIKE gives the case-insensitive substring match the
// search parameter promises.
func buildWhere(predicates []query.Predicate) (string, []any) {
	var clauses []string

	var args []any

	for _, p := range predicates {
		switch p := p.(type) {
		case query.NameContains:
			args = append(args, "%"+p.Term+"%")
			clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
		case query.CategoryEquals:
			args = append(args, p.Category)
			clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
		case query.PriceAtMost:
			args = append(args, p.Ceiling)
			clauses = append(clauses, fmt.Sprintf("price <= $%d", len(args)))
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderClause(sort *query.SortSpec) string {
	if sort == nil {
		return " ORDER BY created_at DESC"
	}

	direction := "ASC"
	if sort.Direction == query.SortDesc {
		direction = "DESC"
	}

	return " ORDER BY " + sort.Field + " " + direction
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}

	var assetID, url sql.NullString

	err := row.Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.Category,
		&assetID, &url, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if assetID.Valid {
		product.Photo = &models.Photo{AssetID: assetID.String, URL: url.String}
	}

	return product, nil
}

func scanProducts(rows *sql.Rows) ([]*models.Product, error) {
	var products []*models.Product

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
