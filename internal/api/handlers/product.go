package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/storehub/catalog-service/internal/api/middleware"
	"github.com/storehub/catalog-service/internal/errors"
	"github.com/storehub/catalog-service/internal/models"
	"github.com/storehub/catalog-service/internal/query"
	service "github.com/storehub/catalog-service/internal/services"
	"github.com/storehub/catalog-service/internal/utils"
	"github.com/storehub/catalog-service/internal/utils/response"
)

type ProductHandler struct {
	catalog   service.CatalogService
	validator *validator.Validate
	sanitizer *bluemonday.Policy
}

func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalog:   catalog,
		validator: validator.New(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

type productsResponse struct {
	Success  bool              `json:"success"`
	Products []*models.Product `json:"products"`
}

type categoriesResponse struct {
	Success    bool     `json:"success"`
	Categories []string `json:"categories"`
}

type productResponse struct {
	Success bool            `json:"success"`
	Product *models.Product `json:"product"`
}

type searchResponse struct {
	Success   bool              `json:"success"`
	Products  []*models.Product `json:"products"`
	TotalPage int               `json:"totalPage"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ProductHandler) Latest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		products, err := h.catalog.Latest(r.Context())
		if err != nil {
			logger.Error("Failed to fetch latest products", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.WriteJson(w, http.StatusOK, productsResponse{Success: true, Products: products})
	}
}

func (h *ProductHandler) Categories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		categories, err := h.catalog.Categories(r.Context())
		if err != nil {
			logger.Error("Failed to fetch categories", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.WriteJson(w, http.StatusOK, categoriesResponse{Success: true, Categories: categories})
	}
}

func (h *ProductHandler) AdminListing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		products, err := h.catalog.AdminListing(r.Context())
		if err != nil {
			logger.Error("Failed to fetch admin listing", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.WriteJson(w, http.StatusOK, productsResponse{Success: true, Products: products})
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))

			return
		}

		product, err := h.catalog.GetByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to fetch product",
				slog.String("productId", id.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.WriteJson(w, http.StatusOK, productResponse{Success: true, Product: product})
	}
}

// for eg: GET /products?search=pen&category=office&price=50&sort=asc&page=2
func (h *ProductHandler) SearchProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		q := r.URL.Query()
		params := query.Params{
			Search:   h.sanitizer.Sanitize(q.Get("search")),
			Category: h.sanitizer.Sanitize(q.Get("category")),
			Price:    q.Get("price"),
			Sort:     q.Get("sort"),
			Page:     q.Get("page"),
		}

		result, err := h.catalog.Search(r.Context(), params)
		if err != nil {
			logger.Warn("Product search failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.WriteJson(w, http.StatusOK, searchResponse{
			Success:   true,
			Products:  result.Products,
			TotalPage: result.TotalPage,
		})
	}
}

func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		photo, err := utils.StagePhotoUpload(r, "photo")
		if err != nil {
			response.Error(w, errors.ValidationError(err.Error()))

			return
		}
		defer photo.Remove()

		req, appErr := h.parseCreateForm(r)
		if appErr != nil {
			response.Error(w, appErr)

			return
		}

		if err := utils.ValidateStruct(h.validator, req); err != nil {
			response.Error(w, errors.ValidationError("Invalid product data").WithDetail(err.Error()))

			return
		}

		photoPath := ""
		if photo != nil {
			photoPath = photo.Path
		}

		product, err := h.catalog.Create(r.Context(), req, photoPath)
		if err != nil {
			logger.Error("Failed to create product", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Product created", slog.String("productId", product.ID.String()))
		response.WriteJson(w, http.StatusCreated, messageResponse{Success: true, Message: "Product Created Successfully"})
	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))

			return
		}

		photo, err := utils.StagePhotoUpload(r, "photo")
		if err != nil {
			response.Error(w, errors.ValidationError(err.Error()))

			return
		}
		defer photo.Remove()

		req, appErr := h.parseUpdateForm(r)
		if appErr != nil {
			response.Error(w, appErr)

			return
		}

		if err := utils.ValidateStruct(h.validator, req); err != nil {
			response.Error(w, errors.ValidationError("Invalid product data").WithDetail(err.Error()))

			return
		}

		photoPath := ""
		if photo != nil {
			photoPath = photo.Path
		}

		product, err := h.catalog.Update(r.Context(), id, req, photoPath)
		if err != nil {
			logger.Warn("Failed to update product",
				slog.String("productId", id.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Product updated", slog.String("productId", product.ID.String()))
		response.WriteJson(w, http.StatusOK, messageResponse{Success: true, Message: "Product Updated Successfully"})
	}
}

func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))

			return
		}

		if err := h.catalog.Delete(r.Context(), id); err != nil {
			logger.Warn("Failed to delete product",
				slog.String("productId", id.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Product deleted", slog.String("productId", id.String()))
		response.WriteJson(w, http.StatusOK, messageResponse{Success: true, Message: "Product Deleted Successfully"})
	}
}

func (h *ProductHandler) parseCreateForm(r *http.Request) (*models.CreateProductRequest, *errors.AppError) {
	req := &models.CreateProductRequest{
		Name:     h.sanitizer.Sanitize(r.FormValue("name")),
		Category: h.sanitizer.Sanitize(r.FormValue("category")),
	}

	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.ValidationError("Price must be a number")
		}

		req.Price = &price
	}

	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.ValidationError("Stock must be a whole number")
		}

		req.Stock = &stock
	}

	return req, nil
}

// parseUpdateForm keeps absent fields nil so the service only touches what
// the form actually carried.
func (h *ProductHandler) parseUpdateForm(r *http.Request) (*models.UpdateProductRequest, *errors.AppError) {
	req := &models.UpdateProductRequest{}

	form := r.MultipartForm
	if form == nil {
		return req, nil
	}

	if values, ok := form.Value["name"]; ok && len(values) > 0 {
		name := h.sanitizer.Sanitize(values[0])
		req.Name = &name
	}

	if values, ok := form.Value["category"]; ok && len(values) > 0 {
		category := h.sanitizer.Sanitize(values[0])
		req.Category = &category
	}

	if values, ok := form.Value["price"]; ok && len(values) > 0 {
		price, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			return nil, errors.ValidationError("Price must be a number")
		}

		req.Price = &price
	}

	if values, ok := form.Value["stock"]; ok && len(values) > 0 {
		stock, err := strconv.ParseInt(values[0], 10, 64)
		if err != nil {
			return nil, errors.ValidationError("Stock must be a whole number")
		}

		req.Stock = &stock
	}

	return req, nil
}
