package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/storehub/catalog-service/internal/api/handlers"
	appErrors "github.com/storehub/catalog-service/internal/errors"
	"github.com/storehub/catalog-service/internal/models"
	"github.com/storehub/catalog-service/internal/query"
	"github.com/storehub/catalog-service/internal/services/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMultipartRequest(t *testing.T, method, target string, fields map[string]string, withPhoto bool) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	if withPhoto {
		part, err := writer.CreateFormFile("photo", "pen.png")
		require.NoError(t, err)

		_, err = part.Write([]byte("fake-png-bytes"))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

func TestLatestHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)

		mockCatalog.On("Latest", mock.Anything).
			Return([]*models.Product{{ID: uuid.New(), Name: "Pen"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/products/latest", nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Latest().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Success  bool              `json:"success"`
			Products []*models.Product `json:"products"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Len(t, resp.Products, 1)
		mockCatalog.AssertExpectations(t)
	})

	t.Run("Failure - Service error", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)

		mockCatalog.On("Latest", mock.Anything).
			Return(nil, appErrors.DatabaseError("Failed to fetch products")).Once()

		req := httptest.NewRequest(http.MethodGet, "/products/latest", nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Latest().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeDatabaseError)
	})
}

func TestCategoriesHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)

		mockCatalog.On("Categories", mock.Anything).Return([]string{"books", "office"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/products/categories", nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Categories().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "office")
	})
}

func TestGetProductHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)
		id := uuid.New()

		mockCatalog.On("GetByID", mock.Anything, id).
			Return(&models.Product{ID: id, Name: "Pen"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/products/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		rr := httptest.NewRecorder()

		// Act
		handler.GetProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Success bool            `json:"success"`
			Product *models.Product `json:"product"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, id, resp.Product.ID)
	})

	t.Run("Failure - Malformed id", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)

		req := httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
		req.SetPathValue("id", "not-a-uuid")
		rr := httptest.NewRecorder()

		// Act
		handler.GetProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCatalog.AssertNotCalled(t, "GetByID")
	})

	t.Run("Failure - Unknown id", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)
		id := uuid.New()

		mockCatalog.On("GetByID", mock.Anything, id).
			Return(nil, appErrors.NotFoundError("Product not found")).Once()

		req := httptest.NewRequest(http.MethodGet, "/products/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		rr := httptest.NewRecorder()

		// Act
		handler.GetProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeNotFound)
	})
}

func TestSearchProductsHandler(t *testing.T) {
	t.Run("Success - Query params forwarded sanitized", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)

		mockCatalog.On("Search", mock.Anything, mock.MatchedBy(func(p query.Params) bool {
			return p.Search == "pen" && p.Category == "office" && p.Price == "50" && p.Sort == "asc" && p.Page == "2"
		})).Return(&models.SearchResult{Products: []*models.Product{{Name: "Pen"}}, TotalPage: 3}, nil).Once()

		// markup in the search term must be stripped before the service sees it
		req := httptest.NewRequest(http.MethodGet,
			"/products?search=%3Cb%3Epen%3C%2Fb%3E&category=office&price=50&sort=asc&page=2", nil)
		rr := httptest.NewRecorder()

		// Act
		handler.SearchProducts().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Success   bool              `json:"success"`
			Products  []*models.Product `json:"products"`
			TotalPage int               `json:"totalPage"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.TotalPage)
		mockCatalog.AssertExpectations(t)
	})

	t.Run("Failure - Invalid sort propagates as bad request", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)

		mockCatalog.On("Search", mock.Anything, mock.Anything).
			Return(nil, appErrors.ValidationError("Sort must be asc or desc")).Once()

		req := httptest.NewRequest(http.MethodGet, "/products?sort=upwards", nil)
		rr := httptest.NewRecorder()

		// Act
		handler.SearchProducts().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeValidation)
	})
}

func TestCreateProductHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)

		mockCatalog.On("Create", mock.Anything, mock.MatchedBy(func(req *models.CreateProductRequest) bool {
			return req.Name == "Pen" && *req.Price == 10.5 && *req.Stock == 5 && req.Category == "Office"
		}), mock.MatchedBy(func(path string) bool {
			return path != ""
		})).Return(&models.Product{ID: uuid.New(), Name: "Pen"}, nil).Once()

		req := newMultipartRequest(t, http.MethodPost, "/products", map[string]string{
			"name":     "Pen",
			"price":    "10.5",
			"stock":    "5",
			"category": "Office",
		}, true)
		rr := httptest.NewRecorder()

		// Act
		handler.CreateProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), "Product Created Successfully")
		mockCatalog.AssertExpectations(t)
	})

	t.Run("Failure - Missing required fields", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)

		req := newMultipartRequest(t, http.MethodPost, "/products", map[string]string{
			"name": "Pen",
		}, true)
		rr := httptest.NewRecorder()

		// Act
		handler.CreateProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCatalog.AssertNotCalled(t, "Create")
	})

	t.Run("Failure - Non-numeric price", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)

		req := newMultipartRequest(t, http.MethodPost, "/products", map[string]string{
			"name":     "Pen",
			"price":    "cheap",
			"stock":    "5",
			"category": "Office",
		}, true)
		rr := httptest.NewRecorder()

		// Act
		handler.CreateProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCatalog.AssertNotCalled(t, "Create")
	})

	t.Run("Failure - Missing photo rejected by the service", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)

		mockCatalog.On("Create", mock.Anything, mock.Anything, "").
			Return(nil, appErrors.ValidationError("Please add photo")).Once()

		req := newMultipartRequest(t, http.MethodPost, "/products", map[string]string{
			"name":     "Pen",
			"price":    "10.5",
			"stock":    "5",
			"category": "Office",
		}, false)
		rr := httptest.NewRecorder()

		// Act
		handler.CreateProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Please add photo")
	})
}

func TestUpdateProductHandler(t *testing.T) {
	t.Run("Success - Only supplied fields forwarded", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)
		id := uuid.New()

		mockCatalog.On("Update", mock.Anything, id, mock.MatchedBy(func(req *models.UpdateProductRequest) bool {
			return req.Price != nil && *req.Price == 12 && req.Name == nil && req.Stock == nil && req.Category == nil
		}), "").Return(&models.Product{ID: id, Name: "Pen", Price: 12}, nil).Once()

		req := newMultipartRequest(t, http.MethodPut, "/products/"+id.String(), map[string]string{
			"price": "12",
		}, false)
		req.SetPathValue("id", id.String())
		rr := httptest.NewRecorder()

		// Act
		handler.UpdateProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Product Updated Successfully")
		mockCatalog.AssertExpectations(t)
	})

	t.Run("Failure - Unknown id", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)
		id := uuid.New()

		mockCatalog.On("Update", mock.Anything, id, mock.Anything, mock.Anything).
			Return(nil, appErrors.NotFoundError("Product not found")).Once()

		req := newMultipartRequest(t, http.MethodPut, "/products/"+id.String(), map[string]string{
			"price": "12",
		}, false)
		req.SetPathValue("id", id.String())
		rr := httptest.NewRecorder()

		// Act
		handler.UpdateProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDeleteProductHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)
		id := uuid.New()

		mockCatalog.On("Delete", mock.Anything, id).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/products/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		rr := httptest.NewRecorder()

		// Act
		handler.DeleteProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Product Deleted Successfully")
		mockCatalog.AssertExpectations(t)
	})

	t.Run("Failure - Unknown id", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewProductHandler(mockCatalog)
		id := uuid.New()

		mockCatalog.On("Delete", mock.Anything, id).
			Return(appErrors.NotFoundError("Product not found")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/products/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		rr := httptest.NewRecorder()

		// Act
		handler.DeleteProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
