package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catalog/internal/handlers"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

// setupApp builds a Fiber app backed by a fresh in-memory SQLite database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))

	productRepo := repositories.NewGORMProductRepository(db)
	productService := services.NewProductService(productRepo)
	productHandler := handlers.NewProductHandler(productService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	return app
}

func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output.
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func createProduct(t *testing.T, app *fiber.App, body map[string]any) models.ProductResponse {
	t.Helper()
	resp, raw := doJSON(t, app, http.MethodPost, "/api/v1/products", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create failed: %s", raw)
	var created models.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	return created
}

func TestProductLifecycle(t *testing.T) {
	app := setupApp(t)

	// Create.
	created := createProduct(t, app, map[string]any{
		"name": "Pen", "price": 1.50, "stock": 100, "category": "OTHER",
	})
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "Pen", created.Name)
	assert.True(t, created.Active)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// Fetch by id.
	resp, raw := doJSON(t, app, http.MethodGet, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Name, fetched.Name)

	// Deactivate.
	resp, raw = doJSON(t, app, http.MethodPatch, "/api/v1/products/1/deactivate", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var deactivated models.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &deactivated))
	assert.False(t, deactivated.Active)
	assert.Equal(t, "Pen", deactivated.Name)

	// Active-only listing excludes the deactivated product.
	resp, raw = doJSON(t, app, http.MethodGet, "/api/v1/products?activeOnly=true", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page models.Page
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(0), page.TotalElements)

	// Unfiltered listing still shows it.
	resp, raw = doJSON(t, app, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Len(t, page.Content, 1)

	// Delete, then fetch returns 404.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errBody handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errBody))
	assert.Equal(t, http.StatusNotFound, errBody.Status)
	assert.Equal(t, "Not Found", errBody.Error)

	// Deleting again also returns 404.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateValidationErrors(t *testing.T) {
	app := setupApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{
		"name": "  ", "price": -2, "stock": 0, "category": "GADGETS",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errBody))
	assert.Equal(t, http.StatusBadRequest, errBody.Status)
	assert.Equal(t, "Validation Error", errBody.Error)
	assert.Contains(t, errBody.Errors, "name")
	assert.Contains(t, errBody.Errors, "price")
	assert.Contains(t, errBody.Errors, "stock")
	assert.Contains(t, errBody.Errors, "category")
}

func TestPartialUpdateMergesFields(t *testing.T) {
	app := setupApp(t)
	createProduct(t, app, map[string]any{
		"name": "Notebook", "description": "Ruled pages", "price": 4.00, "stock": 10, "category": "OTHER",
	})

	resp, raw := doJSON(t, app, http.MethodPut, "/api/v1/products/1", map[string]any{
		"price": 5.00,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, 5.00, updated.Price)
	assert.Equal(t, "Notebook", updated.Name)
	assert.Equal(t, "Ruled pages", updated.Description)
	assert.Equal(t, 10, updated.Stock)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	// Updating a missing product is a 404.
	resp, _ = doJSON(t, app, http.MethodPut, "/api/v1/products/99", map[string]any{"price": 5.00})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	app := setupApp(t)
	createProduct(t, app, map[string]any{"name": "Red Shoes", "price": 30.0, "stock": 3, "category": "SPORTS"})

	resp, raw := doJSON(t, app, http.MethodGet, "/api/v1/products/search?name=red", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page models.Page
	require.NoError(t, json.Unmarshal(raw, &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Red Shoes", page.Content[0].Name)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/v1/products/search?name=blue", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Empty(t, page.Content)

	// A missing name parameter is rejected.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/search", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPriceRangeBoundsAreInclusive(t *testing.T) {
	app := setupApp(t)
	createProduct(t, app, map[string]any{"name": "Low", "price": 10.0, "stock": 1, "category": "OTHER"})
	createProduct(t, app, map[string]any{"name": "High", "price": 20.0, "stock": 1, "category": "OTHER"})
	createProduct(t, app, map[string]any{"name": "Out", "price": 25.0, "stock": 1, "category": "OTHER"})

	resp, raw := doJSON(t, app, http.MethodGet, "/api/v1/products/price-range?minPrice=10&maxPrice=20", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page models.Page
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Equal(t, int64(2), page.TotalElements)

	// Inverted bounds are rejected rather than returning an empty page.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/price-range?minPrice=20&maxPrice=10", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListByCategory(t *testing.T) {
	app := setupApp(t)
	createProduct(t, app, map[string]any{"name": "Novel", "price": 12.0, "stock": 4, "category": "BOOKS"})
	createProduct(t, app, map[string]any{"name": "Shirt", "price": 25.0, "stock": 8, "category": "CLOTHING"})

	// Category matching in the path is case-insensitive.
	resp, raw := doJSON(t, app, http.MethodGet, "/api/v1/products/category/books", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page models.Page
	require.NoError(t, json.Unmarshal(raw, &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Novel", page.Content[0].Name)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/category/GADGETS", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListPaginationDefaults(t *testing.T) {
	app := setupApp(t)
	for i := 1; i <= 25; i++ {
		createProduct(t, app, map[string]any{"name": fmt.Sprintf("Item %d", i), "price": 1.0, "stock": 1, "category": "OTHER"})
	}

	resp, raw := doJSON(t, app, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page models.Page
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Len(t, page.Content, 20, "default page size is 20")
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, int64(25), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/v1/products?page=2&size=10", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Len(t, page.Content, 10)
	assert.Equal(t, "Item 11", page.Content[0].Name)

	// Out-of-range page parameters are rejected.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListRejectsMalformedActiveOnly(t *testing.T) {
	app := setupApp(t)
	createProduct(t, app, map[string]any{"name": "Novel", "price": 12.0, "stock": 4, "category": "BOOKS"})

	resp, raw := doJSON(t, app, http.MethodGet, "/api/v1/products?activeOnly=yes", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body.Message, "activeOnly")

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products?activeOnly=true", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatsEndpoint(t *testing.T) {
	app := setupApp(t)
	createProduct(t, app, map[string]any{"name": "Novel", "price": 12.0, "stock": 4, "category": "BOOKS"})
	createProduct(t, app, map[string]any{"name": "Poems", "price": 8.0, "stock": 2, "category": "BOOKS"})
	createProduct(t, app, map[string]any{"name": "Apple", "price": 0.5, "stock": 50, "category": "FOOD", "active": false})

	resp, raw := doJSON(t, app, http.MethodGet, "/api/v1/products/stats", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats models.ProductStats
	require.NoError(t, json.Unmarshal(raw, &stats))
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.ActiveProducts)
	assert.Equal(t, int64(1), stats.InactiveProducts)
	assert.Equal(t, int64(2), stats.CategoryStats[models.CategoryBooks])
	assert.Equal(t, int64(1), stats.CategoryStats[models.CategoryFood])
	assert.Len(t, stats.CategoryStats, len(models.AllCategories()))
}

func TestInvalidIDIsBadRequest(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
