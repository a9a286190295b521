package handlers

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/apperrors"
	"catalog/internal/models"
	"catalog/internal/services"
)

const defaultPageSize = 20

// ErrorResponse is the error body shape shared by all endpoints. Errors is
// only present for validation failures.
type ErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Static
// segments are registered before /:id so they are not captured as ids.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/stats", h.HandleStats)
	productRoutes.Get("/search", h.HandleSearch)
	productRoutes.Get("/price-range", h.HandlePriceRange)
	productRoutes.Get("/category/:category", h.HandleListByCategory)
	productRoutes.Get("/:id", h.HandleGetByID)
	productRoutes.Put("/:id", h.HandleUpdate)
	productRoutes.Delete("/:id", h.HandleDelete)
	productRoutes.Patch("/:id/deactivate", h.HandleDeactivate)
}

// HandleCreate creates a new product.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.InvalidArgument("invalid request body").WithCause(err))
	}

	created, err := h.service.Create(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleGetByID retrieves a single product by its id.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	product, err := h.service.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleList retrieves one page of products. With activeOnly=true only
// active products are returned.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	page, size := pageParams(c)
	activeOnly, err := parseActiveOnly(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.service.ListAll(page, size, activeOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleListByCategory retrieves one page of active products in a category.
func (h *ProductHandler) HandleListByCategory(c *fiber.Ctx) error {
	category, err := models.ParseCategory(c.Params("category"))
	if err != nil {
		return respondError(c, apperrors.InvalidArgument(err.Error()))
	}
	page, size := pageParams(c)

	result, err := h.service.ListByCategory(category, page, size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleSearch retrieves one page of active products whose name contains the
// given substring.
func (h *ProductHandler) HandleSearch(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return respondError(c, apperrors.InvalidArgument("name query parameter is required"))
	}
	page, size := pageParams(c)

	result, err := h.service.SearchByName(name, page, size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandlePriceRange retrieves one page of active products priced within the
// inclusive [minPrice, maxPrice] bounds.
func (h *ProductHandler) HandlePriceRange(c *fiber.Ctx) error {
	minPrice, err := parsePrice(c, "minPrice")
	if err != nil {
		return respondError(c, err)
	}
	maxPrice, err := parsePrice(c, "maxPrice")
	if err != nil {
		return respondError(c, err)
	}
	page, size := pageParams(c)

	result, err := h.service.ListByPriceRange(minPrice, maxPrice, page, size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleUpdate applies a partial update to an existing product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.InvalidArgument("invalid request body").WithCause(err))
	}

	updated, err := h.service.Update(id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// HandleDeactivate soft-deactivates a product.
func (h *ProductHandler) HandleDeactivate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	deactivated, err := h.service.Deactivate(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(deactivated)
}

// HandleDelete hard-deletes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.service.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleStats returns aggregate product counts.
func (h *ProductHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, apperrors.InvalidArgument(fmt.Sprintf("invalid product id: %s", c.Params("id")))
	}
	return uint(id), nil
}

func parsePrice(c *fiber.Ctx, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, apperrors.InvalidArgument(fmt.Sprintf("%s query parameter is required", key))
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.InvalidArgument(fmt.Sprintf("invalid %s: %s", key, raw))
	}
	return value, nil
}

func pageParams(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("size", defaultPageSize)
}

func parseActiveOnly(c *fiber.Ctx) (bool, error) {
	raw := c.Query("activeOnly")
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.InvalidArgument(fmt.Sprintf("invalid activeOnly: %s", raw))
	}
	return value, nil
}

// respondError maps a domain error onto the error body shape. Unanticipated
// errors become a generic 500 with the cause logged, never leaked.
func respondError(c *fiber.Ctx, err error) error {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal("an unexpected error occurred").WithCause(err)
	}
	if appErr.Status == fiber.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), appErr.Unwrap())
	}

	return c.Status(appErr.Status).JSON(ErrorResponse{
		Timestamp: time.Now(),
		Status:    appErr.Status,
		Error:     appErr.ErrorLabel,
		Message:   appErr.Message,
		Errors:    appErr.FieldErrors,
	})
}
