package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"catalog/internal/apperrors"
	"catalog/internal/mappers"
	"catalog/internal/models"
	"catalog/internal/repositories"
)

// ProductService handles business logic related to products: request
// validation, partial-update merge semantics, timestamp assignment and
// aggregate statistics.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewProductService creates a new ProductService using the wall clock.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return NewProductServiceWithClock(repo, time.Now)
}

// NewProductServiceWithClock creates a ProductService with an injectable
// clock, so timestamp assignment is testable.
func NewProductServiceWithClock(repo repositories.ProductRepository, now func() time.Time) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: newValidator(),
		now:      now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// validator's required tag accepts all-whitespace strings, so names need
	// their own check.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		candidate := models.Category(fl.Field().String())
		for _, c := range models.AllCategories() {
			if candidate == c {
				return true
			}
		}
		return false
	})
	return v
}

// Create validates the request, builds the entity with fresh timestamps and
// persists it.
func (s *ProductService) Create(req *models.CreateProductRequest) (*models.ProductResponse, error) {
	if err := s.checkStruct(req); err != nil {
		return nil, err
	}

	product := mappers.ToProduct(req)
	now := s.now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.repo.Create(&product); err != nil {
		return nil, apperrors.Internal("could not create product").WithCause(err)
	}

	resp := mappers.ToResponse(&product)
	return &resp, nil
}

// GetByID returns the product with the given id.
func (s *ProductService) GetByID(id uint) (*models.ProductResponse, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, s.wrapLookupErr(id, err)
	}
	resp := mappers.ToResponse(product)
	return &resp, nil
}

// ListAll returns one page of all products, or only the active ones when
// activeOnly is set.
func (s *ProductService) ListAll(page, size int, activeOnly bool) (*models.Page, error) {
	if err := checkPage(page, size); err != nil {
		return nil, err
	}

	var (
		products []models.Product
		total    int64
		err      error
	)
	if activeOnly {
		products, total, err = s.repo.GetByActive(true, page, size)
	} else {
		products, total, err = s.repo.GetAll(page, size)
	}
	if err != nil {
		return nil, apperrors.Internal("could not list products").WithCause(err)
	}
	return models.NewPage(mappers.ToResponses(products), page, size, total), nil
}

// ListByCategory returns one page of active products in the given category.
func (s *ProductService) ListByCategory(category models.Category, page, size int) (*models.Page, error) {
	if err := checkPage(page, size); err != nil {
		return nil, err
	}

	products, total, err := s.repo.GetByCategory(category, true, page, size)
	if err != nil {
		return nil, apperrors.Internal("could not list products by category").WithCause(err)
	}
	return models.NewPage(mappers.ToResponses(products), page, size, total), nil
}

// SearchByName returns one page of active products whose name contains the
// given substring, case-insensitively.
func (s *ProductService) SearchByName(name string, page, size int) (*models.Page, error) {
	if err := checkPage(page, size); err != nil {
		return nil, err
	}

	products, total, err := s.repo.SearchByName(name, page, size)
	if err != nil {
		return nil, apperrors.Internal("could not search products").WithCause(err)
	}
	return models.NewPage(mappers.ToResponses(products), page, size, total), nil
}

// ListByPriceRange returns one page of active products priced within the
// inclusive [minPrice, maxPrice] bounds.
func (s *ProductService) ListByPriceRange(minPrice, maxPrice float64, page, size int) (*models.Page, error) {
	if err := checkPage(page, size); err != nil {
		return nil, err
	}
	if minPrice < 0 {
		return nil, apperrors.InvalidArgument("minPrice must not be negative")
	}
	if minPrice > maxPrice {
		return nil, apperrors.InvalidArgument("minPrice must not exceed maxPrice")
	}

	products, total, err := s.repo.GetByPriceRange(minPrice, maxPrice, page, size)
	if err != nil {
		return nil, apperrors.Internal("could not list products by price range").WithCause(err)
	}
	return models.NewPage(mappers.ToResponses(products), page, size, total), nil
}

// Update applies a partial update: fields present in the request overwrite
// the current values, absent fields are kept. The updated state is built from
// a copy of the current row and written back as a single replace. UpdatedAt
// is always refreshed, even when no field changed.
func (s *ProductService) Update(id uint, req *models.UpdateProductRequest) (*models.ProductResponse, error) {
	if err := s.checkStruct(req); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(id)
	if err != nil {
		return nil, s.wrapLookupErr(id, err)
	}

	updated := *current
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Price != nil {
		updated.Price = *req.Price
	}
	if req.Stock != nil {
		updated.Stock = *req.Stock
	}
	if req.Category != nil {
		updated.Category = *req.Category
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}
	updated.UpdatedAt = s.now()

	if err := s.repo.Update(&updated); err != nil {
		return nil, s.wrapLookupErr(id, err)
	}

	resp := mappers.ToResponse(&updated)
	return &resp, nil
}

// Deactivate soft-deactivates a product, leaving every other field
// unchanged. Deactivating twice is idempotent.
func (s *ProductService) Deactivate(id uint) (*models.ProductResponse, error) {
	inactive := false
	return s.Update(id, &models.UpdateProductRequest{Active: &inactive})
}

// Delete hard-deletes a product. Existence is checked first so a missing id
// yields NotFound rather than a silent no-op.
func (s *ProductService) Delete(id uint) error {
	exists, err := s.repo.ExistsByID(id)
	if err != nil {
		return apperrors.Internal("could not delete product").WithCause(err)
	}
	if !exists {
		return apperrors.NotFound(fmt.Sprintf("product with id %d not found", id))
	}

	if err := s.repo.Delete(id); err != nil {
		return s.wrapLookupErr(id, err)
	}
	return nil
}

// Stats returns total/active/inactive counts plus a per-category count map
// covering every category, zeros included.
func (s *ProductService) Stats() (*models.ProductStats, error) {
	total, err := s.repo.CountAll()
	if err != nil {
		return nil, apperrors.Internal("could not compute product stats").WithCause(err)
	}
	active, err := s.repo.CountByActive(true)
	if err != nil {
		return nil, apperrors.Internal("could not compute product stats").WithCause(err)
	}

	categoryStats := make(map[models.Category]int64, len(models.AllCategories()))
	for _, category := range models.AllCategories() {
		count, err := s.repo.CountByCategory(category)
		if err != nil {
			return nil, apperrors.Internal("could not compute product stats").WithCause(err)
		}
		categoryStats[category] = count
	}

	return &models.ProductStats{
		TotalProducts:    total,
		ActiveProducts:   active,
		InactiveProducts: total - active,
		CategoryStats:    categoryStats,
	}, nil
}

// checkStruct runs struct validation and converts validator field errors
// into a per-field message map.
func (s *ProductService) checkStruct(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.Internal("could not validate request").WithCause(err)
	}

	fieldErrors := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors[fieldName(fe)] = fieldMessage(fe)
	}
	return apperrors.Validation("validation failed", fieldErrors)
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "category":
		return "must be one of the known categories"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

func checkPage(page, size int) error {
	if page < 1 {
		return apperrors.InvalidArgument("page must be at least 1")
	}
	if size < 1 {
		return apperrors.InvalidArgument("size must be at least 1")
	}
	return nil
}

func (s *ProductService) wrapLookupErr(id uint, err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return apperrors.NotFound(fmt.Sprintf("product with id %d not found", id))
	}
	return apperrors.Internal("could not access product storage").WithCause(err)
}
