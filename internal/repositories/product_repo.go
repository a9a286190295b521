package repositories

import (
	"errors"

	"catalog/internal/models"
)

// ErrProductNotFound is returned by lookups and mutations that target an id
// with no matching row.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access. All paged
// fetches return the page slice plus the total row count for the same filter,
// ordered by id ascending (insertion order). Pages are 1-based.
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetAll(page, size int) ([]models.Product, int64, error)
	GetByActive(active bool, page, size int) ([]models.Product, int64, error)
	GetByCategory(category models.Category, activeOnly bool, page, size int) ([]models.Product, int64, error)
	SearchByName(name string, page, size int) ([]models.Product, int64, error)
	GetByPriceRange(minPrice, maxPrice float64, page, size int) ([]models.Product, int64, error)
	CountAll() (int64, error)
	CountByActive(active bool) (int64, error)
	CountByCategory(category models.Category) (int64, error)
	Update(product *models.Product) error
	Delete(id uint) error
	ExistsByID(id uint) (bool, error)
}
