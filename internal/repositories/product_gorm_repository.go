package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"catalog/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create inserts a new product. The database assigns the id.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a single product by its id.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by id %d: %w", id, err)
	}
	return &product, nil
}

// GetAll retrieves one page of products regardless of active flag.
func (r *GORMProductRepository) GetAll(page, size int) ([]models.Product, int64, error) {
	return r.findPage(r.db.Model(&models.Product{}), page, size)
}

// GetByActive retrieves one page of products filtered by the active flag.
func (r *GORMProductRepository) GetByActive(active bool, page, size int) ([]models.Product, int64, error) {
	return r.findPage(r.db.Model(&models.Product{}).Where("active = ?", active), page, size)
}

// GetByCategory retrieves one page of products in a category, optionally
// restricted to active rows.
func (r *GORMProductRepository) GetByCategory(category models.Category, activeOnly bool, page, size int) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{}).Where("category = ?", category)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	return r.findPage(query, page, size)
}

// SearchByName retrieves one page of active products whose name contains the
// given substring, case-insensitively. The substring is matched literally, so
// % and _ in the search term are not LIKE wildcards.
func (r *GORMProductRepository) SearchByName(name string, page, size int) ([]models.Product, int64, error) {
	pattern := "%" + escapeLike(name) + "%"
	query := r.db.Model(&models.Product{}).
		Where(`lower(name) LIKE lower(?) ESCAPE '\'`, pattern).
		Where("active = ?", true)
	return r.findPage(query, page, size)
}

// escapeLike neutralizes LIKE pattern metacharacters in a search term.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// GetByPriceRange retrieves one page of active products priced within the
// inclusive [minPrice, maxPrice] bounds.
func (r *GORMProductRepository) GetByPriceRange(minPrice, maxPrice float64, page, size int) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{}).
		Where("price BETWEEN ? AND ?", minPrice, maxPrice).
		Where("active = ?", true)
	return r.findPage(query, page, size)
}

// CountAll returns the total number of product rows.
func (r *GORMProductRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// CountByActive returns the number of rows with the given active flag.
func (r *GORMProductRepository) CountByActive(active bool) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("active = ?", active).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products by active flag: %w", err)
	}
	return count, nil
}

// CountByCategory returns the number of rows in the given category.
func (r *GORMProductRepository) CountByCategory(category models.Category) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("category = ?", category).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products by category: %w", err)
	}
	return count, nil
}

// Update writes the full product row back as a single replace.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound for a missing row, so we
		// check RowsAffected.
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product row by its id.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ExistsByID reports whether a row with the given id exists.
func (r *GORMProductRepository) ExistsByID(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return count > 0, nil
}

// findPage runs the count plus the page fetch for an already-filtered query.
// Ordering is id ascending so results are stable across pages.
func (r *GORMProductRepository) findPage(query *gorm.DB, page, size int) ([]models.Product, int64, error) {
	// New session so the filtered query can be reused for both the count and
	// the page fetch.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * size
	var products []models.Product
	if err := query.Order("id ASC").Offset(offset).Limit(size).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products page: %w", err)
	}
	return products, total, nil
}
