package repositories

import (
	"sort"
	"strings"
	"sync"

	"catalog/internal/models"
)

// MemoryProductRepository is an in-memory implementation of
// ProductRepository. It is used when the service runs without a database and
// by tests that do not need SQL.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[uint]models.Product
	nextID   uint
}

// NewMemoryProductRepository creates a new instance of
// MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// Create adds a new product, assigning the next id.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = *product
	return nil
}

// GetByID returns a product by its id.
func (r *MemoryProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// GetAll returns one page of products regardless of active flag.
func (r *MemoryProductRepository) GetAll(page, size int) ([]models.Product, int64, error) {
	return r.page(func(models.Product) bool { return true }, page, size)
}

// GetByActive returns one page of products filtered by the active flag.
func (r *MemoryProductRepository) GetByActive(active bool, page, size int) ([]models.Product, int64, error) {
	return r.page(func(p models.Product) bool { return p.Active == active }, page, size)
}

// GetByCategory returns one page of products in a category, optionally
// restricted to active rows.
func (r *MemoryProductRepository) GetByCategory(category models.Category, activeOnly bool, page, size int) ([]models.Product, int64, error) {
	return r.page(func(p models.Product) bool {
		if p.Category != category {
			return false
		}
		return !activeOnly || p.Active
	}, page, size)
}

// SearchByName returns one page of active products whose name contains the
// substring, case-insensitively.
func (r *MemoryProductRepository) SearchByName(name string, page, size int) ([]models.Product, int64, error) {
	needle := strings.ToLower(name)
	return r.page(func(p models.Product) bool {
		return p.Active && strings.Contains(strings.ToLower(p.Name), needle)
	}, page, size)
}

// GetByPriceRange returns one page of active products priced within the
// inclusive bounds.
func (r *MemoryProductRepository) GetByPriceRange(minPrice, maxPrice float64, page, size int) ([]models.Product, int64, error) {
	return r.page(func(p models.Product) bool {
		return p.Active && p.Price >= minPrice && p.Price <= maxPrice
	}, page, size)
}

// CountAll returns the total number of products.
func (r *MemoryProductRepository) CountAll() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

// CountByActive returns the number of products with the given active flag.
func (r *MemoryProductRepository) CountByActive(active bool) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.products {
		if p.Active == active {
			count++
		}
	}
	return count, nil
}

// CountByCategory returns the number of products in the given category.
func (r *MemoryProductRepository) CountByCategory(category models.Category) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.products {
		if p.Category == category {
			count++
		}
	}
	return count, nil
}

// Update replaces an existing product row.
func (r *MemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return ErrProductNotFound
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its id.
func (r *MemoryProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// ExistsByID reports whether a product with the given id exists.
func (r *MemoryProductRepository) ExistsByID(id uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}

// page filters, sorts by id ascending and slices out the requested page.
func (r *MemoryProductRepository) page(match func(models.Product) bool, page, size int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if match(p) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := (page - 1) * size
	if start >= len(matched) {
		return []models.Product{}, total, nil
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
