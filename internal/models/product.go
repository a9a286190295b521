package models

import (
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of product categories. Anything outside this
// set is rejected at the boundary.
type Category string

const (
	CategoryElectronics Category = "ELECTRONICS"
	CategoryClothing    Category = "CLOTHING"
	CategoryFood        Category = "FOOD"
	CategoryBooks       Category = "BOOKS"
	CategoryHome        Category = "HOME"
	CategorySports      Category = "SPORTS"
	CategoryOther       Category = "OTHER"
)

// AllCategories returns every valid category, in declaration order.
func AllCategories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryClothing,
		CategoryFood,
		CategoryBooks,
		CategoryHome,
		CategorySports,
		CategoryOther,
	}
}

// ParseCategory matches a category name case-insensitively and returns the
// canonical uppercase constant.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range AllCategories() {
		if c == valid {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category: %s", s)
}

// Product represents a catalog product row. The service assigns timestamps
// explicitly at create/update time; GORM only assigns the ID on insert.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:varchar(500)"`
	Price       float64   `json:"price" gorm:"not null"`
	Stock       int       `json:"stock" gorm:"not null"`
	Category    Category  `json:"category" gorm:"type:varchar(20);not null"`
	// No column default: the mapper applies the defaults-true rule, and a
	// default tag would make GORM omit Active=false from inserts.
	Active bool `json:"active" gorm:"not null"`
	// Auto time tracking is off: the service owns timestamp assignment so
	// it stays deterministic under an injected clock.
	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null;autoUpdateTime:false"`
}
