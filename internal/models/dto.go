package models

import "time"

// CreateProductRequest is the payload for creating a product. Active is a
// pointer so that an absent field defaults to true rather than false.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"notblank,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Price       float64  `json:"price" validate:"gt=0"`
	Stock       int      `json:"stock" validate:"gt=0"` // TODO: gt=0 makes zero-stock products unrepresentable; relax to gte=0 once the policy is confirmed
	Category    Category `json:"category" validate:"category"`
	Active      *bool    `json:"active"`
}

// UpdateProductRequest carries a partial update: nil fields keep their
// current values, non-nil fields overwrite.
type UpdateProductRequest struct {
	Name        *string   `json:"name" validate:"omitempty,notblank,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Price       *float64  `json:"price" validate:"omitempty,gt=0"`
	Stock       *int      `json:"stock" validate:"omitempty,gt=0"`
	Category    *Category `json:"category" validate:"omitempty,category"`
	Active      *bool     `json:"active"`
}

// ProductResponse is the full field projection of a product.
type ProductResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    Category  `json:"category"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductStats aggregates row counts. CategoryStats always contains every
// category, with zero for categories that have no rows.
type ProductStats struct {
	TotalProducts    int64              `json:"totalProducts"`
	ActiveProducts   int64              `json:"activeProducts"`
	InactiveProducts int64              `json:"inactiveProducts"`
	CategoryStats    map[Category]int64 `json:"categoryStats"`
}
