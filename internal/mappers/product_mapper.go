// Package mappers holds the pure conversions between requests, entities and
// response representations. No validation, no side effects; the service owns
// id and timestamp assignment.
package mappers

import "catalog/internal/models"

// ToProduct builds a new Product from a creation request. Active defaults to
// true when absent. ID and timestamps are left zero for the caller to assign.
func ToProduct(req *models.CreateProductRequest) models.Product {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Active:      active,
	}
}

// ToResponse projects a Product onto its response representation, 1:1.
func ToResponse(p *models.Product) models.ProductResponse {
	return models.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToResponses maps a slice of rows. Always returns a non-nil slice so paged
// results serialize as [] rather than null.
func ToResponses(products []models.Product) []models.ProductResponse {
	responses := make([]models.ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToResponse(&products[i]))
	}
	return responses
}
