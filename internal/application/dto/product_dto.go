package dto

import "time"

// UpsertProductRequest body para PUT /api/catalog/products.
type UpsertProductRequest struct {
	Code        string `json:"code" validate:"required,max=60"`
	Description string `json:"description" validate:"required,max=500"`
}

// ProductResponse producto del catálogo.
type ProductResponse struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductListResponse página del catálogo.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
