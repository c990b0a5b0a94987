package dto

import "github.com/jhoicas/meli-sync-admin/internal/domain/entity"

// ProductListRequest filtros de GET /api/products.
type ProductListRequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=active paused closed under_review"`
	Search string `query:"q" validate:"omitempty,max=200"`
}

// ProductListResponse listado paginado de publicaciones.
type ProductListResponse struct {
	Items  []entity.Product `json:"items"`
	Page   PageResponse     `json:"page"`
	QueryMeta
}

// UpdateStockRequest entrada de PUT /api/products/:id/stock.
type UpdateStockRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}
