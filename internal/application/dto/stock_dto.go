package dto

import "github.com/jhoicas/meli-sync-admin/internal/domain/entity"

// StockFilter filtro en memoria por SKU/título y paginación sobre los arreglos del backend.
type StockFilter struct {
	PageRequest
	Search string `query:"q" validate:"omitempty,max=200"`
}

// WarehouseStockResponse existencias de una bodega.
type WarehouseStockResponse struct {
	WarehouseID string               `json:"warehouse_id"`
	Items       []entity.StockRecord `json:"items"`
	Page        PageResponse         `json:"page"`
	TotalUnits  int                  `json:"total_units"`
	QueryMeta
}

// WarehouseListResponse bodegas del vendedor.
type WarehouseListResponse struct {
	Items  []entity.Warehouse `json:"items"`
	QueryMeta
}
