package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// SalesListRequest filtros de GET /api/sales.
type SalesListRequest struct {
	PeriodRequest
	PageRequest
}

// SalesListResponse órdenes del período.
type SalesListResponse struct {
	Items  []entity.Sale `json:"items"`
	Page   PageResponse  `json:"page"`
	QueryMeta
}

// SalesSummaryDTO totales de ventas del período.
type SalesSummaryDTO struct {
	From      string                     `json:"from"`
	To        string                     `json:"to"`
	Orders    int                        `json:"orders"`
	Units     int                        `json:"units"`
	Revenue   map[string]decimal.Decimal `json:"revenue"` // por moneda
	TopItems  []TopItemDTO               `json:"top_items"`
	Truncated bool                       `json:"truncated"` // el período superó el máximo de órdenes leídas
}

// TopItemDTO publicación con más ingresos del período.
type TopItemDTO struct {
	ItemID   string          `json:"item_id"`
	SKU      string          `json:"sku"`
	Title    string          `json:"title"`
	Units    int             `json:"units"`
	Revenue  decimal.Decimal `json:"revenue"`
	Currency string          `json:"currency_id"`
}

// ShipmentListRequest filtros de GET /api/shipments.
type ShipmentListRequest struct {
	PeriodRequest
	Status string `query:"status" validate:"omitempty,max=50"`
}

// ShipmentListResponse envíos del período.
type ShipmentListResponse struct {
	Items    []entity.Shipment `json:"items"`
	ByStatus map[string]int    `json:"by_status"`
	QueryMeta
}
