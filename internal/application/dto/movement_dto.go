package dto

import "github.com/jhoicas/meli-sync-admin/internal/domain/entity"

// PeriodRequest rango de fechas YYYY-MM-DD (ambos extremos inclusivos).
type PeriodRequest struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// MovementListRequest filtros de recepciones y despachos.
type MovementListRequest struct {
	PeriodRequest
	StockFilter
}

// MovementListResponse recepciones o despachos del período.
type MovementListResponse struct {
	Kind       string                 `json:"kind"`
	Items      []entity.StockMovement `json:"items"`
	Page       PageResponse           `json:"page"`
	TotalUnits int                    `json:"total_units"`
	QueryMeta
}
