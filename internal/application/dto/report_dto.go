package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRequest parámetros de GET /api/reports/:report.
type ReportRequest struct {
	PeriodRequest
	Format    string `query:"format" validate:"omitempty,oneof=pdf xlsx csv"`
	Warehouse string `query:"warehouse" validate:"omitempty,max=100"`
	Status    string `query:"status" validate:"omitempty,max=50"`
	Search    string `query:"q" validate:"omitempty,max=200"`
}

// ExportLogResponse entrada del historial de exportaciones.
type ExportLogResponse struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	Report      string          `json:"report"`
	Format      string          `json:"format"`
	Rows        int             `json:"rows"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}
