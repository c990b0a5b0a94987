package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExportLog registro de un reporte exportado.
type ExportLog struct {
	ID          string
	UserID      string
	ClientID    string
	Report      string
	Format      string
	Rows        int
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}
