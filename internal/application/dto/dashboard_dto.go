package dto

// DashboardDTO respuesta de GET /api/dashboard.
// Ventas del mes en curso más un resumen de bodegas y existencias.
type DashboardDTO struct {
	Sales      SalesSummaryDTO       `json:"sales"`
	Warehouses []WarehouseSummaryDTO `json:"warehouses"`

	TotalUnits int    `json:"total_units"`
	DateLabel  string `json:"date_label"` // ej: "Octubre 2026"
}

// WarehouseSummaryDTO existencias agregadas de una bodega.
type WarehouseSummaryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	SKUs  int    `json:"skus"`
	Units int    `json:"units"`
	Error string `json:"error,omitempty"` // la bodega no pudo leerse; el resto del dashboard sigue
}
