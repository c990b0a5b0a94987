package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementReception = "recepcion" // entrada a bodega
	MovementDespacho  = "despacho"  // salida de bodega
)

// StockMovement recepción o despacho de inventario informado por el backend.
type StockMovement struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	SKU         string    `json:"sku"`
	Title       string    `json:"title"`
	Quantity    int       `json:"quantity"`
	WarehouseID string    `json:"warehouse_id"`
	Reference   string    `json:"reference"`
	Date        time.Time `json:"date"`
}
