package entity

import "time"

// StockRecord existencia de un SKU en una bodega.
type StockRecord struct {
	SKU         string    `json:"sku"`
	ProductID   string    `json:"product_id"`
	Title       string    `json:"title"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int       `json:"quantity"`
	Reserved    int       `json:"reserved"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Available cantidad disponible descontando lo reservado.
func (s StockRecord) Available() int {
	if s.Reserved > s.Quantity {
		return 0
	}
	return s.Quantity - s.Reserved
}
