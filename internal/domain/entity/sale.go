package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale orden de venta del marketplace.
type Sale struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date_created"`
	Status        string          `json:"status"`
	BuyerNickname string          `json:"buyer_nickname"`
	Items         []SaleItem      `json:"order_items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency_id"`
	ShippingID    string          `json:"shipping_id"`
}

// SaleItem línea de una orden.
type SaleItem struct {
	ItemID    string          `json:"item_id"`
	Title     string          `json:"title"`
	SKU       string          `json:"seller_sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Units total de unidades vendidas en la orden.
func (s Sale) Units() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}
