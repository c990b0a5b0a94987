package entity

import "github.com/shopspring/decimal"

// Estados de publicación del marketplace.
const (
	ProductActive      = "active"
	ProductPaused      = "paused"
	ProductClosed      = "closed"
	ProductUnderReview = "under_review"
)

// Product publicación del vendedor en el marketplace, tal como la entrega el backend.
type Product struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	SKU               string          `json:"seller_sku"`
	Price             decimal.Decimal `json:"price"`
	Currency          string          `json:"currency_id"`
	AvailableQuantity int             `json:"available_quantity"`
	SoldQuantity      int             `json:"sold_quantity"`
	Status            string          `json:"status"`
	CategoryID        string          `json:"category_id"`
	Permalink         string          `json:"permalink"`
	Thumbnail         string          `json:"thumbnail"`
}
