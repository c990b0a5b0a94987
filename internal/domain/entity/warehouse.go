package entity

// Warehouse bodega del vendedor registrada en el backend.
type Warehouse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}
