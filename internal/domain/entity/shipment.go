package entity

import "time"

// Shipment envío asociado a una orden.
type Shipment struct {
	ID                string     `json:"id"`
	OrderID           string     `json:"order_id"`
	Status            string     `json:"status"`
	Substatus         string     `json:"substatus"`
	TrackingNumber    string     `json:"tracking_number"`
	Carrier           string     `json:"carrier"`
	CreatedAt         time.Time  `json:"date_created"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ReceiverCity      string     `json:"receiver_city"`
}
