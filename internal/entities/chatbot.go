package entities

import "time"

type DeliveryOption struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Time  string `json:"time"`
}

type Chatbot struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	BusinessID      string           `json:"businessId"`
	TemplateKey     string           `json:"templateKey"`
	MLEnabled       bool             `json:"mlEnabled"`
	PaymentMethods  []string         `json:"paymentMethods"`
	DeliveryOptions []DeliveryOption `json:"deliveryOptions"`
	CreatedAt       time.Time        `json:"createdAt"`
	Business        *Business        `json:"business,omitempty"` // populated by owner-scoped listings
}
