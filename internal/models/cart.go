package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart es el carrito persistido de un usuario; hay uno por usuario
type Cart struct {
	UserID    primitive.ObjectID `json:"user_id" bson:"_id"`
	Items     []CartItem         `json:"items" bson:"items"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type CartItem struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	Quantity  int64              `json:"quantity" bson:"quantity"`
}

// ItemIndex devuelve la posición del producto en el carrito o -1
func (c *Cart) ItemIndex(productID primitive.ObjectID) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// CartLine es una línea del carrito con los datos actuales del producto
type CartLine struct {
	ProductID         primitive.ObjectID `json:"product_id"`
	SKU               string             `json:"sku,omitempty"`
	Name              string             `json:"name,omitempty"`
	Unit              string             `json:"unit,omitempty"`
	Image             string             `json:"image,omitempty"`
	PriceIDR          int64              `json:"price_idr"`
	Quantity          int64              `json:"quantity"`
	Stock             int64              `json:"stock"`
	Subtotal          int64              `json:"subtotal"`
	Unavailable       bool               `json:"unavailable,omitempty"`
	InsufficientStock bool               `json:"insufficient_stock,omitempty"`
}

// CartView es el carrito calculado que se muestra en la página de checkout
type CartView struct {
	Lines       []CartLine `json:"lines"`
	ItemCount   int64      `json:"item_count"`
	Subtotal    int64      `json:"subtotal"`
	ShippingFee int64      `json:"shipping_fee"`
	Total       int64      `json:"total"`
	Display     Display    `json:"display"`
}

// Display lleva montos ya formateados para el idioma de la petición
type Display map[string]string
