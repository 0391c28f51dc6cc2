package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusCompleted},
}

// Valid indica si el estado es uno de los conocidos
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo indica si el pedido puede pasar de s a next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CountsAsSale indica si el pedido entra en los reportes de ventas
func (s OrderStatus) CountsAsSale() bool {
	switch s {
	case OrderStatusPaid, OrderStatusProcessing, OrderStatusShipped, OrderStatusCompleted:
		return true
	}
	return false
}

// Order es un pedido con una foto de precios tomada en el checkout
type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Number          string             `json:"number" bson:"number"`
	UserID          primitive.ObjectID `json:"user_id" bson:"user_id"`
	Items           []OrderItem        `json:"items" bson:"items"`
	Subtotal        int64              `json:"subtotal" bson:"subtotal"`
	ShippingFee     int64              `json:"shipping_fee" bson:"shipping_fee"`
	Total           int64              `json:"total" bson:"total"`
	Status          OrderStatus        `json:"status" bson:"status"`
	ShippingAddress string             `json:"shipping_address" bson:"shipping_address"`
	Phone           string             `json:"phone" bson:"phone"`
	Note            string             `json:"note,omitempty" bson:"note,omitempty"`
	StatusHistory   []StatusChange     `json:"status_history" bson:"status_history"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

type OrderItem struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	SKU       string             `json:"sku" bson:"sku"`
	Name      string             `json:"name" bson:"name"`
	Unit      string             `json:"unit" bson:"unit"`
	PriceIDR  int64              `json:"price_idr" bson:"price_idr"`
	Quantity  int64              `json:"quantity" bson:"quantity"`
	Subtotal  int64              `json:"subtotal" bson:"subtotal"`
}

type StatusChange struct {
	Status OrderStatus `json:"status" bson:"status"`
	At     time.Time   `json:"at" bson:"at"`
	By     string      `json:"by,omitempty" bson:"by,omitempty"`
}

// HasProduct indica si el pedido contiene el producto
func (o *Order) HasProduct(productID primitive.ObjectID) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// OrderQuery son los filtros del listado de pedidos
type OrderQuery struct {
	UserID   *primitive.ObjectID
	Status   OrderStatus
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}
