package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating es la calificación que deja un cliente sobre un producto comprado
type Rating struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	UserName  string             `json:"user_name,omitempty" bson:"user_name,omitempty"`
	OrderID   primitive.ObjectID `json:"order_id" bson:"order_id"`
	Stars     int                `json:"stars" bson:"stars"`
	Comment   string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
