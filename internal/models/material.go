package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PurchasedMaterial es una compra de materia prima para el almacén.
// Quantity se guarda normalizada, p. ej. "12.5 meter".
type PurchasedMaterial struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	NameKey     string             `json:"-" bson:"name_key"`
	Supplier    string             `json:"supplier,omitempty" bson:"supplier,omitempty"`
	Quantity    string             `json:"quantity" bson:"quantity"`
	PriceIDR    int64              `json:"price_idr" bson:"price_idr"`
	PurchasedAt time.Time          `json:"purchased_at" bson:"purchased_at"`
	Note        string             `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// UsedMaterial es un consumo de materia prima en producción
type UsedMaterial struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	NameKey   string             `json:"-" bson:"name_key"`
	Quantity  string             `json:"quantity" bson:"quantity"`
	UsedFor   string             `json:"used_for,omitempty" bson:"used_for,omitempty"`
	UsedAt    time.Time          `json:"used_at" bson:"used_at"`
	Note      string             `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// MaterialStock es una fila de la tabla de stock derivada (compras - usos).
// Las cantidades son decimales serializados como texto.
type MaterialStock struct {
	Name      string    `json:"name" bson:"name"`
	NameKey   string    `json:"-" bson:"name_key"`
	Unit      string    `json:"unit" bson:"unit"`
	Purchased string    `json:"purchased" bson:"purchased"`
	Used      string    `json:"used" bson:"used"`
	Available string    `json:"available" bson:"available"`
	Deficit   bool      `json:"deficit,omitempty" bson:"deficit"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
