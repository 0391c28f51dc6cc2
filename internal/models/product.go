package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Unidades de venta permitidas para un producto
const (
	UnitMeter = "meter"
	UnitYard  = "yard"
	UnitRoll  = "roll"
	UnitPcs   = "pcs"
)

// ValidUnit indica si la unidad de venta es aceptada
func ValidUnit(u string) bool {
	switch u {
	case UnitMeter, UnitYard, UnitRoll, UnitPcs:
		return true
	}
	return false
}

// Product representa una tela (o accesorio) del catálogo
type Product struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SKU           string             `json:"sku" bson:"sku" binding:"required"`
	Name          string             `json:"name" bson:"name" binding:"required"`
	NameEN        string             `json:"name_en,omitempty" bson:"name_en,omitempty"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	DescriptionEN string             `json:"description_en,omitempty" bson:"description_en,omitempty"`
	Category      string             `json:"category" bson:"category" binding:"required"`
	Material      string             `json:"material,omitempty" bson:"material,omitempty"`
	Color         string             `json:"color,omitempty" bson:"color,omitempty"`
	Unit          string             `json:"unit" bson:"unit"`
	PriceIDR      int64              `json:"price_idr" bson:"price_idr"`
	Stock         int64              `json:"stock" bson:"stock"`
	Images        []string           `json:"images,omitempty" bson:"images,omitempty"`
	Attributes    map[string]string  `json:"attributes,omitempty" bson:"attributes,omitempty"`
	IsActive      bool               `json:"is_active" bson:"is_active"`
	IsDeleted     bool               `json:"-" bson:"is_deleted"`
	RatingAvg     float64            `json:"rating_avg" bson:"rating_avg"`
	RatingCount   int64              `json:"rating_count" bson:"rating_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// Available indica si el producto se puede vender
func (p *Product) Available() bool {
	return p != nil && p.IsActive && !p.IsDeleted
}

// LocalizedName devuelve el nombre en inglés cuando existe y se pide "en"
func (p *Product) LocalizedName(locale string) string {
	if locale == "en" && p.NameEN != "" {
		return p.NameEN
	}
	return p.Name
}

// ProductUpdate representa los campos actualizables de un producto
type ProductUpdate struct {
	Name          *string           `json:"name,omitempty"`
	NameEN        *string           `json:"name_en,omitempty"`
	Description   *string           `json:"description,omitempty"`
	DescriptionEN *string           `json:"description_en,omitempty"`
	Category      *string           `json:"category,omitempty"`
	Material      *string           `json:"material,omitempty"`
	Color         *string           `json:"color,omitempty"`
	Unit          *string           `json:"unit,omitempty"`
	PriceIDR      *int64            `json:"price_idr,omitempty"`
	Images        []string          `json:"images,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	IsActive      *bool             `json:"is_active,omitempty"`
}

// NextRatingAverage calcula el promedio incremental al sumar una calificación
func NextRatingAverage(avg float64, count int64, stars int) float64 {
	return (avg*float64(count) + float64(stars)) / float64(count+1)
}
