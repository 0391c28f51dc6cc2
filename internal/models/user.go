package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User es una cuenta de cliente o administrador
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	Name         string             `json:"name" bson:"name"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address      string             `json:"address,omitempty" bson:"address,omitempty"`
	Role         string             `json:"role" bson:"role"`
	Locale       string             `json:"locale,omitempty" bson:"locale,omitempty"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsAdmin indica si el usuario puede usar el back-office
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ProfileUpdate son los campos que el cliente puede editar de su cuenta
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Phone   *string `json:"phone,omitempty" binding:"omitempty,idphone"`
	Address *string `json:"address,omitempty" binding:"omitempty,max=500"`
	Locale  *string `json:"locale,omitempty" binding:"omitempty,oneof=id en"`
}

// Session es una sesión de login; TokenHash nunca guarda el token en claro
type Session struct {
	TokenHash string             `json:"-" bson:"_id"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time          `json:"expires_at" bson:"expires_at"`
}

// Expired indica si la sesión ya venció en el instante now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
