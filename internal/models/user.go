package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string             `bson:"role" json:"role"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type RefreshToken struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"userId" json:"userId"`
	TokenHash       string              `bson:"tokenHash" json:"tokenHash"`
	ExpiresAt       time.Time           `bson:"expiresAt" json:"expiresAt"`
	Revoked         bool                `bson:"revoked" json:"revoked"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	ReplacedByToken *primitive.ObjectID `bson:"replacedByToken,omitempty" json:"replacedByToken,omitempty"`
}
