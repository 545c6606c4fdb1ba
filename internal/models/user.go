package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered ChatUp account.
// The password field holds a bcrypt hash and is never serialized to JSON.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name" validate:"required"`
	Email                string             `bson:"email" json:"email" validate:"required,email"`
	Password             string             `bson:"password" json:"-" validate:"required"`
	EmailVerified        bool               `bson:"email_verified" json:"email_verified"`
	VerificationToken    string             `bson:"verification_token,omitempty" json:"-"`
	ResetPasswordToken   string             `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpires int64              `bson:"reset_password_expires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}
