package models

import (
	"teebox/src/types"

	"github.com/google/uuid"
)

// CheckoutSession is a priced, payment-authorized snapshot of a cart.
// A changed cart before payment creates a new row and marks the old one
// superseded; rows are never mutated into a different cart.
type CheckoutSession struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	UserID          uint                        `json:"user_id,omitempty"`
	CourseID        uint                        `json:"course_id,omitempty"`
	Cart            types.JSONB                 `gorm:"type:jsonb" json:"cart,omitempty"`
	Amount          int64                       `json:"amount,omitempty"`
	PaymentIntentId string                      `json:"-"`
	ClientSecret    string                      `json:"-"`
	Status          types.CheckoutSessionStatus `gorm:"default:'pending'" json:"status,omitempty"`

	User *User `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}
