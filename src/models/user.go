package models

import "teebox/src/types"

type User struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	Name             string  `json:"name,omitempty"`
	Email            string  `json:"email,omitempty"`
	UID              string  `json:"uid,omitempty"`
	StripeCustomerId *string `json:"-"`

	Bids []Bid `gorm:"foreignKey:user_id" json:"bids,omitempty"`

	types.Timestamps
}
