package models

import (
	"teebox/src/types"
	"time"
)

type TeeTime struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CourseID       uint      `json:"course_id,omitempty"`
	Date           string    `gorm:"index" json:"date,omitempty"`
	TeeOff         time.Time `json:"tee_off,omitempty"`
	FirstHandSpots int       `json:"first_hand_spots"`
	Price          int64     `json:"price,omitempty"`
	ProviderRef    string    `gorm:"index" json:"-"`

	Course *Course `gorm:"foreignKey:course_id" json:"course,omitempty"`

	types.Timestamps
}

// Listing is a peer-to-peer resale of a reserved tee time. Soft-deleted
// when withdrawn or sold.
type Listing struct {
	ID        uint  `gorm:"primarykey" json:"id"`
	SellerID  uint  `json:"seller_id,omitempty"`
	TeeTimeID uint  `json:"tee_time_id,omitempty"`
	Price     int64 `json:"price,omitempty"`

	Seller  *User    `gorm:"foreignKey:seller_id" json:"seller,omitempty"`
	TeeTime *TeeTime `gorm:"foreignKey:tee_time_id" json:"tee_time,omitempty"`

	types.Timestamps
}

// TeeTimeBooking is a confirmed reservation that peers can make offers
// against.
type TeeTimeBooking struct {
	ID            uint  `gorm:"primarykey" json:"id"`
	UserID        uint  `json:"user_id,omitempty"`
	TeeTimeID     uint  `json:"tee_time_id,omitempty"`
	MinOfferPrice int64 `json:"min_offer_price,omitempty"`

	TeeTime *TeeTime `gorm:"foreignKey:tee_time_id" json:"tee_time,omitempty"`

	types.Timestamps
}
