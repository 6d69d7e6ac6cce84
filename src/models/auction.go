package models

import (
	"teebox/src/types"
	"time"
)

// Auction rows are never deleted. A canceled auction keeps its history
// with end_date set to the cancel time and canceled_by recorded; a
// bought-out auction ends with a buy-now Bid as its settlement record.
type Auction struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	CourseID      uint       `json:"course_id,omitempty"`
	EntityID      uint       `json:"entity_id,omitempty"`
	CreatedBy     uint       `json:"created_by,omitempty"`
	StartDate     time.Time  `json:"start_date,omitempty"`
	EndDate       time.Time  `json:"end_date,omitempty"`
	StartingPrice int64      `json:"starting_price,omitempty"`
	BuyNowPrice   *int64     `json:"buy_now_price,omitempty"`
	CanceledBy    *uint      `json:"canceled_by,omitempty"`
	Description   string     `json:"description,omitempty"`
	ImageKey      *string    `json:"-"`

	Creator *User   `gorm:"foreignKey:created_by" json:"-"`
	Course  *Course `gorm:"foreignKey:course_id" json:"course,omitempty"`
	Bids    []Bid   `gorm:"foreignKey:auction_id" json:"bids,omitempty"`

	types.Timestamps
}

// Bid is immutable once created. PaymentIntentId references the
// manual-capture authorization holding the bidder's funds; BuyNow marks
// the settlement record written by the buy-now callback.
type Bid struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	UserID          uint   `json:"user_id,omitempty"`
	AuctionID       uint   `json:"auction_id,omitempty"`
	Amount          int64  `json:"amount,omitempty"`
	PaymentIntentId string `json:"-"`
	BuyNow          bool   `json:"buy_now,omitempty"`

	User    *User    `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Auction *Auction `gorm:"foreignKey:auction_id" json:"-"`

	types.Timestamps
}
