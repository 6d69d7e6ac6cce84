package models

import (
	"teebox/src/types"
	"time"
)

// PromoCode is soft-deleted on withdrawal. CourseID nil means the code
// is redeemable marketplace-wide; otherwise it is scoped to one course.
type PromoCode struct {
	ID                    uint               `gorm:"primarykey" json:"id"`
	Code                  string             `gorm:"uniqueIndex" json:"code,omitempty"`
	DiscountType          types.DiscountType `json:"discount_type,omitempty"`
	DiscountValue         int64              `json:"discount_value,omitempty"`
	StartsAt              *time.Time         `json:"starts_at,omitempty"`
	ExpiresAt             *time.Time         `json:"expires_at,omitempty"`
	MaxRedemptions        int64              `json:"max_redemptions,omitempty"`
	MaxRedemptionsPerUser int64              `json:"max_redemptions_per_user,omitempty"`
	CourseID              *uint              `json:"course_id,omitempty"`

	Redemptions []PromoRedemption `gorm:"foreignKey:promo_code_id" json:"-"`

	types.Timestamps
}

type PromoRedemption struct {
	ID          uint `gorm:"primarykey" json:"id"`
	PromoCodeID uint `json:"promo_code_id,omitempty"`
	UserID      uint `json:"user_id,omitempty"`

	types.Timestamps
}
