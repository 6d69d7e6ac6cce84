package promo

import (
	"errors"
	"time"

	"teebox/src/models"
	"teebox/src/types"

	"gorm.io/gorm"
)

// Discount is the redemption result. A zero Value means the code is not
// redeemable for this user/course right now; that is not an error.
type Discount struct {
	Value int64              `json:"discount"`
	Type  types.DiscountType `json:"type"`
}

type Validator struct {
	db *gorm.DB
}

func NewValidator(db *gorm.DB) *Validator {
	return &Validator{db: db}
}

// Validate checks redemption eligibility for a code. Soft-deleted codes
// are invisible (gorm filters DeletedAt). Store failures are returned;
// every domain reason for ineligibility yields a zero Discount.
func (v *Validator) Validate(userID uint, code string, courseID uint) (Discount, error) {
	var promoCode models.PromoCode
	if err := v.db.
		Where(&models.PromoCode{Code: code}).
		First(&promoCode).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Discount{}, nil
		}
		return Discount{}, err
	}

	var total int64
	if err := v.db.
		Model(&models.PromoRedemption{}).
		Where(&models.PromoRedemption{PromoCodeID: promoCode.ID}).
		Count(&total).
		Error; err != nil {
		return Discount{}, err
	}
	var byUser int64
	if err := v.db.
		Model(&models.PromoRedemption{}).
		Where(&models.PromoRedemption{PromoCodeID: promoCode.ID, UserID: userID}).
		Count(&byUser).
		Error; err != nil {
		return Discount{}, err
	}

	return Eligible(promoCode, total, byUser, courseID, time.Now()), nil
}

// Eligible applies the redemption rules to an already-loaded code.
func Eligible(pc models.PromoCode, totalRedemptions, userRedemptions int64, courseID uint, now time.Time) Discount {
	if pc.StartsAt != nil && now.Before(*pc.StartsAt) {
		return Discount{}
	}
	if pc.ExpiresAt != nil && now.After(*pc.ExpiresAt) {
		return Discount{}
	}
	if pc.MaxRedemptions > 0 && totalRedemptions >= pc.MaxRedemptions {
		return Discount{}
	}
	if pc.MaxRedemptionsPerUser > 0 && userRedemptions >= pc.MaxRedemptionsPerUser {
		return Discount{}
	}
	if pc.CourseID != nil && *pc.CourseID != courseID {
		return Discount{}
	}
	return Discount{Value: pc.DiscountValue, Type: pc.DiscountType}
}
