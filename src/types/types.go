package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Env string

const (
	Local      Env = "local"
	Test       Env = "test"
	Production Env = "production"
)

type DiscountType string

const (
	DISCOUNT_PERCENTAGE DiscountType = "PERCENTAGE"
	DISCOUNT_AMOUNT     DiscountType = "AMOUNT"
)

type CheckoutSessionStatus string

const (
	SESSION_PENDING    CheckoutSessionStatus = "pending"
	SESSION_SUPERSEDED CheckoutSessionStatus = "superseded"
	SESSION_COMPLETED  CheckoutSessionStatus = "completed"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateAuctionRequestBody struct {
	CourseID      uint    `json:"course" binding:"required"`
	EntityID      uint    `json:"entity" binding:"required"`
	StartDate     string  `json:"start_date" binding:"required,bookabledate,ltdate=EndDate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndDate       string  `json:"end_date" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	StartingPrice int64   `json:"starting_price" binding:"required"`
	BuyNowPrice   *int64  `json:"buy_now_price,omitempty"`
	Description   string  `json:"description,omitempty"`
	ImageKey      *string `json:"image_key,omitempty"`
}

type PlaceBidRequestBody struct {
	Amount          int64   `json:"amount" binding:"required"`
	PaymentMethodID *string `json:"payment_method_id,omitempty"`
}

type BuyNowCallbackRequestBody struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

type CheckoutRequestBody struct {
	CourseID                uint           `json:"course" binding:"required"`
	Items                   []CartLineItem `json:"items" binding:"required"`
	Players                 int            `json:"players,omitempty"`
	AlreadyValidatedPlayers int            `json:"already_validated_players,omitempty"`
	RoundUpCharityID        *uint          `json:"round_up_charity_id,omitempty"`
	DonateValue             float64        `json:"donate_value,omitempty"`
	SellMerchandiseEnabled  bool           `json:"sell_merchandise_enabled,omitempty"`
	PromoCode               *string        `json:"promo_code,omitempty"`
}

type ValidatePromoCodeRequestBody struct {
	Code     string `json:"code" binding:"required"`
	CourseID uint   `json:"course" binding:"required"`
}
