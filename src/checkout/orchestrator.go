package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"teebox/src/cart"
	"teebox/src/models"
	"teebox/src/payments"
	"teebox/src/pricing"
	"teebox/src/promo"
	"teebox/src/types"

	"gorm.io/gorm"
)

var ErrIncompleteProfile = errors.New("user profile is missing name or email")

// Orchestrator prices and authorizes a cart. Client-submitted prices
// are treated as display hints only; the charge is recomputed from
// stored tee-time, listing and course data before any money moves.
type Orchestrator struct {
	db        *gorm.DB
	gateway   payments.Gateway
	validator *cart.Validator
	promo     *promo.Validator
}

func NewOrchestrator(db *gorm.DB, gateway payments.Gateway, validator *cart.Validator, promoValidator *promo.Validator) *Orchestrator {
	return &Orchestrator{db: db, gateway: gateway, validator: validator, promo: promoValidator}
}

// SessionResult carries either a persisted session or the validation
// errors that blocked it. Errors non-empty means nothing was charged.
type SessionResult struct {
	Session   *models.CheckoutSession `json:"session,omitempty"`
	Breakdown pricing.Breakdown       `json:"breakdown"`
	Errors    []cart.ValidationError  `json:"errors,omitempty"`
}

func (o *Orchestrator) BuildSession(ctx context.Context, userID uint, body *types.CheckoutRequestBody) (*SessionResult, error) {
	var user models.User
	if err := o.db.Where(&models.User{ID: userID}).First(&user).Error; err != nil {
		return nil, err
	}
	if user.Name == "" || user.Email == "" {
		return nil, ErrIncompleteProfile
	}

	checkoutCart := &types.Cart{UserID: userID, CourseID: body.CourseID, Items: body.Items}
	validationErrors, err := o.validator.ValidateCart(ctx, checkoutCart)
	if err != nil {
		return nil, err
	}
	if len(validationErrors) > 0 {
		return &SessionResult{Errors: validationErrors}, nil
	}

	var course models.Course
	if err := o.db.Where(&models.Course{ID: body.CourseID}).First(&course).Error; err != nil {
		return nil, err
	}
	trusted, err := o.trustedItems(&course, body.Items)
	if err != nil {
		return nil, err
	}

	breakdown := pricing.Price(trusted, pricing.Params{
		Players:                 body.Players,
		AlreadyValidatedPlayers: body.AlreadyValidatedPlayers,
		RoundUpCharityID:        body.RoundUpCharityID,
		DonateValue:             body.DonateValue,
		SellMerchandiseEnabled:  body.SellMerchandiseEnabled,
	})
	amount := int64(math.Round(breakdown.Total * 100))
	if body.PromoCode != nil && *body.PromoCode != "" {
		discount, err := o.promo.Validate(userID, *body.PromoCode, body.CourseID)
		if err != nil {
			return nil, err
		}
		amount = ApplyDiscount(amount, discount)
	}

	customerID := ""
	if user.StripeCustomerId != nil {
		customerID = *user.StripeCustomerId
	}
	intent, err := o.gateway.CreatePaymentIntent(ctx, payments.CreateIntentParams{
		Amount:      amount,
		Currency:    "usd",
		CustomerID:  customerID,
		CaptureMode: payments.CaptureAutomatic,
		Metadata: map[string]string{
			"user_id":   fmt.Sprint(userID),
			"course_id": fmt.Sprint(body.CourseID),
		},
	})
	if err != nil {
		return nil, err
	}

	snapshot, err := cartSnapshot(checkoutCart.CourseID, trusted)
	if err != nil {
		return nil, err
	}
	session := models.CheckoutSession{
		UserID:          userID,
		CourseID:        body.CourseID,
		Cart:            snapshot,
		Amount:          amount,
		PaymentIntentId: intent.PaymentID,
		ClientSecret:    intent.ClientSecret,
		Status:          types.SESSION_PENDING,
	}
	err = o.db.Transaction(func(tx *gorm.DB) error {
		// An older pending session is for a cart the user walked away
		// from; only the newest one may complete.
		if err := tx.
			Model(&models.CheckoutSession{}).
			Where("user_id = ? AND status = ?", userID, types.SESSION_PENDING).
			Update("status", types.SESSION_SUPERSEDED).
			Error; err != nil {
			return err
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &SessionResult{Session: &session, Breakdown: breakdown}, nil
}

// trustedItems rebuilds the cart from stored prices. Client-submitted
// fee and rate lines are dropped and re-synthesized from the course
// row; tee-time and listing prices are re-read from the store.
func (o *Orchestrator) trustedItems(course *models.Course, items []types.CartLineItem) ([]types.CartLineItem, error) {
	trusted := make([]types.CartLineItem, 0, len(items))
	for _, item := range items {
		switch item.Type {
		case types.ITEM_FIRST_HAND, types.ITEM_FIRST_HAND_GROUP:
			var teeTime models.TeeTime
			if err := o.db.Where(&models.TeeTime{ID: item.TeeTimeID}).First(&teeTime).Error; err != nil {
				return nil, err
			}
			spots := item.Spots
			if spots < 1 {
				spots = 1
			}
			item.Price = teeTime.Price * int64(spots)
		case types.ITEM_SECOND_HAND:
			var listing models.Listing
			if err := o.db.Where(&models.Listing{ID: item.ListingID}).First(&listing).Error; err != nil {
				return nil, err
			}
			item.Price = listing.Price
		case types.ITEM_CONVENIENCE_FEE, types.ITEM_CART_FEE, types.ITEM_MARKUP:
			// Synthesized below from the course configuration.
			continue
		default:
			if item.Type.IsRate() {
				continue
			}
		}
		trusted = append(trusted, item)
	}
	for _, line := range []struct {
		itemType types.CartItemType
		price    int64
	}{
		{types.ITEM_CONVENIENCE_FEE, course.ConvenienceFee},
		{types.ITEM_CART_FEE, course.CartFee},
		{types.ITEM_MARKUP, course.Markup},
		{types.ITEM_GREEN_FEE_TAX_RATE, course.GreenFeeTaxRate},
		{types.ITEM_CART_FEE_TAX_RATE, course.CartFeeTaxRate},
		{types.ITEM_WEATHER_GUARANTEE_TAX_RATE, course.WeatherGuaranteeTaxRate},
		{types.ITEM_MARKUP_TAX_RATE, course.MarkupTaxRate},
		{types.ITEM_MERCHANDISE_TAX_RATE, course.MerchandiseTaxRate},
	} {
		if line.price == 0 {
			continue
		}
		trusted = append(trusted, types.CartLineItem{
			ID:    string(line.itemType),
			Type:  line.itemType,
			Price: line.price,
		})
	}
	return trusted, nil
}

// ApplyDiscount reduces a cent amount by a validated promo discount,
// never below zero.
func ApplyDiscount(amount int64, discount promo.Discount) int64 {
	switch discount.Type {
	case types.DISCOUNT_PERCENTAGE:
		amount -= amount * discount.Value / 100
	case types.DISCOUNT_AMOUNT:
		amount -= discount.Value
	}
	if amount < 0 {
		return 0
	}
	return amount
}

func cartSnapshot(courseID uint, items []types.CartLineItem) (types.JSONB, error) {
	raw, err := json.Marshal(types.Cart{CourseID: courseID, Items: items})
	if err != nil {
		return nil, err
	}
	var snapshot types.JSONB
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}
