package types

import (
	"encoding/json"
	"fmt"
)

// CartItemType tags a cart line item with its product variant. The set
// is closed: DecodeCart rejects tags outside KnownCartItemTypes, so the
// validator and the pricing calculator only ever see members of this
// enum plus the explicit unknown marker.
type CartItemType string

const (
	ITEM_FIRST_HAND            CartItemType = "first_hand"
	ITEM_FIRST_HAND_GROUP      CartItemType = "first_hand_group"
	ITEM_SECOND_HAND           CartItemType = "second_hand"
	ITEM_SENSIBLE              CartItemType = "sensible"
	ITEM_AUCTION               CartItemType = "auction"
	ITEM_OFFER                 CartItemType = "offer"
	ITEM_CHARITY               CartItemType = "charity"
	ITEM_MERCHANDISE           CartItemType = "merchandise"
	ITEM_MERCHANDISE_TAXED     CartItemType = "merchandise_with_tax_override"
	ITEM_CONVENIENCE_FEE       CartItemType = "convenience_fee"
	ITEM_CART_FEE              CartItemType = "cart_fee"
	ITEM_MARKUP                CartItemType = "markup"
	ITEM_TAXES                 CartItemType = "taxes"
	ITEM_ADVANCED_BOOKING_FEES CartItemType = "advanced_booking_fees_per_player"

	// Rate-carrying pseudo-items. Price encodes a tax rate in
	// hundredths of a percent (700 = 7.00%), never a charge.
	ITEM_GREEN_FEE_TAX_RATE         CartItemType = "green_fee_tax_rate"
	ITEM_CART_FEE_TAX_RATE          CartItemType = "cart_fee_tax_rate"
	ITEM_WEATHER_GUARANTEE_TAX_RATE CartItemType = "weather_guarantee_tax_rate"
	ITEM_MARKUP_TAX_RATE            CartItemType = "markup_tax_rate"
	ITEM_MERCHANDISE_TAX_RATE       CartItemType = "merchandise_tax_rate"
)

// KnownCartItemTypes is the decode-side allowlist. Adding a variant
// here without handling it in the validator or calculator surfaces as
// an UNKNOWN_PRODUCT_TYPE rejection in the validator tests.
var KnownCartItemTypes = map[CartItemType]bool{
	ITEM_FIRST_HAND:                 true,
	ITEM_FIRST_HAND_GROUP:           true,
	ITEM_SECOND_HAND:                true,
	ITEM_SENSIBLE:                   true,
	ITEM_AUCTION:                    true,
	ITEM_OFFER:                      true,
	ITEM_CHARITY:                    true,
	ITEM_MERCHANDISE:                true,
	ITEM_MERCHANDISE_TAXED:          true,
	ITEM_CONVENIENCE_FEE:            true,
	ITEM_CART_FEE:                   true,
	ITEM_MARKUP:                     true,
	ITEM_TAXES:                      true,
	ITEM_ADVANCED_BOOKING_FEES:      true,
	ITEM_GREEN_FEE_TAX_RATE:         true,
	ITEM_CART_FEE_TAX_RATE:          true,
	ITEM_WEATHER_GUARANTEE_TAX_RATE: true,
	ITEM_MARKUP_TAX_RATE:            true,
	ITEM_MERCHANDISE_TAX_RATE:       true,
}

func (t CartItemType) IsRate() bool {
	switch t {
	case ITEM_GREEN_FEE_TAX_RATE,
		ITEM_CART_FEE_TAX_RATE,
		ITEM_WEATHER_GUARANTEE_TAX_RATE,
		ITEM_MARKUP_TAX_RATE,
		ITEM_MERCHANDISE_TAX_RATE:
		return true
	}
	return false
}

// CartLineItem is one type-tagged entry of a checkout cart. Price is in
// integer cents, except on rate-carrying pseudo-items where it encodes
// a percentage (see CartItemType).
type CartLineItem struct {
	ID    string       `json:"id" binding:"required"`
	Type  CartItemType `json:"type" binding:"required"`
	Price int64        `json:"price"`

	// Variant metadata. Only the fields of the tagged variant are set.
	TeeTimeID       uint    `json:"tee_time_id,omitempty"`       // first_hand, first_hand_group
	Spots           int     `json:"spots,omitempty"`             // first_hand
	ListingID       uint    `json:"listing_id,omitempty"`        // second_hand
	AuctionID       uint    `json:"auction_id,omitempty"`        // auction
	BookingIDs      []uint  `json:"booking_ids,omitempty"`       // offer
	OfferPrice      int64   `json:"offer_price,omitempty"`       // offer
	QuoteID         *string `json:"quote_id,omitempty"`          // sensible
	CharityID       *uint   `json:"charity_id,omitempty"`        // charity
	PriceWithoutTax int64   `json:"price_without_tax,omitempty"` // merchandise_with_tax_override
	TaxAmount       int64   `json:"tax_amount,omitempty"`        // merchandise_with_tax_override
}

type Cart struct {
	UserID   uint           `json:"user_id"`
	CourseID uint           `json:"course_id"`
	Items    []CartLineItem `json:"items"`
}

// DecodeCart parses a raw cart payload and rejects unrecognized type
// tags up front so downstream dispatch only handles the closed set.
func DecodeCart(raw []byte) (*Cart, error) {
	var cart Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, err
	}
	for _, item := range cart.Items {
		if !KnownCartItemTypes[item.Type] {
			return nil, fmt.Errorf("unknown cart item type %q on line item %s", item.Type, item.ID)
		}
	}
	return &cart, nil
}

// RateOf returns the decimal tax fraction carried by a rate item
// (700 -> 0.07).
func (i CartLineItem) RateOf() float64 {
	return float64(i.Price) / 10000
}
