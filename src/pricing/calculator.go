package pricing

import (
	"fmt"
	"math"
	"strings"

	"teebox/src/types"
)

// Breakdown is the priced view of a cart. Amounts are dollars; the
// store keeps cents, callers divide once on the way in and this package
// guards the cent boundaries on the way out.
type Breakdown struct {
	SubTotal          float64 `json:"subTotal"`
	GreenFeePerPlayer float64 `json:"greenFeePerPlayer"`
	PlayersInNumber   int     `json:"playersInNumber"`
	CartFeeTotal      float64 `json:"cartFeeTotal"`
	MarkupTotal       float64 `json:"markupTotal"`
	ConvenienceTotal  float64 `json:"convenienceTotal"`
	SensibleTotal     float64 `json:"sensibleTotal"`
	CharityTotal      float64 `json:"charityTotal"`
	MerchandiseTotal  float64 `json:"merchandiseTotal"`
	DonateValue       float64 `json:"donateValue"`
	TaxCharge         float64 `json:"taxCharge"`
	Total             float64 `json:"total"`
	TotalAmt          string  `json:"TotalAmt"`
}

type Params struct {
	Players                 int
	AlreadyValidatedPlayers int
	RoundUpCharityID        *uint
	DonateValue             float64
	SellMerchandiseEnabled  bool
}

// Price turns a tagged cart into a priced breakdown. Pure: no clock, no
// store, no collaborator calls. Auction, offer and advanced-booking
// items are settled outside checkout and never contribute to the total.
func Price(items []types.CartLineItem, params Params) Breakdown {
	var (
		firstHandCents   int64
		groupCents       int64
		secondHandCents  int64
		convenienceCents int64
		cartFeeCents     int64
		markupCents      int64
		sensibleCents    int64
		charityCents     int64
		merchCents       int64
		overrideTaxCents int64
		flatTaxCents     int64

		hasGroup     bool
		hasFirstHand bool

		greenFeeRate float64
		cartFeeRate  float64
		weatherRate  float64
		markupRate   float64
		merchRate    float64
	)

	for _, item := range items {
		switch item.Type {
		case types.ITEM_FIRST_HAND:
			firstHandCents += item.Price
			hasFirstHand = true
		case types.ITEM_FIRST_HAND_GROUP:
			groupCents += item.Price
			hasGroup = true
		case types.ITEM_SECOND_HAND:
			secondHandCents += item.Price
		case types.ITEM_CONVENIENCE_FEE:
			convenienceCents += item.Price
		case types.ITEM_CART_FEE:
			cartFeeCents += item.Price
		case types.ITEM_MARKUP:
			markupCents += item.Price
		case types.ITEM_SENSIBLE:
			sensibleCents += item.Price
		case types.ITEM_CHARITY:
			charityCents += item.Price
		case types.ITEM_MERCHANDISE:
			merchCents += item.Price
		case types.ITEM_MERCHANDISE_TAXED:
			merchCents += item.PriceWithoutTax
			overrideTaxCents += item.TaxAmount
		case types.ITEM_TAXES:
			flatTaxCents += item.Price
		case types.ITEM_GREEN_FEE_TAX_RATE:
			greenFeeRate = item.RateOf()
		case types.ITEM_CART_FEE_TAX_RATE:
			cartFeeRate = item.RateOf()
		case types.ITEM_WEATHER_GUARANTEE_TAX_RATE:
			weatherRate = item.RateOf()
		case types.ITEM_MARKUP_TAX_RATE:
			markupRate = item.RateOf()
		case types.ITEM_MERCHANDISE_TAX_RATE:
			merchRate = item.RateOf()
		case types.ITEM_AUCTION, types.ITEM_OFFER, types.ITEM_ADVANCED_BOOKING_FEES:
			// Settled through the auction engine / booking flows.
		}
	}

	// Group items override per-player first-hand pricing entirely;
	// second-hand is the fallback when no first-hand inventory is carted.
	primaryCents := secondHandCents
	if hasGroup {
		primaryCents = groupCents
	} else if hasFirstHand {
		primaryCents = firstHandCents
	}

	subTotal := dollars(primaryCents)
	cartFee := dollars(cartFeeCents)
	markup := dollars(markupCents)
	convenience := dollars(convenienceCents)
	sensible := dollars(sensibleCents)
	charity := dollars(charityCents)
	merchandise := dollars(merchCents)

	playersIn := params.Players - params.AlreadyValidatedPlayers
	if playersIn < 0 {
		playersIn = 0
	}
	greenFeePerPlayer := 0.0
	if playersIn > 0 {
		greenFeePerPlayer = subTotal/float64(playersIn) - cartFee - markup
	}

	players := float64(playersIn)
	taxSum := greenFeePerPlayer*players*greenFeeRate +
		cartFee*players*cartFeeRate +
		markup*players*markupRate +
		sensible*weatherRate +
		merchandise*merchRate
	taxSum += dollars(overrideTaxCents) + dollars(flatTaxCents)
	// Taxes never round down.
	taxCharge := ceilToCent(taxSum)

	roundUp := params.RoundUpCharityID != nil
	total := subTotal + taxCharge + sensible + convenience
	donate := 0.0
	if roundUp {
		// Round-up donation replaces ordinary charity charges.
		charity = 0
		donate = params.DonateValue
		total += donate
	} else {
		total += charity
	}
	if params.SellMerchandiseEnabled {
		total += merchandise
	}
	total = ceilToCent(total)

	return Breakdown{
		SubTotal:          subTotal,
		GreenFeePerPlayer: greenFeePerPlayer,
		PlayersInNumber:   playersIn,
		CartFeeTotal:      cartFee,
		MarkupTotal:       markup,
		ConvenienceTotal:  convenience,
		SensibleTotal:     sensible,
		CharityTotal:      charity,
		MerchandiseTotal:  merchandise,
		DonateValue:       donate,
		TaxCharge:         taxCharge,
		Total:             total,
		TotalAmt:          FormatAmount(total),
	}
}

func dollars(cents int64) float64 {
	return float64(cents) / 100
}

// ceilToCent rounds an amount up to the next cent, snapping first so a
// binary-float artifact (8.870000000000001) does not buy an extra cent.
func ceilToCent(v float64) float64 {
	cents := v * 100
	if nearest := math.Round(cents); math.Abs(cents-nearest) < 1e-6 {
		cents = nearest
	} else {
		cents = math.Ceil(cents)
	}
	return cents / 100
}

// FormatAmount renders a dollar amount with thousands separators and
// two decimals, e.g. 1234.5 -> "1,234.50".
func FormatAmount(v float64) string {
	cents := int64(math.Round(v * 100))
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100
	s := fmt.Sprintf("%d", whole)
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return fmt.Sprintf("%s%s.%02d", sign, b.String(), frac)
}
