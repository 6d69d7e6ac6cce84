package pricing

import (
	"testing"

	"teebox/src/types"

	"github.com/stretchr/testify/assert"
)

func item(t types.CartItemType, price int64) types.CartLineItem {
	return types.CartLineItem{ID: string(t), Type: t, Price: price}
}

func TestPriceSingleFirstHand(t *testing.T) {
	b := Price([]types.CartLineItem{
		item(types.ITEM_FIRST_HAND, 5000),
	}, Params{Players: 1})

	assert.Equal(t, 50.0, b.SubTotal)
	assert.Equal(t, 0.0, b.TaxCharge)
	assert.Equal(t, "50.00", b.TotalAmt)
}

func TestPriceGreenFeeTax(t *testing.T) {
	b := Price([]types.CartLineItem{
		item(types.ITEM_FIRST_HAND, 10000),
		item(types.ITEM_GREEN_FEE_TAX_RATE, 887),
	}, Params{Players: 1})

	assert.Equal(t, 100.0, b.SubTotal)
	assert.Equal(t, 8.87, b.TaxCharge)
	assert.Equal(t, "108.87", b.TotalAmt)
}

func TestPriceTaxRoundsUpNeverDown(t *testing.T) {
	// 33.33 * 7% = 2.3331 -> 2.34
	b := Price([]types.CartLineItem{
		item(types.ITEM_FIRST_HAND, 3333),
		item(types.ITEM_GREEN_FEE_TAX_RATE, 700),
	}, Params{Players: 1})

	assert.Equal(t, 2.34, b.TaxCharge)
	assert.Equal(t, "35.67", b.TotalAmt)
}

func TestPriceGroupOverridesFirstAndSecondHand(t *testing.T) {
	b := Price([]types.CartLineItem{
		item(types.ITEM_SECOND_HAND, 1000),
		item(types.ITEM_FIRST_HAND, 2000),
		item(types.ITEM_FIRST_HAND_GROUP, 30000),
		item(types.ITEM_FIRST_HAND, 2000),
	}, Params{Players: 4})

	assert.Equal(t, 300.0, b.SubTotal)
	assert.Equal(t, 75.0, b.GreenFeePerPlayer)
}

func TestPriceSecondHandFallback(t *testing.T) {
	b := Price([]types.CartLineItem{
		item(types.ITEM_SECOND_HAND, 4500),
		item(types.ITEM_SECOND_HAND, 4500),
	}, Params{Players: 2})

	assert.Equal(t, 90.0, b.SubTotal)
}

func TestPriceZeroPlayersNoDivisionError(t *testing.T) {
	b := Price([]types.CartLineItem{
		item(types.ITEM_FIRST_HAND, 10000),
	}, Params{Players: 2, AlreadyValidatedPlayers: 4})

	assert.Equal(t, 0, b.PlayersInNumber)
	assert.Equal(t, 0.0, b.GreenFeePerPlayer)
}

func TestPriceCartFeeAndMarkupReduceGreenFeePerPlayer(t *testing.T) {
	b := Price([]types.CartLineItem{
		item(types.ITEM_FIRST_HAND, 20000),
		item(types.ITEM_CART_FEE, 1500),
		item(types.ITEM_MARKUP, 500),
	}, Params{Players: 2})

	// 200/2 - 15 - 5
	assert.Equal(t, 80.0, b.GreenFeePerPlayer)
}

func TestPricePerPlayerTaxBases(t *testing.T) {
	b := Price([]types.CartLineItem{
		item(types.ITEM_FIRST_HAND, 20000),
		item(types.ITEM_CART_FEE, 1000),
		item(types.ITEM_GREEN_FEE_TAX_RATE, 700),
		item(types.ITEM_CART_FEE_TAX_RATE, 700),
	}, Params{Players: 2})

	// green fee per player 90, taxed for both players: 180*0.07 = 12.60
	// cart fee 10 per player: 20*0.07 = 1.40
	assert.Equal(t, 14.0, b.TaxCharge)
}

func TestPriceRoundUpDonationReplacesCharity(t *testing.T) {
	charityId := uint(7)
	items := []types.CartLineItem{
		item(types.ITEM_FIRST_HAND, 10000),
		item(types.ITEM_CHARITY, 500),
	}

	with := Price(items, Params{Players: 1, RoundUpCharityID: &charityId, DonateValue: 0.63})
	assert.Equal(t, 0.0, with.CharityTotal)
	assert.Equal(t, 0.63, with.DonateValue)
	assert.Equal(t, "100.63", with.TotalAmt)

	without := Price(items, Params{Players: 1, DonateValue: 0.63})
	assert.Equal(t, 5.0, without.CharityTotal)
	assert.Equal(t, 0.0, without.DonateValue)
	assert.Equal(t, "105.00", without.TotalAmt)
}

func TestPriceMerchandiseWithTaxOverride(t *testing.T) {
	b := Price([]types.CartLineItem{
		item(types.ITEM_FIRST_HAND, 10000),
		{ID: "m1", Type: types.ITEM_MERCHANDISE, Price: 2000},
		{ID: "m2", Type: types.ITEM_MERCHANDISE_TAXED, PriceWithoutTax: 1000, TaxAmount: 83},
	}, Params{Players: 1, SellMerchandiseEnabled: true})

	assert.Equal(t, 30.0, b.MerchandiseTotal)
	assert.Equal(t, 0.83, b.TaxCharge)
	assert.Equal(t, "130.83", b.TotalAmt)
}

func TestPriceMerchandiseExcludedWhenSellingDisabled(t *testing.T) {
	b := Price([]types.CartLineItem{
		item(types.ITEM_FIRST_HAND, 10000),
		item(types.ITEM_MERCHANDISE, 2000),
	}, Params{Players: 1})

	assert.Equal(t, "100.00", b.TotalAmt)
}

func TestPriceAuctionAndOfferExcluded(t *testing.T) {
	b := Price([]types.CartLineItem{
		item(types.ITEM_FIRST_HAND, 10000),
		item(types.ITEM_AUCTION, 99900),
		item(types.ITEM_OFFER, 12300),
		item(types.ITEM_ADVANCED_BOOKING_FEES, 500),
	}, Params{Players: 1})

	assert.Equal(t, "100.00", b.TotalAmt)
}

func TestPriceSensibleAndConvenience(t *testing.T) {
	b := Price([]types.CartLineItem{
		item(types.ITEM_FIRST_HAND, 10000),
		item(types.ITEM_SENSIBLE, 750),
		item(types.ITEM_CONVENIENCE_FEE, 299),
		item(types.ITEM_WEATHER_GUARANTEE_TAX_RATE, 700),
	}, Params{Players: 1})

	// 7.50 * 7% = 0.525 -> 0.53
	assert.Equal(t, 0.53, b.TaxCharge)
	assert.Equal(t, "111.02", b.TotalAmt)
}

func TestPriceFlatTaxItemAdded(t *testing.T) {
	b := Price([]types.CartLineItem{
		item(types.ITEM_FIRST_HAND, 10000),
		item(types.ITEM_TAXES, 150),
	}, Params{Players: 1})

	assert.Equal(t, 1.50, b.TaxCharge)
	assert.Equal(t, "101.50", b.TotalAmt)
}

func TestFormatAmountThousands(t *testing.T) {
	assert.Equal(t, "1,234.50", FormatAmount(1234.5))
	assert.Equal(t, "999.99", FormatAmount(999.99))
	assert.Equal(t, "1,000,000.00", FormatAmount(1000000))
	assert.Equal(t, "0.00", FormatAmount(0))
}
