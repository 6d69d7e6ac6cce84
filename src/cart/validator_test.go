package cart

import (
	"context"
	"testing"
	"time"

	"teebox/src/db"
	"teebox/src/teesheet"
	"teebox/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

type fakeIndexer struct {
	calls  []teesheet.IndexDayParams
	result *teesheet.IndexResult
	err    error
}

func (f *fakeIndexer) IndexDay(ctx context.Context, params teesheet.IndexDayParams) (*teesheet.IndexResult, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestValidateCartUnknownType(t *testing.T) {
	gormDB, _ := db.NewMockDB()
	v := NewValidator(gormDB, &fakeIndexer{})

	cart := &types.Cart{
		UserID: 1,
		Items: []types.CartLineItem{
			{ID: "li_1", Type: types.CartItemType("gift_card")},
		},
	}
	validationErrors, err := v.ValidateCart(context.Background(), cart)

	assert.Nil(t, err)
	assert.Equal(t, []ValidationError{{UNKNOWN_PRODUCT_TYPE, "li_1"}}, validationErrors)
}

func TestValidateCartPricedItemsSkipped(t *testing.T) {
	gormDB, _ := db.NewMockDB()
	v := NewValidator(gormDB, &fakeIndexer{})

	cart := &types.Cart{
		UserID: 1,
		Items: []types.CartLineItem{
			{ID: "li_1", Type: types.ITEM_CONVENIENCE_FEE, Price: 299},
			{ID: "li_2", Type: types.ITEM_GREEN_FEE_TAX_RATE, Price: 700},
			{ID: "li_3", Type: types.ITEM_MERCHANDISE, Price: 2500},
		},
	}
	validationErrors, err := v.ValidateCart(context.Background(), cart)

	assert.Nil(t, err)
	assert.Empty(t, validationErrors)
}

func TestValidateCartAuctionEnded(t *testing.T) {
	gormDB, mock := db.NewMockDB()
	v := NewValidator(gormDB, &fakeIndexer{})

	mock.ExpectQuery(`SELECT (.+) FROM "auctions"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "end_date", "buy_now_price"}).
			AddRow(7, time.Now().Add(-time.Hour), 12000))

	cart := &types.Cart{
		UserID: 1,
		Items: []types.CartLineItem{
			{ID: "li_1", Type: types.ITEM_AUCTION, AuctionID: 7, Price: 12000},
		},
	}
	validationErrors, err := v.ValidateCart(context.Background(), cart)

	assert.Nil(t, err)
	assert.Equal(t, []ValidationError{{AUCTION_NOT_ACTIVE, "li_1"}}, validationErrors)
}

func TestValidateCartAuctionBuyNowPriceMismatch(t *testing.T) {
	gormDB, mock := db.NewMockDB()
	v := NewValidator(gormDB, &fakeIndexer{})

	mock.ExpectQuery(`SELECT (.+) FROM "auctions"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "end_date", "buy_now_price"}).
			AddRow(7, time.Now().Add(time.Hour), 12000))

	cart := &types.Cart{
		UserID: 1,
		Items: []types.CartLineItem{
			{ID: "li_1", Type: types.ITEM_AUCTION, AuctionID: 7, Price: 10000},
		},
	}
	validationErrors, err := v.ValidateCart(context.Background(), cart)

	assert.Nil(t, err)
	assert.Equal(t, []ValidationError{{AUCTION_BUY_NOW_PRICE_MISMATCH, "li_1"}}, validationErrors)
}

func TestValidateCartListingGone(t *testing.T) {
	gormDB, mock := db.NewMockDB()
	v := NewValidator(gormDB, &fakeIndexer{})

	mock.ExpectQuery(`SELECT (.+) FROM "listings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	cart := &types.Cart{
		UserID: 1,
		Items: []types.CartLineItem{
			{ID: "li_1", Type: types.ITEM_SECOND_HAND, ListingID: 42, Price: 9500},
		},
	}
	validationErrors, err := v.ValidateCart(context.Background(), cart)

	assert.Nil(t, err)
	assert.Equal(t, []ValidationError{{LISTING_NOT_AVAILABLE, "li_1"}}, validationErrors)
}

func TestValidateCartOfferBookingMissing(t *testing.T) {
	gormDB, mock := db.NewMockDB()
	v := NewValidator(gormDB, &fakeIndexer{})

	mock.ExpectQuery(`SELECT (.+) FROM "tee_time_bookings"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "tee_time_id", "min_offer_price"}).
			AddRow(1, 5, 5000))

	cart := &types.Cart{
		UserID: 1,
		Items: []types.CartLineItem{
			{ID: "li_1", Type: types.ITEM_OFFER, BookingIDs: []uint{1, 2}, OfferPrice: 10000},
		},
	}
	validationErrors, err := v.ValidateCart(context.Background(), cart)

	assert.Nil(t, err)
	assert.Equal(t, []ValidationError{{BOOKING_NOT_FOUND, "li_1"}}, validationErrors)
}

func TestValidateCartOfferBookingsAcrossTeeTimes(t *testing.T) {
	gormDB, mock := db.NewMockDB()
	v := NewValidator(gormDB, &fakeIndexer{})

	mock.ExpectQuery(`SELECT (.+) FROM "tee_time_bookings"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "tee_time_id", "min_offer_price"}).
			AddRow(1, 5, 5000).
			AddRow(2, 6, 5000))

	cart := &types.Cart{
		UserID: 1,
		Items: []types.CartLineItem{
			{ID: "li_1", Type: types.ITEM_OFFER, BookingIDs: []uint{1, 2}, OfferPrice: 10000},
		},
	}
	validationErrors, err := v.ValidateCart(context.Background(), cart)

	assert.Nil(t, err)
	assert.Equal(t, []ValidationError{{OFFER_BOOKINGS_MISMATCH, "li_1"}}, validationErrors)
}

func TestValidateCartOfferBelowMinimum(t *testing.T) {
	gormDB, mock := db.NewMockDB()
	v := NewValidator(gormDB, &fakeIndexer{})

	mock.ExpectQuery(`SELECT (.+) FROM "tee_time_bookings"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "tee_time_id", "min_offer_price"}).
			AddRow(1, 5, 5000).
			AddRow(2, 5, 6000))

	cart := &types.Cart{
		UserID: 1,
		Items: []types.CartLineItem{
			{ID: "li_1", Type: types.ITEM_OFFER, BookingIDs: []uint{1, 2}, OfferPrice: 5500},
		},
	}
	validationErrors, err := v.ValidateCart(context.Background(), cart)

	assert.Nil(t, err)
	assert.Equal(t, []ValidationError{{OFFER_PRICE_TOO_LOW, "li_1"}}, validationErrors)
}

func TestValidateCartFirstHandReindexesThenAccepts(t *testing.T) {
	gormDB, mock := db.NewMockDB()
	indexer := &fakeIndexer{result: &teesheet.IndexResult{}}
	v := NewValidator(gormDB, indexer)

	mock.ExpectQuery(`SELECT (.+) FROM "tee_times"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "course_id", "date", "first_hand_spots"}).
			AddRow(9, 3, "2026-09-05", 4))
	mock.ExpectQuery(`SELECT (.+) FROM "courses"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "entity_id", "provider", "provider_id", "provider_course_id", "provider_tee_sheet_id", "provider_token"}).
			AddRow(3, 11, "foreup", "prv_1", "crs_55", "sheet_2", "tok"))
	// SaveTeeTimes runs an empty transaction for an empty refresh.
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT (.+) FROM "tee_times"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "course_id", "date", "first_hand_spots"}).
			AddRow(9, 3, "2026-09-05", 4))

	cart := &types.Cart{
		UserID: 1,
		Items: []types.CartLineItem{
			{ID: "li_1", Type: types.ITEM_FIRST_HAND, TeeTimeID: 9, Spots: 2, Price: 5000},
		},
	}
	validationErrors, err := v.ValidateCart(context.Background(), cart)

	assert.Nil(t, err)
	assert.Empty(t, validationErrors)
	assert.Len(t, indexer.calls, 1)
	assert.Equal(t, "2026-09-05", indexer.calls[0].Date)
	assert.Equal(t, "crs_55", indexer.calls[0].ProviderCourseID)
	assert.Equal(t, uint(3), indexer.calls[0].CourseID)
}

func TestValidateCartFirstHandNotEnoughSpots(t *testing.T) {
	gormDB, mock := db.NewMockDB()
	indexer := &fakeIndexer{result: &teesheet.IndexResult{}}
	v := NewValidator(gormDB, indexer)

	mock.ExpectQuery(`SELECT (.+) FROM "tee_times"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "course_id", "date", "first_hand_spots"}).
			AddRow(9, 3, "2026-09-05", 4))
	mock.ExpectQuery(`SELECT (.+) FROM "courses"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "entity_id", "provider", "provider_id", "provider_course_id", "provider_tee_sheet_id", "provider_token"}).
			AddRow(3, 11, "foreup", "prv_1", "crs_55", "sheet_2", "tok"))
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT (.+) FROM "tee_times"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "course_id", "date", "first_hand_spots"}).
			AddRow(9, 3, "2026-09-05", 1))

	cart := &types.Cart{
		UserID: 1,
		Items: []types.CartLineItem{
			{ID: "li_1", Type: types.ITEM_FIRST_HAND, TeeTimeID: 9, Spots: 2, Price: 5000},
		},
	}
	validationErrors, err := v.ValidateCart(context.Background(), cart)

	assert.Nil(t, err)
	assert.Equal(t, []ValidationError{{TEE_TIME_NOT_AVAILABLE, "li_1"}}, validationErrors)
}

func TestValidateCartCollectsAcrossItems(t *testing.T) {
	gormDB, mock := db.NewMockDB()
	v := NewValidator(gormDB, &fakeIndexer{})

	mock.ExpectQuery(`SELECT (.+) FROM "listings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "auctions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	cart := &types.Cart{
		UserID: 1,
		Items: []types.CartLineItem{
			{ID: "li_1", Type: types.ITEM_SECOND_HAND, ListingID: 42},
			{ID: "li_2", Type: types.ITEM_AUCTION, AuctionID: 7},
			{ID: "li_3", Type: types.CartItemType("gift_card")},
		},
	}
	validationErrors, err := v.ValidateCart(context.Background(), cart)

	assert.Nil(t, err)
	assert.Equal(t, []ValidationError{
		{LISTING_NOT_AVAILABLE, "li_1"},
		{AUCTION_NOT_ACTIVE, "li_2"},
		{UNKNOWN_PRODUCT_TYPE, "li_3"},
	}, validationErrors)
}
