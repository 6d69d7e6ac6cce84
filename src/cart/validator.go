package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"teebox/src/models"
	"teebox/src/teesheet"
	"teebox/src/types"

	"gorm.io/gorm"
)

type ErrorType string

const (
	TEE_TIME_NOT_AVAILABLE         ErrorType = "TEE_TIME_NOT_AVAILABLE"
	LISTING_NOT_AVAILABLE          ErrorType = "LISTING_NOT_AVAILABLE"
	AUCTION_NOT_ACTIVE             ErrorType = "AUCTION_NOT_ACTIVE"
	AUCTION_BUY_NOW_PRICE_MISMATCH ErrorType = "AUCTION_BUY_NOW_PRICE_MISMATCH"
	BOOKING_NOT_FOUND              ErrorType = "BOOKING_NOT_FOUND"
	OFFER_BOOKINGS_MISMATCH        ErrorType = "OFFER_BOOKINGS_MISMATCH"
	OFFER_PRICE_TOO_LOW            ErrorType = "OFFER_PRICE_TOO_LOW"
	UNKNOWN_PRODUCT_TYPE           ErrorType = "UNKNOWN_PRODUCT_TYPE"
)

type ValidationError struct {
	ErrorType  ErrorType `json:"errorType"`
	LineItemID string    `json:"lineItemId"`
}

// Validator runs per-item integrity checks against live inventory,
// listing and auction state. Every validator collects and continues;
// the orchestrator decides what to do with the accumulated errors.
type Validator struct {
	db      *gorm.DB
	indexer teesheet.Indexer
}

func NewValidator(db *gorm.DB, indexer teesheet.Indexer) *Validator {
	return &Validator{db: db, indexer: indexer}
}

// ValidateCart checks every line item. The returned error is reserved
// for store or collaborator failures; domain problems come back as
// ValidationError entries.
func (v *Validator) ValidateCart(ctx context.Context, cart *types.Cart) ([]ValidationError, error) {
	validationErrors := make([]ValidationError, 0)
	// One provider re-index per day key is enough for the whole cart.
	reindexed := make(map[string]bool)
	for _, item := range cart.Items {
		switch item.Type {
		case types.ITEM_FIRST_HAND:
			ok, err := v.checkFirstHand(ctx, item, reindexed)
			if err != nil {
				return nil, err
			}
			if !ok {
				validationErrors = append(validationErrors, ValidationError{TEE_TIME_NOT_AVAILABLE, item.ID})
			}
		case types.ITEM_SECOND_HAND:
			ok, err := v.checkListing(item)
			if err != nil {
				return nil, err
			}
			if !ok {
				validationErrors = append(validationErrors, ValidationError{LISTING_NOT_AVAILABLE, item.ID})
			}
		case types.ITEM_AUCTION:
			errType, err := v.checkAuction(item)
			if err != nil {
				return nil, err
			}
			if errType != "" {
				validationErrors = append(validationErrors, ValidationError{errType, item.ID})
			}
		case types.ITEM_OFFER:
			errType, err := v.checkOffer(item)
			if err != nil {
				return nil, err
			}
			if errType != "" {
				validationErrors = append(validationErrors, ValidationError{errType, item.ID})
			}
		case types.ITEM_SENSIBLE, types.ITEM_CHARITY:
			// Quote and charity registries are external; nothing to
			// verify against locally.
		case types.ITEM_FIRST_HAND_GROUP,
			types.ITEM_MERCHANDISE,
			types.ITEM_MERCHANDISE_TAXED,
			types.ITEM_CONVENIENCE_FEE,
			types.ITEM_CART_FEE,
			types.ITEM_MARKUP,
			types.ITEM_TAXES,
			types.ITEM_ADVANCED_BOOKING_FEES,
			types.ITEM_GREEN_FEE_TAX_RATE,
			types.ITEM_CART_FEE_TAX_RATE,
			types.ITEM_WEATHER_GUARANTEE_TAX_RATE,
			types.ITEM_MARKUP_TAX_RATE,
			types.ITEM_MERCHANDISE_TAX_RATE:
			// Priced, not validated.
		default:
			validationErrors = append(validationErrors, ValidationError{UNKNOWN_PRODUCT_TYPE, item.ID})
		}
	}
	return validationErrors, nil
}

// checkFirstHand re-indexes the tee time's day from the provider,
// persists the refreshed slots, then confirms availability against the
// refreshed row.
func (v *Validator) checkFirstHand(ctx context.Context, item types.CartLineItem, reindexed map[string]bool) (bool, error) {
	var teeTime models.TeeTime
	if err := v.db.
		Where(&models.TeeTime{ID: item.TeeTimeID}).
		Preload("Course").
		First(&teeTime).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if teeTime.Course == nil || teeTime.Course.ProviderID == "" {
		return false, nil
	}
	course := teeTime.Course
	dayKey := fmt.Sprintf("%d:%s", course.ID, teeTime.Date)
	if !reindexed[dayKey] {
		result, err := v.indexer.IndexDay(ctx, teesheet.IndexDayParams{
			Date:               teeTime.Date,
			ProviderCourseID:   course.ProviderCourseID,
			CourseID:           course.ID,
			ProviderTeeSheetID: course.ProviderTeeSheetID,
			ProviderID:         course.ProviderID,
			Provider:           course.Provider,
			Token:              course.ProviderToken,
			EntityID:           course.EntityID,
		})
		if err != nil {
			return false, fmt.Errorf("cart: re-index tee times for course %d: %w", course.ID, err)
		}
		if err := teesheet.SaveTeeTimes(v.db, result); err != nil {
			return false, err
		}
		reindexed[dayKey] = true
	}
	var refreshed models.TeeTime
	if err := v.db.
		Where(&models.TeeTime{ID: item.TeeTimeID}).
		First(&refreshed).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Removed by the re-index.
			return false, nil
		}
		return false, err
	}
	spots := item.Spots
	if spots < 1 {
		spots = 1
	}
	if refreshed.FirstHandSpots < spots {
		log.Printf("Tee time [%d] has %d first-hand spots, %d requested\n", refreshed.ID, refreshed.FirstHandSpots, spots)
		return false, nil
	}
	return true, nil
}

func (v *Validator) checkListing(item types.CartLineItem) (bool, error) {
	var listing models.Listing
	if err := v.db.
		Where(&models.Listing{ID: item.ListingID}).
		First(&listing).
		Error; err != nil {
		// Soft-deleted listings are filtered out by the query itself.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (v *Validator) checkAuction(item types.CartLineItem) (ErrorType, error) {
	var auction models.Auction
	if err := v.db.
		Where(&models.Auction{ID: item.AuctionID}).
		First(&auction).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AUCTION_NOT_ACTIVE, nil
		}
		return "", err
	}
	now := time.Now()
	if auction.CanceledBy != nil || !auction.EndDate.After(now) {
		return AUCTION_NOT_ACTIVE, nil
	}
	if auction.BuyNowPrice == nil || *auction.BuyNowPrice != item.Price {
		return AUCTION_BUY_NOW_PRICE_MISMATCH, nil
	}
	return "", nil
}

func (v *Validator) checkOffer(item types.CartLineItem) (ErrorType, error) {
	if len(item.BookingIDs) == 0 {
		return BOOKING_NOT_FOUND, nil
	}
	var bookings []models.TeeTimeBooking
	if err := v.db.
		Where("id IN (?)", item.BookingIDs).
		Find(&bookings).
		Error; err != nil {
		return "", err
	}
	if len(bookings) != len(item.BookingIDs) {
		return BOOKING_NOT_FOUND, nil
	}
	teeTimeId := bookings[0].TeeTimeID
	var maxMinOffer int64
	for _, booking := range bookings {
		if booking.TeeTimeID != teeTimeId {
			return OFFER_BOOKINGS_MISMATCH, nil
		}
		if booking.MinOfferPrice > maxMinOffer {
			maxMinOffer = booking.MinOfferPrice
		}
	}
	if item.OfferPrice < maxMinOffer {
		return OFFER_PRICE_TOO_LOW, nil
	}
	return "", nil
}
