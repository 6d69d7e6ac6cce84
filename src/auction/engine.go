package auction

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"teebox/src/config"
	"teebox/src/lib"
	"teebox/src/models"
	"teebox/src/payments"
	"teebox/src/types"
	"teebox/src/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotActive       = errors.New("auction is not active")
	ErrBidBelowStart   = errors.New("must be greater than starting price")
	ErrBidAboveBuyNow  = errors.New("must be less than buy now price")
	ErrBidNotHighest   = errors.New("must be higher than the current highest bid")
	ErrNoPaymentMethod = errors.New("no payment method on file")
	ErrNoBuyNowPrice   = errors.New("auction has no buy now price")
	ErrNotEnded        = errors.New("auction has not ended")
	ErrNoBids          = errors.New("no bids")
	ErrAlreadySettled  = errors.New("auction already settled")
	ErrAlreadyCanceled = errors.New("auction already canceled")
)

// ScheduleFunc registers a one-time job; the default implementation is
// backed by the shared gocron scheduler.
type ScheduleFunc func(startDate time.Time, handler any, args ...any) (*string, error)

// Engine owns the auction lifecycle. Bids hold funds through
// manual-capture authorizations; finalize captures the winner's hold.
type Engine struct {
	db       *gorm.DB
	gateway  payments.Gateway
	schedule ScheduleFunc
}

func NewEngine(db *gorm.DB, gateway payments.Gateway) *Engine {
	return &Engine{db: db, gateway: gateway, schedule: lib.CreateOneTimeJob}
}

// CheckWindow rejects auctions that start in the past or end before
// they start.
func CheckWindow(startDate, endDate, now time.Time) error {
	if startDate.Before(now) {
		return errors.New("start date must not be in the past")
	}
	if startDate.After(endDate) {
		return errors.New("start date must not be later than end date")
	}
	return nil
}

// CheckCancelable allows canceling only while the auction is still
// running.
func CheckCancelable(auction *models.Auction, now time.Time) error {
	if auction.CanceledBy != nil {
		return ErrAlreadyCanceled
	}
	if !auction.EndDate.After(now) {
		return ErrNotActive
	}
	return nil
}

// CheckBid validates a bid amount against the auction state and the
// current highest bid. Ties lose; a new bid must be strictly higher.
func CheckBid(auction *models.Auction, highestBid, amount int64, now time.Time) error {
	if auction.CanceledBy != nil || now.Before(auction.StartDate) || !auction.EndDate.After(now) {
		return ErrNotActive
	}
	if amount < auction.StartingPrice {
		return ErrBidBelowStart
	}
	if auction.BuyNowPrice != nil && amount > *auction.BuyNowPrice {
		return ErrBidAboveBuyNow
	}
	if highestBid >= amount {
		return ErrBidNotHighest
	}
	return nil
}

func (e *Engine) CreateAuction(ctx context.Context, userID uint, body *types.CreateAuctionRequestBody) (*models.Auction, error) {
	startDate, err := time.Parse(config.TIME_PARSE_FORMAT, body.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := time.Parse(config.TIME_PARSE_FORMAT, body.EndDate)
	if err != nil {
		return nil, err
	}
	if err := CheckWindow(startDate, endDate, time.Now()); err != nil {
		return nil, err
	}
	auction := models.Auction{
		CourseID:      body.CourseID,
		EntityID:      body.EntityID,
		CreatedBy:     userID,
		StartDate:     startDate,
		EndDate:       endDate,
		StartingPrice: body.StartingPrice,
		BuyNowPrice:   body.BuyNowPrice,
		Description:   body.Description,
		ImageKey:      body.ImageKey,
	}
	if err := e.db.Create(&auction).Error; err != nil {
		return nil, err
	}
	if _, err := e.schedule(endDate, e.finalizeJob, auction.ID); err != nil {
		// The sweep endpoint can still finalize; do not fail creation.
		log.Printf("Could not schedule finalize for auction [%d]: %s\n", auction.ID, err.Error())
	}
	return &auction, nil
}

// finalizeJob is the scheduled settlement at end date. A buy-out or an
// empty auction makes it a no-op.
func (e *Engine) finalizeJob(auctionID uint) {
	result, err := e.FinalizeAuction(context.Background(), auctionID)
	if err != nil {
		if errors.Is(err, ErrNoBids) || errors.Is(err, ErrAlreadySettled) || errors.Is(err, ErrAlreadyCanceled) {
			return
		}
		log.Printf("Error finalizing auction [%d]: %s\n", auctionID, err.Error())
		return
	}
	log.Printf("Auction [%d] finalized at %d (%s)\n", auctionID, result.WinningAmount, result.CaptureStatus)
}

func (e *Engine) CancelAuction(userID, auctionID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var auction models.Auction
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Auction{ID: auctionID}).
			First(&auction).
			Error; err != nil {
			return err
		}
		if err := CheckCancelable(&auction, time.Now()); err != nil {
			return err
		}
		return tx.Model(&auction).Updates(map[string]any{
			"end_date":    time.Now(),
			"canceled_by": userID,
		}).Error
	})
}

// PlaceBid validates and records a bid. The transaction holds a row
// lock on the auction from the highest-bid read through the insert, so
// two concurrent bidders can never both pass the strictly-higher check.
func (e *Engine) PlaceBid(ctx context.Context, userID, auctionID uint, body *types.PlaceBidRequestBody) (*models.Bid, error) {
	var user models.User
	if err := e.db.Where(&models.User{ID: userID}).First(&user).Error; err != nil {
		return nil, err
	}
	if user.StripeCustomerId == nil {
		return nil, ErrNoPaymentMethod
	}
	methods, err := e.gateway.RetrievePaymentMethods(ctx, *user.StripeCustomerId)
	if err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		return nil, ErrNoPaymentMethod
	}
	var bid models.Bid
	err = e.db.Transaction(func(tx *gorm.DB) error {
		var auction models.Auction
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Auction{ID: auctionID}).
			First(&auction).
			Error; err != nil {
			return err
		}
		var highestBid int64
		if err := tx.
			Model(&models.Bid{}).
			Where("auction_id = ?", auctionID).
			Select("COALESCE(MAX(amount), 0)").
			Scan(&highestBid).
			Error; err != nil {
			return err
		}
		if err := CheckBid(&auction, highestBid, body.Amount, time.Now()); err != nil {
			return err
		}
		intent, err := e.gateway.CreatePaymentIntent(ctx, payments.CreateIntentParams{
			Amount:        body.Amount,
			Currency:      "usd",
			CustomerID:    *user.StripeCustomerId,
			PaymentMethod: body.PaymentMethodID,
			CaptureMode:   payments.CaptureManual,
			Metadata: map[string]string{
				"auction_id": fmt.Sprint(auctionID),
				"user_id":    fmt.Sprint(userID),
			},
		})
		if err != nil {
			return err
		}
		bid = models.Bid{
			UserID:          userID,
			AuctionID:       auctionID,
			Amount:          body.Amount,
			PaymentIntentId: intent.PaymentID,
		}
		return tx.Create(&bid).Error
	})
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// BuyNow authorizes the buy-now amount and hands the client secret back
// for confirmation. The auction only ends once the gateway confirms and
// BuyNowCallback runs.
func (e *Engine) BuyNow(ctx context.Context, userID, auctionID uint) (string, error) {
	var auction models.Auction
	if err := e.db.Where(&models.Auction{ID: auctionID}).First(&auction).Error; err != nil {
		return "", err
	}
	now := time.Now()
	if auction.CanceledBy != nil || now.Before(auction.StartDate) || !auction.EndDate.After(now) {
		return "", ErrNotActive
	}
	if auction.BuyNowPrice == nil {
		return "", ErrNoBuyNowPrice
	}
	var user models.User
	if err := e.db.Where(&models.User{ID: userID}).First(&user).Error; err != nil {
		return "", err
	}
	if user.StripeCustomerId == nil {
		return "", ErrNoPaymentMethod
	}
	intent, err := e.gateway.CreatePaymentIntent(ctx, payments.CreateIntentParams{
		Amount:      *auction.BuyNowPrice,
		Currency:    "usd",
		CustomerID:  *user.StripeCustomerId,
		CaptureMode: payments.CaptureAutomatic,
		Metadata: map[string]string{
			"auction_id": fmt.Sprint(auctionID),
			"user_id":    fmt.Sprint(userID),
			"buy_now":    "true",
		},
	})
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}

// BuyNowCallback settles a confirmed buy-now payment. Ending the
// auction and writing the settlement bid happen in one transaction so
// a concurrent finalize never sees a half-completed buy-out.
func (e *Engine) BuyNowCallback(auctionID, userID uint, paymentIntentID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var auction models.Auction
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Auction{ID: auctionID}).
			First(&auction).
			Error; err != nil {
			return err
		}
		if auction.CanceledBy != nil {
			return ErrAlreadyCanceled
		}
		if auction.BuyNowPrice == nil {
			return ErrNoBuyNowPrice
		}
		var settled int64
		if err := tx.
			Model(&models.Bid{}).
			Where(&models.Bid{AuctionID: auctionID, BuyNow: true}).
			Count(&settled).
			Error; err != nil {
			return err
		}
		if settled > 0 {
			return ErrAlreadySettled
		}
		if err := tx.Model(&auction).Update("end_date", time.Now()).Error; err != nil {
			return err
		}
		bid := models.Bid{
			UserID:          userID,
			AuctionID:       auctionID,
			Amount:          *auction.BuyNowPrice,
			PaymentIntentId: paymentIntentID,
			BuyNow:          true,
		}
		return tx.Create(&bid).Error
	})
}

type FinalizeResult struct {
	WinningAmount int64  `json:"winning_amount"`
	CaptureStatus string `json:"capture_status"`
}

// FinalizeAuction captures the highest bidder's held authorization once
// the auction has ended without a buy-out.
func (e *Engine) FinalizeAuction(ctx context.Context, auctionID uint) (*FinalizeResult, error) {
	var result FinalizeResult
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var auction models.Auction
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Auction{ID: auctionID}).
			First(&auction).
			Error; err != nil {
			return err
		}
		if auction.CanceledBy != nil {
			return ErrAlreadyCanceled
		}
		if auction.EndDate.After(time.Now()) {
			return ErrNotEnded
		}
		var settled int64
		if err := tx.
			Model(&models.Bid{}).
			Where(&models.Bid{AuctionID: auctionID, BuyNow: true}).
			Count(&settled).
			Error; err != nil {
			return err
		}
		if settled > 0 {
			return ErrAlreadySettled
		}
		var winner models.Bid
		if err := tx.
			Where(&models.Bid{AuctionID: auctionID}).
			Order("amount DESC").
			First(&winner).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoBids
			}
			return err
		}
		status, err := e.gateway.CapturePaymentIntent(ctx, winner.PaymentIntentId)
		if err != nil {
			return err
		}
		result = FinalizeResult{WinningAmount: winner.Amount, CaptureStatus: status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type AuctionDetail struct {
	Auction    *models.Auction `json:"auction"`
	HighestBid int64           `json:"highest_bid"`
	BidCount   int64           `json:"bid_count"`
	ImageURL   string          `json:"image_url"`
}

func (e *Engine) GetAuctionByID(ctx context.Context, auctionID uint) (*AuctionDetail, error) {
	var auction models.Auction
	if err := e.db.Where(&models.Auction{ID: auctionID}).First(&auction).Error; err != nil {
		return nil, err
	}
	var highestBid int64
	if err := e.db.
		Model(&models.Bid{}).
		Where("auction_id = ?", auctionID).
		Select("COALESCE(MAX(amount), 0)").
		Scan(&highestBid).
		Error; err != nil {
		return nil, err
	}
	var bidCount int64
	if err := e.db.
		Model(&models.Bid{}).
		Where("auction_id = ?", auctionID).
		Count(&bidCount).
		Error; err != nil {
		return nil, err
	}
	return &AuctionDetail{
		Auction:    &auction,
		HighestBid: highestBid,
		BidCount:   bidCount,
		ImageURL:   utils.AuctionImageURL(ctx, &auction),
	}, nil
}
