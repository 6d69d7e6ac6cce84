package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"teebox/src/lib"
	"teebox/src/lib/aws"
	"teebox/src/models"
)

const imageURLTTL = 10 * time.Minute

// AuctionImageURL resolves the presigned URL for an auction's image,
// caching the result in redis. Missing assets and resolution failures
// fall back to the default image so listing pages never break on a
// bad upload.
func AuctionImageURL(ctx context.Context, auction *models.Auction) string {
	defaultURL := os.Getenv("DEFAULT_AUCTION_IMAGE_URL")
	if auction.ImageKey == nil || *auction.ImageKey == "" {
		return defaultURL
	}
	cacheKey := fmt.Sprintf("auctions:%d:image", auction.ID)
	rdb := lib.GetRedisClient()
	if rdb != nil {
		if cached, err := rdb.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			return cached
		}
	}
	url, err := aws.S3PresignAsset(ctx, *auction.ImageKey, time.Hour)
	if err != nil {
		if !errors.Is(err, aws.ErrNoSuchAsset) {
			log.Printf("Could not resolve image for auction [%d]: %s\n", auction.ID, err.Error())
		}
		return defaultURL
	}
	if rdb != nil {
		if err := rdb.SetEx(ctx, cacheKey, url, imageURLTTL).Err(); err != nil {
			log.Printf("[redis] Error caching image URL for auction [%d]: %s\n", auction.ID, err.Error())
		}
	}
	return url
}
