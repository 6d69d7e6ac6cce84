package main

import (
	"errors"
	"log"
	"net/http"

	"teebox/src/auction"
	"teebox/src/db"
	"teebox/src/lib"
	"teebox/src/payments"
	"teebox/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var auctionEngine *auction.Engine

func getAuctionEngine() *auction.Engine {
	if auctionEngine == nil {
		auctionEngine = auction.NewEngine(db.GetDb(), payments.NewStripeGateway(lib.GetStripeClient()))
	}
	return auctionEngine
}

func auctionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/auctions", func(ctx *gin.Context) {
			var body types.CreateAuctionRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			created, err := getAuctionEngine().CreateAuction(ctx.Copy(), userId, &body)
			if err != nil {
				log.Printf("Error creating Auction: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": created})
		}).
		GET("/auctions/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			detail, err := getAuctionEngine().GetAuctionByID(ctx.Copy(), params.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				log.Printf("Error retrieving Auction: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": detail})
		}).
		PUT("/auctions/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			if err := getAuctionEngine().CancelAuction(userId, params.ID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		POST("/auctions/:id/bids", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.PlaceBidRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			bid, err := getAuctionEngine().PlaceBid(ctx.Copy(), userId, params.ID, &body)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": bid})
		}).
		POST("/auctions/:id/buynow", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			clientSecret, err := getAuctionEngine().BuyNow(ctx.Copy(), userId, params.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"client_secret": clientSecret})
		}).
		POST("/auctions/:id/buynow/callback", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.BuyNowCallbackRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			if err := getAuctionEngine().BuyNowCallback(params.ID, userId, body.PaymentIntentID); err != nil {
				log.Printf("Error settling buy-now for Auction [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		POST("/auctions/:id/finalize", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := getAuctionEngine().FinalizeAuction(ctx.Copy(), params.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result})
		})
	return g
}
