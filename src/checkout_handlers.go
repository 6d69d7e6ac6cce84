package main

import (
	"log"
	"net/http"

	"teebox/src/cart"
	"teebox/src/checkout"
	"teebox/src/db"
	"teebox/src/lib"
	"teebox/src/payments"
	"teebox/src/promo"
	"teebox/src/teesheet"
	"teebox/src/types"

	"github.com/gin-gonic/gin"
)

var (
	checkoutOrchestrator *checkout.Orchestrator
	promoValidator       *promo.Validator
)

func getPromoValidator() *promo.Validator {
	if promoValidator == nil {
		promoValidator = promo.NewValidator(db.GetDb())
	}
	return promoValidator
}

func getCheckoutOrchestrator() *checkout.Orchestrator {
	if checkoutOrchestrator == nil {
		d := db.GetDb()
		gateway := payments.NewStripeGateway(lib.GetStripeClient())
		validator := cart.NewValidator(d, teesheet.NewHTTPIndexer())
		checkoutOrchestrator = checkout.NewOrchestrator(d, gateway, validator, getPromoValidator())
	}
	return checkoutOrchestrator
}

func checkoutHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/checkout", func(ctx *gin.Context) {
			var body types.CheckoutRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			result, err := getCheckoutOrchestrator().BuildSession(ctx.Copy(), userId, &body)
			if err != nil {
				log.Printf("Error building CheckoutSession: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if len(result.Errors) > 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": result.Errors})
				return
			}
			session := result.Session
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{
				"session_id":    session.ID,
				"amount":        session.Amount,
				"client_secret": session.ClientSecret,
				"breakdown":     result.Breakdown,
			}})
		}).
		POST("/promocodes/validate", func(ctx *gin.Context) {
			var body types.ValidatePromoCodeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			discount, err := getPromoValidator().Validate(userId, body.Code, body.CourseID)
			if err != nil {
				log.Printf("Error validating promo code: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": discount})
		})
	return g
}
