package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibelink-events/vibelink-api/catalog"
	"github.com/vibelink-events/vibelink-api/pricing"
)

// QuoteRequest is the price-relevant part of the order form
type QuoteRequest struct {
	SelectedPackage string   `json:"selected_package"`
	SelectedAddOns  []string `json:"selected_add_ons"`
	DeliveryUrgency string   `json:"delivery_urgency"`
}

// GetCatalog handles GET /api/v1/catalog - returns everything the wizard offers
func GetCatalog(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{
		"event_types":       catalog.EventTypes,
		"packages":          catalog.Packages,
		"add_ons":           catalog.AddOns,
		"color_palettes":    catalog.ColorPalettes,
		"style_preferences": catalog.StylePreferences,
		"rush_fee":          catalog.RushFee,
	})
}

// CreateQuote handles POST /api/v1/quotes - prices a package, add-ons and delivery choice
func CreateQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if req.DeliveryUrgency == "" {
		req.DeliveryUrgency = pricing.DeliveryStandard
	}

	quote := pricing.Calculate(pricing.Selection{
		PackageID:       req.SelectedPackage,
		AddOnIDs:        req.SelectedAddOns,
		DeliveryUrgency: req.DeliveryUrgency,
	})
	respondData(c, http.StatusOK, quote)
}
