package http

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewSwaggerHandler serves the Swagger UI backed by the registered doc.json
func NewSwaggerHandler() http.Handler {
	return httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))
}

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for Inventory Service
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListItems godoc
// @Summary List inventory items
// @Description All inventory items, newest first
// @Tags Inventory
// @Produce json
// @Success 200 {array} domain.InventoryItem
// @Failure 500 {object} ErrorResponse
// @Router /api/inventory [get]
func (h *InventoryHandler) ListItemsDoc() {}

// CreateItem godoc
// @Summary Create inventory item
// @Description Adds a perishable item. Status always starts as available; location defaults to "Default Location".
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body object{productName=string,category=string,quantity=number,expiryDate=string,price=number,location=string} true "Item data"
// @Success 201 {object} domain.InventoryItem
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/inventory [post]
func (h *InventoryHandler) CreateItemDoc() {}

// ListNearExpiry godoc
// @Summary List items close to expiry
// @Description Available items whose expiry date falls within the next days (default 3)
// @Tags Inventory
// @Produce json
// @Param days query int false "Window in days"
// @Success 200 {array} domain.InventoryItem
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/inventory/near-expiry [get]
func (h *InventoryHandler) ListNearExpiryDoc() {}

// ListDonationCandidates godoc
// @Summary List donation candidates
// @Description Items flagged near-expiry by the sweep
// @Tags Donations
// @Produce json
// @Success 200 {array} domain.InventoryItem
// @Failure 500 {object} ErrorResponse
// @Router /api/donations/available [get]
func (h *InventoryHandler) ListDonationCandidatesDoc() {}

// DonateItem godoc
// @Summary Donate an item
// @Description Sets the item's status to donated
// @Tags Donations
// @Produce json
// @Param id path string true "Item ID (UUID)"
// @Success 200 {object} domain.InventoryItem
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/donations/donate/{id} [post]
func (h *InventoryHandler) DonateItemDoc() {}

// GetStats godoc
// @Summary Inventory stats
// @Tags Analytics
// @Produce json
// @Success 200 {object} domain.InventoryStats
// @Failure 500 {object} ErrorResponse
// @Router /api/analytics/stats [get]
func (h *InventoryHandler) GetStatsDoc() {}

// GetCategoryDistribution godoc
// @Summary Items per category
// @Tags Analytics
// @Produce json
// @Success 200 {array} domain.CategoryCount
// @Failure 500 {object} ErrorResponse
// @Router /api/analytics/category-distribution [get]
func (h *InventoryHandler) GetCategoryDistributionDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 503 {object} ErrorResponse
// @Router /health [get]
func (h *InventoryHandler) HealthCheckDoc() {}
