package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/internal/inventory/metrics"
	"github.com/tair/food-waste/internal/inventory/usecase/command"
	"github.com/tair/food-waste/internal/inventory/usecase/query"
	"github.com/tair/food-waste/pkg/logger"
)

// HandlerOptions tunes response behaviour
type HandlerOptions struct {
	// ShowErrorDetails adds the underlying error text to error bodies.
	ShowErrorDetails bool
	// NearExpiryDays is the default window for GET /api/inventory/near-expiry.
	NearExpiryDays int
}

// InventoryHandler handles HTTP requests for inventory using CQRS pattern
type InventoryHandler struct {
	// Command handlers
	createHandler *command.CreateItemHandler
	donateHandler *command.DonateItemHandler

	// Query handlers
	listHandler         *query.ListItemsHandler
	nearExpiryHandler   *query.ListNearExpiryHandler
	candidatesHandler   *query.ListDonationCandidatesHandler
	statsHandler        *query.GetStatsHandler
	distributionHandler *query.CategoryDistributionHandler

	metrics *metrics.Metrics
	opts    HandlerOptions
}

// NewInventoryHandler creates a new inventory handler
// This is used by Wire for automatic dependency injection
func NewInventoryHandler(
	createHandler *command.CreateItemHandler,
	donateHandler *command.DonateItemHandler,
	listHandler *query.ListItemsHandler,
	nearExpiryHandler *query.ListNearExpiryHandler,
	candidatesHandler *query.ListDonationCandidatesHandler,
	statsHandler *query.GetStatsHandler,
	distributionHandler *query.CategoryDistributionHandler,
	m *metrics.Metrics,
	opts HandlerOptions,
) *InventoryHandler {
	if opts.NearExpiryDays <= 0 {
		opts.NearExpiryDays = domain.NearExpiryWindowDays
	}
	return &InventoryHandler{
		createHandler:       createHandler,
		donateHandler:       donateHandler,
		listHandler:         listHandler,
		nearExpiryHandler:   nearExpiryHandler,
		candidatesHandler:   candidatesHandler,
		statsHandler:        statsHandler,
		distributionHandler: distributionHandler,
		metrics:             m,
		opts:                opts,
	}
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageResponse carries a plain status message
type MessageResponse struct {
	Message string `json:"message"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *InventoryHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		if h.metrics != nil {
			h.metrics.ObserveRequest(r.Method, endpoint, strconv.Itoa(rw.statusCode), time.Since(start))
		}
	}
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/test", h.metricsMiddleware("/api/test", h.Ping)).Methods("GET")

	api.HandleFunc("/inventory", h.metricsMiddleware("/api/inventory", h.ListItems)).Methods("GET")
	api.HandleFunc("/inventory", h.metricsMiddleware("/api/inventory", h.CreateItem)).Methods("POST")
	api.HandleFunc("/inventory/near-expiry", h.metricsMiddleware("/api/inventory/near-expiry", h.ListNearExpiry)).Methods("GET")

	api.HandleFunc("/donations/available", h.metricsMiddleware("/api/donations/available", h.ListDonationCandidates)).Methods("GET")
	api.HandleFunc("/donations/donate/{id}", h.metricsMiddleware("/api/donations/donate/{id}", h.DonateItem)).Methods("POST")

	api.HandleFunc("/analytics/stats", h.metricsMiddleware("/api/analytics/stats", h.GetStats)).Methods("GET")
	api.HandleFunc("/analytics/category-distribution", h.metricsMiddleware("/api/analytics/category-distribution", h.GetCategoryDistribution)).Methods("GET")
}

// Ping handles GET /api/test
func (h *InventoryHandler) Ping(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MessageResponse{Message: "Backend is running"})
}

// ListItems handles GET /api/inventory
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.listHandler.Handle(r.Context(), query.ListItemsQuery{})
	if err != nil {
		h.respondError(w, r, err, "Error fetching inventory")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// CreateItem handles POST /api/inventory
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondStatus(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	item, err := h.createHandler.Handle(r.Context(), req.toCommand())
	if err != nil {
		h.respondError(w, r, err, "Error creating inventory item")
		return
	}

	logger.Info(r.Context()).
		Str("item_id", item.ID.String()).
		Str("category", string(item.Category)).
		Msg("Inventory item created")

	respondJSON(w, http.StatusCreated, item)
}

// ListNearExpiry handles GET /api/inventory/near-expiry
func (h *InventoryHandler) ListNearExpiry(w http.ResponseWriter, r *http.Request) {
	days := h.opts.NearExpiryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.respondStatus(w, r, http.StatusBadRequest, "Invalid value for parameter: days", err)
			return
		}
		days = n
	}

	items, err := h.nearExpiryHandler.Handle(r.Context(), query.ListNearExpiryQuery{Days: &days})
	if err != nil {
		h.respondError(w, r, err, "Error fetching near-expiry items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// ListDonationCandidates handles GET /api/donations/available
func (h *InventoryHandler) ListDonationCandidates(w http.ResponseWriter, r *http.Request) {
	items, err := h.candidatesHandler.Handle(r.Context(), query.ListDonationCandidatesQuery{})
	if err != nil {
		h.respondError(w, r, err, "Error fetching donation items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// DonateItem handles POST /api/donations/donate/{id}
func (h *InventoryHandler) DonateItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	item, err := h.donateHandler.Handle(r.Context(), command.DonateItemCommand{ItemID: id})
	if err != nil {
		h.respondError(w, r, err, "Error marking item for donation")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// GetStats handles GET /api/analytics/stats
func (h *InventoryHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		h.respondError(w, r, err, "Error fetching analytics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetCategoryDistribution handles GET /api/analytics/category-distribution
func (h *InventoryHandler) GetCategoryDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.distributionHandler.Handle(r.Context(), query.CategoryDistributionQuery{})
	if err != nil {
		h.respondError(w, r, err, "Error fetching category distribution")
		return
	}
	respondJSON(w, http.StatusOK, dist)
}

// RegisterHealthCheck registers health check endpoint
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			h.respondStatus(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}

		respondJSON(w, http.StatusOK, MessageResponse{Message: "Inventory service is healthy"})
	}).Methods("GET")
}

// respondError maps use case errors onto HTTP statuses.
// fallback is the client message for unexpected failures.
func (h *InventoryHandler) respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.respondStatus(w, r, http.StatusBadRequest, validationErr.Error(), err)
	case errors.Is(err, domain.ErrInvalidID):
		h.respondStatus(w, r, http.StatusBadRequest, "Invalid item ID", err)
	case errors.Is(err, domain.ErrItemNotFound):
		h.respondStatus(w, r, http.StatusNotFound, "Item not found", err)
	default:
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg(fallback)
		h.respondStatus(w, r, http.StatusInternalServerError, fallback, err)
	}
}

func (h *InventoryHandler) respondStatus(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	body := ErrorResponse{Message: message}
	if h.opts.ShowErrorDetails && err != nil {
		body.Error = err.Error()
	}
	respondJSON(w, status, body)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to encode response")
	}
}
