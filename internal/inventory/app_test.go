package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/food-waste/internal/config"
	"github.com/tair/food-waste/internal/inventory/cache"
	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/internal/inventory/metrics"
	"github.com/tair/food-waste/kafka"
	"github.com/tair/food-waste/pkg/database"
)

func TestInitializeApp(t *testing.T) {
	db := database.NewTestDB(t, &domain.InventoryItem{})
	cfg := &config.Config{Environment: "test", NearExpiryDays: 3}

	app, err := InitializeApp(db, cfg, cache.Noop{}, kafka.NoopPublisher{}, metrics.NewMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)
	require.NotNil(t, app.Handler)
	require.NotNil(t, app.Sweep)
	require.NotNil(t, app.Donate)

	router := mux.NewRouter()
	app.Handler.RegisterRoutes(router)

	expiry := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)
	body := `{"productName":"Bagels","category":"bakery","quantity":6,"expiryDate":"` + expiry + `","price":"5.00"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/inventory", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	summary, err := app.Sweep.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Marked)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/donations/available", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"near-expiry"`)
	assert.Contains(t, rec.Body.String(), `"discountedPrice":3.5`)
}
