package inventory

import (
	"gorm.io/gorm"

	"github.com/tair/food-waste/internal/config"
	"github.com/tair/food-waste/internal/inventory/delivery/http"
	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/internal/inventory/repository"
	"github.com/tair/food-waste/internal/inventory/sweep"
	"github.com/tair/food-waste/internal/inventory/usecase/command"
)

// App bundles the entry points the process starts
type App struct {
	Handler *http.InventoryHandler
	Sweep   *sweep.Job
	Donate  *command.DonateItemHandler
}

// ProvideInventoryRepository provides the traced GORM inventory repository
func ProvideInventoryRepository(db *gorm.DB) domain.InventoryRepository {
	return repository.NewTracingInventoryRepository(repository.NewGormInventoryRepository(db))
}

// ProvideClock provides the wall clock in UTC
func ProvideClock() domain.Clock {
	return domain.SystemClock
}

// ProvideHandlerOptions derives HTTP behaviour from the service config
func ProvideHandlerOptions(cfg *config.Config) http.HandlerOptions {
	return http.HandlerOptions{
		ShowErrorDetails: cfg.IsDevelopment(),
		NearExpiryDays:   cfg.NearExpiryDays,
	}
}
