//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/food-waste/internal/config"
	"github.com/tair/food-waste/internal/inventory/delivery/http"
	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/internal/inventory/metrics"
	"github.com/tair/food-waste/internal/inventory/sweep"
	"github.com/tair/food-waste/internal/inventory/usecase/command"
	"github.com/tair/food-waste/internal/inventory/usecase/query"
)

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideInventoryRepository,
)

var CommandSet = wire.NewSet(
	command.NewCreateItemHandler,
	command.NewDonateItemHandler,
	command.NewSweepNearExpiryHandler,
)

var QuerySet = wire.NewSet(
	ProvideClock,
	query.NewListItemsHandler,
	query.NewListNearExpiryHandler,
	query.NewListDonationCandidatesHandler,
	query.NewGetStatsHandler,
	query.NewCategoryDistributionHandler,
)

var SweepSet = wire.NewSet(
	wire.Bind(new(sweep.Sweeper), new(*command.SweepNearExpiryHandler)),
	sweep.NewJob,
)

var HandlerSet = wire.NewSet(
	ProvideHandlerOptions,
	http.NewInventoryHandler,
)

// InitializeApp initializes the HTTP handler, sweep job and donation command
func InitializeApp(
	db *gorm.DB,
	cfg *config.Config,
	cache domain.AnalyticsCache,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) (*App, error) {
	wire.Build(
		RepositorySet,
		CommandSet,
		QuerySet,
		SweepSet,
		HandlerSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
