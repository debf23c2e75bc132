//go:build wireinject
// +build wireinject

package di

import (
	"freegames/internal"
	"freegames/internal/controllers"
	"freegames/internal/notify"
	"freegames/internal/providers"
	"freegames/internal/services"
	"freegames/internal/sources"
	"freegames/internal/state"
	"freegames/internal/structures"
	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		state.NewZstdCompressor,
		state.NewStore,
		services.NewRegistry,
		sources.NewSourceSet,
		services.NewChecker,
		notify.NewNotifier,
		services.NewAnnouncer,
		state.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
