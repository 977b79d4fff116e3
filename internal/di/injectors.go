//go:build wireinject
// +build wireinject

package di

import (
	"vehlog/internal"
	"vehlog/internal/controllers"
	"vehlog/internal/providers"
	"vehlog/internal/services"
	"vehlog/internal/snapshot"
	"vehlog/internal/storage"
	"vehlog/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		services.NewWorkingSetService,
		storage.NewKeyValueProvider,
		snapshot.NewStore,
		snapshot.NewScheduler,
		controllers.NewApiController,
		controllers.NewSnapshotController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}

// InitSnapshotStore builds the store used by the command line tools. The
// store is not loaded yet.
func InitSnapshotStore(cfg *structures.CliFlags) (snapshot.StoreInterface, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,

		services.NewWorkingSetService,
		storage.NewKeyValueProvider,
		snapshot.NewStore,
	)

	return nil, nil, nil
}
