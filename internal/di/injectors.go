//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"statekeeper/internal"
	"statekeeper/internal/controllers"
	"statekeeper/internal/events"
	"statekeeper/internal/migration"
	"statekeeper/internal/providers"
	"statekeeper/internal/reconcile"
	"statekeeper/internal/services"
	"statekeeper/internal/storage"
	"statekeeper/internal/store"
	"statekeeper/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		provideLogger,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewTimeProvider,

		storage.NewBackendProvider,
		storage.NewZstdCompressor,
		store.NewCodecProvider,
		migration.NewDefaultChain,
		store.NewStateStoreProvider,
		reconcile.NewReconciler,

		services.NewStaticCatalog,
		wire.Bind(new(services.ProductCatalog), new(*services.StaticCatalog)),
		wire.Bind(new(services.StageCatalog), new(*services.StaticCatalog)),
		wire.Bind(new(events.Catalog), new(*services.StaticCatalog)),
		wire.Bind(new(services.StateAccessor), new(*reconcile.Reconciler)),
		wire.Bind(new(events.State), new(*reconcile.Reconciler)),
		wire.Bind(new(controllers.StateView), new(*reconcile.Reconciler)),
		wire.Bind(new(controllers.SyncStatus), new(*store.StateStore)),

		services.NewPurchaseService,
		wire.Bind(new(services.PurchaseServiceInterface), new(*services.PurchaseService)),
		services.NewStageEntryService,
		wire.Bind(new(services.StageEntryServiceInterface), new(*services.StageEntryService)),
		events.NewLifecycle,
		events.NewService,
		wire.Bind(new(events.ServiceInterface), new(*events.Service)),

		controllers.NewStateController,
		controllers.NewLimitsController,
		controllers.NewEventsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
