package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"statekeeper/internal/controllers"
	"statekeeper/internal/events"
	"statekeeper/internal/models"
	"statekeeper/internal/providers"
	"statekeeper/internal/reconcile"
	"statekeeper/internal/store"
	"statekeeper/internal/structures"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
	Store     *store.StateStore
	State     *reconcile.Reconciler

	conf   *structures.Config
	logger providers.Logger
	events events.ServiceInterface
}

func NewApp(conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface, healthController *controllers.HealthController, stateStore *store.StateStore, state *reconcile.Reconciler, eventService *events.Service) *App {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", providers.MetricsMiddleware(metrics, logger, apiMux))

	stateStore.Track(state)
	state.Subscribe(func(int64) { stateStore.MarkDirty() })

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Store:  stateStore,
		State:  state,
		conf:   conf,
		logger: logger,
		events: eventService,
	}
}

// Restore loads the saved record into the live state. A missing save is a
// new player: the fresh record is marked dirty so the next save creates it.
func (a *App) Restore(ctx context.Context) error {
	loaded, err := a.Store.Load(ctx)
	switch {
	case errors.Is(err, models.ErrNoData):
		a.logger.Infof(providers.TypeApp, "No save found for %s, starting a new player at v%d", a.conf.Storage.Key, models.CurrentVersion)
		a.Store.MarkDirty()
		return nil
	case err != nil:
		return err
	}
	a.State.Hydrate(loaded)
	return nil
}

// Run restores state, serves HTTP until SIGINT/SIGTERM or ctx is done, and
// flushes unsaved changes on the way out.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	if err := a.Restore(ctx); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	if results, err := a.events.ConvertExpired(ctx); err != nil {
		a.logger.Errorf(providers.TypeApp, "Event conversion error: %s", err)
	} else if len(results) > 0 {
		a.logger.Infof(providers.TypeApp, "Converted %d expired event balances on startup", len(results))
	}

	if a.conf.AutoSave.Enabled {
		if err := a.Store.EnableAutoSave(a.conf.AutoSave.Interval); err != nil {
			return err
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case <-ctx.Done():
		a.logger.Infof(providers.TypeApp, "Context canceled, shutting down")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.WebServer.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	if err := a.Store.Close(shutdownCtx); err != nil {
		a.logger.Errorf(providers.TypeApp, "Final save failed: %s", err)
		if runErr == nil {
			runErr = err
		}
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return runErr
}
