package internal

import (
	"context"
	"errors"
	"fmt"
	"freegames/internal/controllers"
	"freegames/internal/providers"
	"freegames/internal/state/interfaces"
	"freegames/internal/structures"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	WebServer       *http.Server
	scheduler       interfaces.SchedulerInterface
	logger          providers.Logger
	shutdownTimeout time.Duration
}

func NewApp(apiController *controllers.ApiController, healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, router, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	err := scheduler.Restore()
	if err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 2 * time.Minute, // POST /check waits for a full pass
			IdleTimeout:  60 * time.Second,
		},
		scheduler:       scheduler,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}

	scheduler.Init()
	logger.Infof(providers.TypeApp, "Checks scheduled with %q, cooldown %s", conf.Scheduler.Cron, conf.Registry.Cooldown)

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		return nil, errors.Join(fmt.Errorf("server error: %w", err), app.shutdown())
	}

	if err = app.shutdown(); err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}

// shutdown stops the scheduler, drains the HTTP server and persists the
// registry. Persist runs even when draining times out.
func (a *App) shutdown() error {
	a.scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var drainErr error
	if err := a.WebServer.Shutdown(ctx); err != nil {
		a.logger.Errorf(providers.TypeApp, "HTTP server did not stop cleanly: %s", err)
		drainErr = fmt.Errorf("http shutdown: %w", err)
	}
	return errors.Join(drainErr, a.scheduler.Persist())
}
