package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/matchcast/internal/adapters/http/api"
	"github.com/okian/matchcast/internal/adapters/http/site"
	"github.com/okian/matchcast/internal/adapters/http/swagger"
	"github.com/okian/matchcast/internal/adapters/provider/footballdata"
	"github.com/okian/matchcast/internal/adapters/provider/geocode"
	"github.com/okian/matchcast/internal/adapters/provider/upstream"
	"github.com/okian/matchcast/internal/adapters/provider/weather"
	app "github.com/okian/matchcast/internal/app"
	"github.com/okian/matchcast/internal/config"
	"github.com/okian/matchcast/internal/domain/prediction"
	"github.com/okian/matchcast/pkg/logger"
	"github.com/okian/matchcast/pkg/metrics"
)

// HTTP server timeout constants. An insight makes several sequential upstream
// calls, so the write timeout is well above the per-call timeout.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 2 * time.Minute
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := buildService(cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	srv := newHTTPServer(cfg.Addr, newRouter(ctx, svc))

	serveErr := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
	}
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildService wires the provider clients and the prediction engine into the
// application service.
func buildService(cfg *config.Config, log logger.Logger) *app.Service {
	timeout := cfg.UpstreamTimeout()
	client := func(provider string) *upstream.Client {
		return upstream.New(provider,
			upstream.WithTimeout(timeout),
			upstream.WithLogger(log.Named(provider)),
		)
	}

	engine := prediction.New(
		prediction.WithMaxGoals(cfg.MaxGoals),
		prediction.WithHomeAdvantage(cfg.HomeAdvantage),
		prediction.WithFormWindow(cfg.FormWindow),
	)

	return app.New(
		app.WithLogger(log),
		app.WithMatchSource(footballdata.New(client(footballdata.ProviderName), cfg.FootballBaseURL, cfg.FootballAPIKey)),
		app.WithLocator(geocode.New(client(geocode.ProviderName), cfg.GeocodeBaseURL, cfg.GoogleMapsAPIKey)),
		app.WithWeatherSource(weather.New(client(weather.ProviderName), cfg.WeatherBaseURL, cfg.OpenWeatherAPIKey, log.Named(weather.ProviderName))),
		app.WithForecaster(engine),
		app.WithFormTableSize(cfg.FormTableSize),
		app.WithGrid(cfg.IncludeGrid),
	)
}

// newRouter registers the API, the docs and the dashboard. The dashboard owns
// the catch-all prefix and goes last.
func newRouter(ctx context.Context, svc *app.Service) *mux.Router {
	router := mux.NewRouter()

	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, router)

	swagger.Register(ctx, router)
	site.Register(ctx, router)

	return router
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average GC pause
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
