package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wolfman30/lodge-realestate-site/internal/api/router"
	appconfig "github.com/wolfman30/lodge-realestate-site/internal/config"
	"github.com/wolfman30/lodge-realestate-site/internal/leads"
	"github.com/wolfman30/lodge-realestate-site/internal/observability/metrics"
	"github.com/wolfman30/lodge-realestate-site/internal/site"
	"github.com/wolfman30/lodge-realestate-site/pkg/logging"
)

func main() {
	// Local development reads a .env file; deployed environments set real vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lodge site server",
		"env", cfg.Env,
		"port", cfg.Port,
		"leads_store", cfg.LeadsStore,
	)

	ctx := context.Background()
	store, closeStore, err := openLeadStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open lead store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	metricsHandler, leadMetrics := setupLeadMetrics()
	if !cfg.MetricsEnabled {
		metricsHandler = nil
	}

	siteHandler, err := site.NewHandler(site.Config{
		SiteName:    cfg.SiteName,
		AgentName:   cfg.AgentName,
		CalendarURL: cfg.CalendarURL,
		ReviewsURL:  cfg.ZillowReviewsURL,
	}, logger)
	if err != nil {
		logger.Error("failed to load site templates", "error", err)
		os.Exit(1)
	}

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(store, leadMetrics, logger),
		SiteHandler:        siteHandler,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server stopped")
}

// setupLeadMetrics builds a dedicated registry so /metrics only exposes this
// service's collectors plus the Go runtime.
func setupLeadMetrics() (http.Handler, *metrics.LeadMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewLeadMetrics(reg)
}

// openLeadStore returns the configured backend and a cleanup func.
func openLeadStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (leads.Store, func(), error) {
	switch cfg.LeadsStore {
	case appconfig.StorePostgres:
		pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
		if pool == nil {
			return nil, nil, errors.New("postgres lead store requires a reachable DATABASE_URL")
		}
		return leads.NewPostgresStore(pool), pool.Close, nil
	case appconfig.StoreSQLite:
		db, err := leads.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Warn("using local sqlite lead store", "path", cfg.SQLitePath)
		return leads.NewSQLStore(db), func() { _ = db.Close() }, nil
	case appconfig.StoreMemory:
		logger.Warn("using in-memory lead store; leads are lost on restart")
		return leads.NewInMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown lead store %q", cfg.LeadsStore)
	}
}

func connectPostgresPool(ctx context.Context, url string, logger *logging.Logger) *pgxpool.Pool {
	if url == "" {
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(pingCtx, url)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	if err := pool.Ping(pingCtx); err != nil {
		logger.Error("failed to ping postgres", "error", err)
		pool.Close()
		return nil
	}
	return pool
}
