package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/salon-booking/config"
	bookingHandler "github.com/jwalitptl/salon-booking/internal/handler/booking"
	"github.com/jwalitptl/salon-booking/internal/handler/health"
	promHandler "github.com/jwalitptl/salon-booking/internal/handler/prometheus"
	"github.com/jwalitptl/salon-booking/internal/middleware"
	"github.com/jwalitptl/salon-booking/internal/router"
	bookingService "github.com/jwalitptl/salon-booking/internal/service/booking"
	"github.com/jwalitptl/salon-booking/internal/service/notification"
	"github.com/jwalitptl/salon-booking/internal/store"
	"github.com/jwalitptl/salon-booking/pkg/logger"
	"github.com/jwalitptl/salon-booking/pkg/messaging/redis"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize logger
	logCfg := cfg.Log.ToLoggerConfig()
	appLogger := logger.NewLogger(&logCfg)
	appLogger.SetGlobal()

	loc, err := cfg.Business.Location()
	if err != nil {
		appLogger.Fatal(err, "invalid business timezone")
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry, "salon", "api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize store and snapshots
	st, err := store.Open(ctx, cfg, m, appLogger)
	if err != nil {
		appLogger.Fatal(err, "failed to open booking store")
	}
	defer st.Close()

	cat, cal, err := st.Snapshots(ctx, loc)
	if err != nil {
		appLogger.Fatal(err, "failed to load catalog and business hours")
	}

	checks := []health.Check{{Name: cfg.Store.Driver, Pinger: st.Pinger}}

	// Initialize notifier
	var notifier notification.Notifier
	switch cfg.Notification.Driver {
	case config.NotifierRedis:
		broker, err := redis.NewRedisBroker(ctx, cfg.Redis.ToBrokerConfig(), *appLogger.Zerolog())
		if err != nil {
			appLogger.Fatal(err, "failed to connect to Redis")
		}
		defer broker.Close()
		notifier = notification.NewBrokerNotifier(broker, m, appLogger)
		checks = append(checks, health.Check{Name: "redis", Pinger: broker})
	default:
		notifier = notification.NewLogNotifier(appLogger)
	}

	// Initialize services
	svc := bookingService.NewService(cat, cal, st.Bookings, notifier, bookingService.Config{
		SlotCacheTTL:  cfg.Business.SlotCacheTTL,
		NotifyTimeout: cfg.Notification.Timeout,
	}, m, appLogger)

	// Setup router
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins

	routerCfg := router.RouterConfig{
		Mode:           cfg.Server.Mode,
		CORSConfig:     corsCfg,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		RequestTimeout: cfg.Server.WriteTimeout,
		MetricsPath:    cfg.Server.MetricsPath,
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimit = router.DefaultRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.ClientTTL)
	}

	r := router.NewRouter(routerCfg, m, promHandler.New(registry).Handler())
	r.Register(bookingHandler.NewHandler(svc))
	r.RegisterRoot(health.NewHandler(checks...))

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		appLogger.Info("Starting booking API", "addr", srv.Addr, "store", cfg.Store.Driver, "notifier", cfg.Notification.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "server forced to shutdown")
	}

	// Let in-flight notifications finish before the broker closes.
	svc.Wait()

	appLogger.Info("Server exited properly")
}
