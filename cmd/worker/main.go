package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/salon-booking/config"
	"github.com/jwalitptl/salon-booking/internal/email"
	"github.com/jwalitptl/salon-booking/internal/handler/health"
	promHandler "github.com/jwalitptl/salon-booking/internal/handler/prometheus"
	"github.com/jwalitptl/salon-booking/internal/store"
	"github.com/jwalitptl/salon-booking/internal/worker"
	"github.com/jwalitptl/salon-booking/pkg/logger"
	"github.com/jwalitptl/salon-booking/pkg/messaging/redis"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
)

// setupHealthCheck serves probes and metrics for the worker on its own port.
func setupHealthCheck(port int, registry *prometheus.Registry, appLogger *logger.Logger, checks ...health.Check) *http.Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	health.NewHandler(checks...).RegisterRoutes(&engine.RouterGroup)
	engine.GET("/metrics", promHandler.New(registry).Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(err, "Health check server failed")
		}
	}()
	return srv
}

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger
	logCfg := cfg.Log.ToLoggerConfig()
	appLogger := logger.NewLogger(&logCfg).With("service", "worker")
	appLogger.SetGlobal()

	loc, err := cfg.Business.Location()
	if err != nil {
		appLogger.Fatal(err, "Invalid business timezone")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.NewMetrics(registry, "salon", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize store
	st, err := store.Open(ctx, cfg, m, appLogger)
	if err != nil {
		appLogger.Fatal(err, "Failed to open booking store")
	}
	defer st.Close()

	cat, cal, err := st.Snapshots(ctx, loc)
	if err != nil {
		appLogger.Fatal(err, "Failed to load catalog and business hours")
	}

	// Initialize Redis broker
	broker, err := redis.NewRedisBroker(ctx, cfg.Redis.ToBrokerConfig(), *appLogger.Zerolog())
	if err != nil {
		appLogger.Fatal(err, "Failed to create Redis broker")
	}
	defer broker.Close()

	// Initialize email
	var sender email.Sender
	if cfg.SMTP.Host != "" {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		sender = email.NewLogSender(appLogger)
	}
	composer := email.NewComposer(email.Business{
		Name:  cfg.Business.Name,
		Email: cfg.Business.Email,
		Phone: cfg.Business.Phone,
	}, loc)

	probe := setupHealthCheck(cfg.Worker.Port, registry, appLogger,
		health.Check{Name: cfg.Store.Driver, Pinger: st.Pinger},
		health.Check{Name: "redis", Pinger: broker},
	)

	// Schedule reminders
	scheduler := cron.New(cron.WithLocation(loc))
	if cfg.Reminder.Enabled {
		job := worker.NewReminderJob(st.Bookings, cat, cal, composer, sender, appLogger, m)
		if _, err := job.Schedule(scheduler, cfg.Reminder.Schedule); err != nil {
			appLogger.Fatal(err, "Failed to schedule reminders")
		}
		scheduler.Start()
		appLogger.Info("Reminders scheduled", "schedule", cfg.Reminder.Schedule)
	}

	consumer := worker.NewNotificationConsumer(broker, sender, composer, worker.NotificationConsumerConfig{
		RetryAttempts: cfg.Notification.MaxRetries,
		RetryDelay:    cfg.Notification.RetryDelay,
	}, appLogger, m)

	// Blocks until the signal context is cancelled.
	if err := consumer.Start(ctx); err != nil {
		appLogger.Error(err, "Notification consumer stopped")
	}

	appLogger.Info("Shutting down...")
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := probe.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "Health check server forced to shutdown")
	}
}
