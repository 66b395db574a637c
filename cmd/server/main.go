package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborcredit/loanscreen/modules"
	"github.com/harborcredit/loanscreen/modules/loans/infrastructure/notifications"
	"github.com/harborcredit/loanscreen/pkg/application"
	"github.com/harborcredit/loanscreen/pkg/configuration"
	"github.com/harborcredit/loanscreen/pkg/eventbus"
	"github.com/harborcredit/loanscreen/pkg/metrics"
	"github.com/harborcredit/loanscreen/pkg/middleware"
	"github.com/harborcredit/loanscreen/pkg/outbox"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(poolCtx, conf.Database.ConnectionString())
	if err != nil {
		logger.WithError(err).Fatal("failed to create database pool")
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		logger.WithError(err).Fatal("failed to load modules")
	}
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	if err := app.Migrations().Apply(ctx, pool); err != nil {
		logger.WithError(err).Fatal("failed to apply schema")
	}

	startOutboxBackground(ctx, conf, pool, app)

	router := mux.NewRouter()
	router.Use(
		middleware.ProvidePool(pool),
		middleware.WithLogger(logger),
	)
	for _, controller := range app.Controllers() {
		controller.Register(router)
		logger.WithField("path", controller.Key()).Debug("controller registered")
	}

	srv := &http.Server{
		Addr:         conf.SocketAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("server shutdown failed")
		}
	}()

	logger.WithField("address", conf.SocketAddress).Info("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server stopped")
	}
	configuration.Use().Unload()
}

// startOutboxBackground launches the notification relay and the retention
// cleaner. Both stop with the root context; neither touches application rows.
func startOutboxBackground(
	ctx context.Context,
	conf *configuration.Configuration,
	pool *pgxpool.Pool,
	app application.Application,
) {
	logger := app.Logger()

	if conf.Outbox.RelayEnabled {
		relay := outbox.NewRelay(pool, notifications.NewLogDispatcher(logger), outbox.RelayOptions{
			PollInterval: conf.Outbox.RelayPollInterval,
			BatchSize:    conf.Outbox.RelayBatchSize,
			MaxAttempts:  conf.Outbox.RelayMaxAttempts,
			Logger:       logger,
		})
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("outbox relay stopped")
			}
		}()
	}

	if conf.Outbox.CleanerEnabled {
		cleaner := outbox.NewCleaner(pool, outbox.CleanerOptions{
			Interval:  conf.Outbox.CleanerInterval,
			Retention: conf.Outbox.CleanerRetention,
			Logger:    logger,
		})
		go func() {
			if err := cleaner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("outbox cleaner stopped")
			}
		}()
	}
}
