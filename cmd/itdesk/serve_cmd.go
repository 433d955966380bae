package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/mexilacteos/itdesk/modules"
	"github.com/mexilacteos/itdesk/pkg/application"
	"github.com/mexilacteos/itdesk/pkg/configuration"
	"github.com/mexilacteos/itdesk/pkg/eventbus"
	"github.com/mexilacteos/itdesk/pkg/metrics"
	"github.com/mexilacteos/itdesk/pkg/middleware"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	conf := configuration.Use()
	logger := conf.Logger()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(poolCtx, conf.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		return err
	}

	router := mux.NewRouter()
	router.Use(
		middleware.LogRequests(logger),
		middleware.ProvidePool(pool),
	)
	for _, controller := range app.Controllers() {
		controller.Register(router)
	}
	if conf.Prometheus.Enabled {
		metrics.NewPrometheusController(conf.Prometheus.Path).Register(router)
	}

	srv := &http.Server{
		Addr:              conf.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("address", conf.ServerAddress).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
