package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arushkumarsingh/mellow/internal/catalog"
	"github.com/arushkumarsingh/mellow/internal/config"
	"github.com/arushkumarsingh/mellow/internal/db"
	"github.com/arushkumarsingh/mellow/internal/events"
	"github.com/arushkumarsingh/mellow/internal/gateway"
	httpserver "github.com/arushkumarsingh/mellow/internal/http"
	"github.com/arushkumarsingh/mellow/internal/session"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.WithError(err).Fatal("run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.WithError(err).Fatal("open db pool")
	}
	defer pool.Close()

	rabbitConn, err := events.DialRabbit(cfg.RabbitURL)
	if err != nil {
		logger.WithError(err).Fatal("dial rabbitmq")
	}
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn)
	if err != nil {
		logger.WithError(err).Fatal("create publisher")
	}

	catalogRepo := catalog.NewPostgresRepository(pool)
	sessions := session.NewManager()
	submitter := gateway.NewClient(cfg.GatewayURL, cfg.GatewayTimeout)

	handler := httpserver.NewStorefrontHandler(catalogRepo, sessions, submitter, publisher, logger)
	router := httpserver.NewRouter(handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Info("storefront listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.WithError(err).Fatal("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("graceful shutdown error")
	}
	if err := publisher.Close(); err != nil {
		logger.WithError(err).Warn("publisher close error")
	}
}
