package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sizecalc/sizing-api/internal/auth"
	"github.com/sizecalc/sizing-api/internal/config"
	"github.com/sizecalc/sizing-api/internal/logging"
	"github.com/sizecalc/sizing-api/internal/server"
	"github.com/sizecalc/sizing-api/internal/store"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx := context.Background()

	manager := store.NewManager(store.Options{
		DSN:             cfg.DatabaseDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		ConnectTimeout:  cfg.ConnectTimeout,
		PingTimeout:     cfg.PingTimeout,
	}, logger)

	if err := manager.Connect(ctx); err != nil {
		return err
	}
	defer manager.Close()

	if err := manager.EnsureSchema(ctx); err != nil {
		return err
	}

	// advisory only: logs violations, never blocks startup
	manager.CheckDataQuality(ctx)

	db := manager.DB()
	sweeper := store.NewSweeper(
		store.NewActivities(db),
		store.NewReports(db),
		store.NewChatMessages(db),
		logger,
	).WithRetention(cfg.ActivityRetention, cfg.ReportRetention, cfg.ChatRetention)

	if err := sweeper.Start(); err != nil {
		return err
	}
	defer sweeper.Stop()

	tokens := auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenTTL)
	srv := server.New(cfg, logger, manager, tokens)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.WithField("signal", sig.String()).Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
