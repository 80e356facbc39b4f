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

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"brokerdesk/internal/app"
	"brokerdesk/internal/config"
	"brokerdesk/internal/database"
	"brokerdesk/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		addr       string
		migrate    string
	)

	flagSet := pflag.NewFlagSet("brokerdesk-api", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file")
	flagSet.StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")
	flagSet.StringVar(&migrate, "migrate", "", "run migrations on start (true/false), overrides AUTO_MIGRATE")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.HTTPAddr = addr
	}
	if migrate != "" {
		cfg.AutoMigrate = migrate == "true" || migrate == "1"
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := app.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.NewRouter(cfg, db, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
