package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"brokerdesk/internal/config"
	"brokerdesk/internal/database"
	"brokerdesk/internal/domain/cabinet"
	"brokerdesk/internal/pkg/logger"
)

// cabinet_repair detaches courtiers whose cabinet row is gone. Safe to run
// repeatedly, e.g. from cron.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flagSet := pflag.NewFlagSet("brokerdesk-cabinet-repair", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file")
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
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := cabinet.NewService(cabinet.NewRepository(db), log).RepairMemberships(ctx)
	if err != nil {
		return err
	}
	log.Info("cabinet repair completed", zap.Int64("detached", n))
	return nil
}
