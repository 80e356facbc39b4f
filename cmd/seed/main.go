package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"brokerdesk/internal/app"
	"brokerdesk/internal/config"
	"brokerdesk/internal/database"
	"brokerdesk/internal/domain/cabinet"
	"brokerdesk/internal/domain/client"
	"brokerdesk/internal/domain/courtier"
	"brokerdesk/internal/domain/relation"
	"brokerdesk/internal/domain/roster"
	"brokerdesk/internal/pkg/jwt"
	"brokerdesk/internal/pkg/logger"
)

type seedCourtier struct {
	id, email, first, last, role string
}

const seedAccountEmail = "nina.chevalier@mail.fr"

var courtiers = []seedCourtier{
	{"seed-admin", "claire.bernard@cabinet-bernard.fr", "Claire", "Bernard", "admin"},
	{"seed-manager", "hugo.lefebvre@cabinet-bernard.fr", "Hugo", "Lefebvre", ""},
	{"seed-associate", "lea.moreau@cabinet-bernard.fr", "Léa", "Moreau", ""},
	{"seed-solo", "marc.roux@independant.fr", "Marc", "Roux", ""},
}

var clients = []roster.AddClientInput{
	{Email: "julie.garnier@mail.fr", FirstName: "Julie", LastName: "Garnier", Phone: "0611223344", City: "Lyon", PostalCode: "69002"},
	{Email: "paul.faure@mail.fr", FirstName: "Paul", LastName: "Faure", Address: "12 rue Victor Hugo", City: "Nantes", PostalCode: "44000"},
	{Email: "sofia.girard@mail.fr", FirstName: "Sofia", LastName: "Girard", Notes: "Looking for a mortgage renegotiation"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var reset bool

	flagSet := pflag.NewFlagSet("brokerdesk-seed", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file")
	flagSet.BoolVar(&reset, "reset", false, "delete existing rows before seeding")
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
	if cfg.IsProdLike() {
		return fmt.Errorf("refusing to seed a %s environment", cfg.AppEnv)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if err := app.Migrate(db); err != nil {
		return err
	}
	if reset {
		for _, table := range []string{"broker_client_relations", "clients", "cabinets", "courtiers"} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		log.Info("existing rows deleted")
	}

	ctx := context.Background()
	courtierService := courtier.NewService(courtier.NewRepository(db))
	clientRepo := client.NewRepository(db)
	clientService := client.NewService(clientRepo)
	relationService := relation.NewService(relation.NewRepository(db), log, relation.Options{})
	cabinetService := cabinet.NewService(cabinet.NewRepository(db), log)
	rosterService := roster.NewService(courtierService, client.NewResolver(clientRepo), clientService, relationService,
		roster.NewStoreTx(db, log, relation.Options{}), log)

	for _, c := range courtiers {
		if _, err := courtierService.Register(ctx, c.id, courtier.RegisterInput{
			Email: c.email, FirstName: c.first, LastName: c.last, Role: c.role,
		}); err != nil {
			return fmt.Errorf("register %s: %w", c.id, err)
		}
	}

	cab, err := cabinetService.Create(ctx, cabinet.CreateInput{
		Name:  "Cabinet Bernard",
		Email: "contact@cabinet-bernard.fr",
		Phone: "0472000000",
	}, "seed-admin")
	if err != nil && !errors.Is(err, cabinet.ErrAlreadyInAnotherCabinet) {
		return fmt.Errorf("create cabinet: %w", err)
	}
	if cab != nil {
		if _, err := cabinetService.AddMember(ctx, cab.ID, "seed-manager", courtier.RoleManager); err != nil {
			return err
		}
		if _, err := cabinetService.AddMember(ctx, cab.ID, "seed-associate", courtier.RoleAssociate); err != nil {
			return err
		}
	}

	if _, err := clientService.RegisterAccount(ctx, "seed-account", seedAccountEmail, client.RegisterInput{
		Email: seedAccountEmail, FirstName: "Nina", LastName: "Chevalier", City: "Paris",
	}); err != nil {
		return fmt.Errorf("register account holder: %w", err)
	}

	for _, in := range clients {
		if _, err := rosterService.AddClient(ctx, "seed-admin", in); err != nil {
			return fmt.Errorf("add client %s: %w", in.Email, err)
		}
	}
	if _, err := rosterService.AddClient(ctx, "seed-solo", roster.AddClientInput{
		Email: "nina.chevalier@mail.fr", FirstName: "Nina", LastName: "Chevalier", Notes: "Account holder",
	}); err != nil {
		return err
	}

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	for _, id := range []string{"seed-admin", "seed-manager", "seed-associate", "seed-solo", "seed-account"} {
		token, err := tokens.GenerateToken(id)
		if id == "seed-account" {
			token, err = tokens.GenerateVerifiedToken(id, seedAccountEmail)
		}
		if err != nil {
			return err
		}
		fmt.Printf("%-15s %s\n", id, token)
	}

	log.Info("seed completed", zap.Int("courtiers", len(courtiers)), zap.Int("clients", len(clients)+1))
	return nil
}
