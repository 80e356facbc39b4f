// Package app wires the repositories, services and handlers into one gin
// engine.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"brokerdesk/internal/config"
	"brokerdesk/internal/domain/cabinet"
	"brokerdesk/internal/domain/client"
	"brokerdesk/internal/domain/courtier"
	"brokerdesk/internal/domain/relation"
	"brokerdesk/internal/domain/roster"
	"brokerdesk/internal/middleware"
	"brokerdesk/internal/pkg/jwt"
	"brokerdesk/internal/pkg/response"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&courtier.Courtier{},
		&client.Profile{},
		&relation.Relation{},
		&cabinet.Cabinet{},
	)
}

// NewRouter builds the HTTP API.
func NewRouter(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	courtierService := courtier.NewService(courtier.NewRepository(db))

	clientRepo := client.NewRepository(db)
	clientService := client.NewService(clientRepo)
	resolver := client.NewResolver(clientRepo)

	relationOpts := relation.Options{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}
	relationService := relation.NewService(relation.NewRepository(db), log.Named("relation"), relationOpts)
	cabinetService := cabinet.NewService(cabinet.NewRepository(db), log.Named("cabinet"))
	rosterService := roster.NewService(courtierService, resolver, clientService, relationService,
		roster.NewStoreTx(db, log.Named("relation"), relationOpts), log.Named("roster"))

	courtierHandler := courtier.NewHandler(courtierService)
	clientHandler := client.NewHandler(clientService, resolver,
		client.NewLookupHandler(resolver, cfg.LookupDebounce, cfg.CORSAllowedOrigins, log.Named("lookup")))
	relationHandler := relation.NewHandler(relationService)
	cabinetHandler := cabinet.NewHandler(cabinetService)
	rosterHandler := roster.NewHandler(rosterService)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", health(db))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", health(db))

		authed := v1.Group("")
		authed.Use(middleware.JWTAuth(jwtService))
		{
			courtierHandler.RegisterRoutes(authed)
			clientHandler.RegisterAccountRoutes(authed)

			brokers := authed.Group("")
			brokers.Use(middleware.RequireCourtier(courtierService))
			{
				clientHandler.RegisterRoutes(brokers)
				rosterHandler.RegisterRoutes(brokers)
				relationHandler.RegisterRoutes(brokers)
				cabinetHandler.RegisterRoutes(brokers)
			}
		}
	}

	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
