package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// registers the cgo-free "sqlite" driver used below
	_ "modernc.org/sqlite"
)

// Connect opens PostgreSQL for postgres:// DSNs and SQLite for anything else.
// gorm logs failed and slow queries through log.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg := &gorm.Config{
		Logger:         newGormLogger(log),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Info("using SQLite", zap.String("dsn", dsn))

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// ConnectMemory opens a private in-memory SQLite database named name, pinned
// to a single connection so every query sees the same data.
func ConnectMemory(name string) (*gorm.DB, error) {
	db, err := Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", sanitize(name)), nil)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}
