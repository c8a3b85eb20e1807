package common

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectDb opens the database named by a DATABASE_URL style address.
// postgres:// and postgresql:// go to the postgres driver; sqlite:<path>
// opens a local sqlite file (sqlite::memory: for an in-memory database).
func ConnectDb(databaseURL string, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	log.Info("database connected", zap.String("driver", dialector.Name()))
	return db, nil
}

func dialectorFor(databaseURL string) (gorm.Dialector, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return postgres.Open(databaseURL), nil
	case "sqlite":
		path := u.Opaque
		if path == "" {
			path = strings.TrimPrefix(u.Host+u.Path, "/")
		}
		if path == "" {
			return nil, fmt.Errorf("sqlite database url has no path: %q", databaseURL)
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}
