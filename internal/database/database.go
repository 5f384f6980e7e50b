package database

import (
	"database/sql/driver"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"modernc.org/sqlite"
)

var (
	registerLower    sync.Once
	registerLowerErr error
)

// SQLite's built-in lower() folds ASCII only. Replacing it keeps
// case-insensitive filters consistent with Postgres for text like "Ärba Minch".
func registerUnicodeLower() error {
	registerLower.Do(func() {
		registerLowerErr = sqlite.RegisterDeterministicScalarFunction("lower", 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case string:
				return strings.ToLower(v), nil
			case []byte:
				return strings.ToLower(string(v)), nil
			default:
				return v, nil
			}
		})
	})
	return registerLowerErr
}

func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	if IsPostgres(dsn) {
		log.WithField("driver", "postgres").Info("connecting to database")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.WithFields(log.Fields{"driver": "sqlite", "dsn": dsn}).Info("using SQLite for local development")

	if err := registerUnicodeLower(); err != nil {
		return nil, err
	}

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer; ":memory:" databases also live per connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
