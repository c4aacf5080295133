package database

import (
	"fmt"
	"log/slog"
	"time"

	"taxapi/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported values of DB_DRIVER
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Options controls how the connection pool is opened
type Options struct {
	Driver   string
	DSN      string
	LogLevel logger.LogLevel
	NowFunc  func() time.Time // clock for created_at/updated_at, defaults to gorm's
}

// NewConnection initializes a new connection pool using GORM and migrates the schema
func NewConnection(opts Options) (*gorm.DB, error) {
	db, err := Open(opts)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		slog.Warn("failed to auto-migrate models", "error", err)
	}

	return db, nil
}

// Open connects without touching the schema
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(level),
		NowFunc: opts.NowFunc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if opts.Driver == DriverSQLite {
		// a single connection keeps in-memory databases shared across the pool
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// Migrate creates or alters the tables owned by this service
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Tax{},
		&model.AuditLog{},
	)
}

// ParseLogLevel maps a DB_LOG_LEVEL value onto the gorm logger level, defaulting to warn
func ParseLogLevel(s string) logger.LogLevel {
	switch s {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres, "":
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
