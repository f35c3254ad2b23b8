package database

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"connect3/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool limits for the Postgres connection pool.
const (
	maxOpenConns    = 20
	maxIdleConns    = 5
	connMaxLifetime = time.Hour
)

// Connect opens the Postgres graph store at uri, authenticating as user, and
// verifies the connection. The *gorm.DB it returns owns the connection pool.
func Connect(uri, user, password string) (*gorm.DB, error) {
	dsn, err := PostgresDSN(uri, user, password)
	if err != nil {
		return nil, err
	}

	db, err := Open(postgres.Open(dsn))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	return db, nil
}

// Open initializes gorm on the given dialector with the shared SQL logger.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	// Configure GORM logger
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,            // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         customLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the users, connections and posts tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Connection{}, &models.Post{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// PostgresDSN injects the credentials into a postgres:// URI. Credentials
// already present in the URI are replaced.
func PostgresDSN(uri, user, password string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid database URI: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("invalid database URI: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid database URI: missing host")
	}
	u.User = url.UserPassword(user, password)
	return u.String(), nil
}
