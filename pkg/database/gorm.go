package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes the pool and SQL logging. Zero values fall back to the
// defaults below.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool
}

var defaultOptions = Options{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: time.Hour,
}

func getLogger(logSQL bool) logger.Interface {
	level := logger.Warn
	if logSQL {
		level = logger.Info
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true, // FindOne treats it as "no provider"
			ParameterizedQueries:      true, // keep cpf and password hashes out of the log
			Colorful:                  true,
		},
	)
}

func configureConnectionPool(db *gorm.DB, opts Options) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	return nil
}

// Open connects to Postgres and checks the connection before returning.
func Open(dsn string, opts Options) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("database: empty connection string")
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = defaultOptions.MaxOpenConns
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = defaultOptions.MaxIdleConns
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = defaultOptions.ConnMaxLifetime
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: getLogger(opts.LogSQL),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	if err := configureConnectionPool(db, opts); err != nil {
		return nil, err
	}

	sqlDB, _ := db.DB()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return db, nil
}

// NewGormDBFromDSN opens with the default pool settings.
func NewGormDBFromDSN(dsn string) (*gorm.DB, error) {
	return Open(dsn, Options{})
}
