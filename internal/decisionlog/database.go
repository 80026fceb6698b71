// Package decisionlog is a SQLite-backed audit trail of scheduling
// decisions and profile observations, distinct from the binary profile
// store .dat files: this is a queryable history for internal/api to
// serve, not something the Scheduler reads back.
package decisionlog

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connection.
type DB struct {
	*gorm.DB
}

// Open connects to (creating if absent) a SQLite database at path and
// migrates the decisionlog schema.
func Open(path string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("decisionlog: connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("decisionlog: underlying db: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Decision{}, &Observation{}); err != nil {
		return nil, fmt.Errorf("decisionlog: migrate: %w", err)
	}

	return &DB{db}, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
