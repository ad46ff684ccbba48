// Package testutil provides the in-memory database and logger used by
// package tests.
package testutil

import (
	"io"
	"testing"

	"bloodbank-inventory/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the inventory schema.
// One connection keeps the database alive and serializes transactions, so
// concurrent callers queue the way row locks make them queue on Postgres.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.DonorProfile{},
		&entity.BloodBag{},
		&entity.BloodRequest{},
		&entity.BloodIssuance{},
		&entity.StockSummary{},
		&entity.AuditLog{},
	))
	return db
}

// NewLogger returns a logger that discards output
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
