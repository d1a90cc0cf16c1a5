package infra

import (
	"fmt"

	"epunch/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// to create / update all tables. The composite unique index on punch_cards
// (user_id, loyalty_program_id) backs the atomic get-or-create in the punch
// engine, so migration failure is fatal.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}

// RunMigrations applies the schema. Also used by integration tests against a
// containerized Postgres.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Merchant{},
		&model.LoyaltyProgram{},
		&model.User{},
		&model.MerchantUser{},
		&model.PunchCard{},
		&model.Punch{},
	)
}
