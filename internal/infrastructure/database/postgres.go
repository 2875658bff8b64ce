package database

import (
	"fmt"
	"log"

	"github.com/sangkips/stayledger-api/internal/config"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Directory
		&entity.Host{},
		&entity.Property{},
		&entity.Client{},
		&entity.Pincode{},

		// Bookings and billing
		&entity.Reservation{},
		&entity.Invoice{},
		&entity.InvoiceItem{},

		// System
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// DefaultPincodes seeds the lookup directory with the metro head offices.
var DefaultPincodes = []entity.Pincode{
	{Code: "110001", City: "New Delhi", District: "Central Delhi", State: "Delhi", StateCode: "07"},
	{Code: "400001", City: "Mumbai", District: "Mumbai", State: "Maharashtra", StateCode: "27"},
	{Code: "411001", City: "Pune", District: "Pune", State: "Maharashtra", StateCode: "27"},
	{Code: "560001", City: "Bengaluru", District: "Bengaluru Urban", State: "Karnataka", StateCode: "29"},
	{Code: "600001", City: "Chennai", District: "Chennai", State: "Tamil Nadu", StateCode: "33"},
	{Code: "500001", City: "Hyderabad", District: "Hyderabad", State: "Telangana", StateCode: "36"},
	{Code: "700001", City: "Kolkata", District: "Kolkata", State: "West Bengal", StateCode: "19"},
	{Code: "380001", City: "Ahmedabad", District: "Ahmedabad", State: "Gujarat", StateCode: "24"},
	{Code: "403001", City: "Panaji", District: "North Goa", State: "Goa", StateCode: "30"},
	{Code: "682001", City: "Kochi", District: "Ernakulam", State: "Kerala", StateCode: "32"},
	{Code: "302001", City: "Jaipur", District: "Jaipur", State: "Rajasthan", StateCode: "08"},
	{Code: "160017", City: "Chandigarh", District: "Chandigarh", State: "Chandigarh", StateCode: "04"},
}

// SeedDefaultData inserts the pincode directory. Existing rows are left alone.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&DefaultPincodes)
	if res.Error != nil {
		return fmt.Errorf("failed to seed pincodes: %w", res.Error)
	}

	log.Printf("Default data seeding completed (%d pincodes added)", res.RowsAffected)
	return nil
}
