// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pricetrack/backend/internal/config"
	"github.com/pricetrack/backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// Enable UUID generation for import run IDs
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\"").Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.Product{},
		&models.PriceObservation{},
		&models.ImportRun{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	if err := createTriggers(db); err != nil {
		return fmt.Errorf("failed to create triggers: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_number ON products(product_number)",
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)",

		// Price observation indexes
		"CREATE INDEX IF NOT EXISTS idx_price_observations_product_id ON price_observations(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_price_observations_current ON price_observations(is_current)",
		"CREATE INDEX IF NOT EXISTS idx_price_observations_valid_from ON price_observations(valid_from)",

		// At most one current observation per product. The ledger already
		// guarantees this in application logic; the partial index makes the
		// database reject a violation outright.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_price_observations_one_current ON price_observations(product_id) WHERE is_current",

		// Import run indexes
		"CREATE INDEX IF NOT EXISTS idx_import_runs_source_file ON import_runs(source_file)",
		"CREATE INDEX IF NOT EXISTS idx_import_runs_created_at ON import_runs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// createTriggers installs the updated_at refresh trigger on products: any
// update to a catalog row refreshes its timestamp, not just explicit field
// changes.
func createTriggers(db *gorm.DB) error {
	statements := []string{
		`CREATE OR REPLACE FUNCTION refresh_products_updated_at() RETURNS trigger AS $$
		BEGIN
			NEW.updated_at = CURRENT_TIMESTAMP;
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql`,
		`DROP TRIGGER IF EXISTS products_refresh_updated_at ON products`,
		`CREATE TRIGGER products_refresh_updated_at
			BEFORE UPDATE ON products
			FOR EACH ROW EXECUTE FUNCTION refresh_products_updated_at()`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to install updated_at trigger: %w", err)
		}
	}

	return nil
}
