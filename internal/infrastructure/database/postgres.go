package database

import (
	"fmt"
	"log"

	"github.com/attarhouse/attarhouse-api/internal/config"
	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/infrastructure/seed"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
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
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Parties and catalog
		&entity.Party{},
		&entity.Product{},
		&entity.GiftSet{},
		&entity.Attar{},
		&entity.Stock{},
		&entity.PartyItemPrice{},

		// Orders and ledger
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Transaction{},

		// System entities
		&entity.Setting{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData makes sure the settings the order engine reads exist
func SeedDefaultData(db *gorm.DB, gstRate decimal.Decimal) error {
	log.Println("Seeding default data...")

	setting := entity.Setting{Key: entity.SettingKeyGSTRate, Value: gstRate.String()}
	if err := db.Where("key = ?", setting.Key).FirstOrCreate(&setting).Error; err != nil {
		return fmt.Errorf("failed to seed %s: %w", entity.SettingKeyGSTRate, err)
	}

	log.Println("Default data seeding completed")
	return nil
}

// SeedDataset inserts fixture rows that are not present yet. Existing rows,
// including stock counts and balances, are left untouched.
func SeedDataset(db *gorm.DB, ds *seed.Dataset) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for i := range ds.Parties {
			if err := tx.Where("id = ?", ds.Parties[i].ID).FirstOrCreate(&ds.Parties[i]).Error; err != nil {
				return fmt.Errorf("party %s: %w", ds.Parties[i].Name, err)
			}
		}
		for i := range ds.Products {
			if err := tx.Where("id = ?", ds.Products[i].ID).FirstOrCreate(&ds.Products[i]).Error; err != nil {
				return fmt.Errorf("product %s: %w", ds.Products[i].SKU, err)
			}
		}
		for i := range ds.GiftSets {
			if err := tx.Where("id = ?", ds.GiftSets[i].ID).FirstOrCreate(&ds.GiftSets[i]).Error; err != nil {
				return fmt.Errorf("set %s: %w", ds.GiftSets[i].SKU, err)
			}
		}
		for i := range ds.Attars {
			if err := tx.Where("id = ?", ds.Attars[i].ID).FirstOrCreate(&ds.Attars[i]).Error; err != nil {
				return fmt.Errorf("attar %s: %w", ds.Attars[i].SKU, err)
			}
		}
		for i := range ds.Stocks {
			st := &ds.Stocks[i]
			if err := tx.Where("item_kind = ? AND item_id = ?", st.ItemKind, st.ItemID).FirstOrCreate(st).Error; err != nil {
				return fmt.Errorf("stock %s: %w", st.Ref(), err)
			}
		}
		for i := range ds.Prices {
			p := &ds.Prices[i]
			if err := tx.Where("party_id = ? AND item_kind = ? AND item_id = ?", p.PartyID, p.ItemKind, p.ItemID).FirstOrCreate(p).Error; err != nil {
				return fmt.Errorf("price %s: %w", p.Ref(), err)
			}
		}
		for i := range ds.Settings {
			if err := tx.Where("key = ?", ds.Settings[i].Key).FirstOrCreate(&ds.Settings[i]).Error; err != nil {
				return fmt.Errorf("setting %s: %w", ds.Settings[i].Key, err)
			}
		}

		log.Printf("Seeded %d parties, %d products, %d sets, %d attars",
			len(ds.Parties), len(ds.Products), len(ds.GiftSets), len(ds.Attars))
		return nil
	})
}
