package postgres

import (
	"fmt"

	"github.com/LavaJover/shvark-credit-service/internal/config"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects with error translation enabled so unique violations surface
// as gorm.ErrDuplicatedKey on every driver.
func Open(dbCfg config.CreditDB) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dbCfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(dbCfg.Dsn)
	default:
		dialector = postgres.Open(dbCfg.Dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbCfg.Driver, err)
	}

	if dbCfg.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if dbCfg.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.CreditBalanceModel{},
		&models.GenerationHistoryModel{},
		&models.PaymentOrderModel{},
	); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}
