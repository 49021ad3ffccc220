package infra

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"payflow/internal/config"
	"payflow/internal/models/db_models"
)

// InitDatabase opens the configured driver. Postgres is the production store;
// sqlite backs local runs and tests.
func InitDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
		}
		dialector = postgres.Open(cfg.PostgresDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
	if cfg.IsDev() {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// sqlite allows a single writer.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("database connected", zap.String("driver", cfg.DBDriver))
	return db, nil
}

// oneDefaultMethodIndex keeps at most one active default method per user.
// The predicate is understood by both postgres and sqlite.
const oneDefaultMethodIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_methods_user_default
	ON payment_methods (user_id) WHERE is_default AND is_active`

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&db_models.Payment{},
		&db_models.PaymentMethod{},
		&db_models.Refund{},
		&db_models.Task{},
		&db_models.WebhookEvent{},
	)
	if err != nil {
		return err
	}
	return db.Exec(oneDefaultMethodIndex).Error
}

func CloseDatabase(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("get database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error("close database connection", zap.Error(err))
	} else {
		log.Info("database connection closed")
	}
}

// WithTransaction runs fn inside a transaction, rolling back when fn fails.
func WithTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	return ReleaseTransaction(tx, fn(tx))
}

func ReleaseTransaction(tx *gorm.DB, err error) error {
	if err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			zap.L().Error("rollback transaction", zap.Error(rollbackErr))
		}
		return err
	}
	return tx.Commit().Error
}
