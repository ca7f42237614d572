package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ezeats/internal/model"
)

// NewMySQL returns a connected GORM DB instance.
// Driver errors are translated so repositories can match gorm.ErrDuplicatedKey.
func NewMySQL(dsn string) (*gorm.DB, error) {
	return Open(mysql.Open(dsn))
}

// Open returns a GORM DB over the given dialector.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// Models lists every table the service owns, in creation order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.MenuItem{},
		&model.Order{},
		&model.PaymentEvent{},
	}
}

// Migrate creates or updates the schema. With reset set, existing tables are dropped first.
func Migrate(db *gorm.DB, reset bool, log *zap.Logger) error {
	if reset {
		log.Warn("RESET_DB=true detected, dropping all tables")
		models := Models()
		for i := len(models) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(models[i]); err != nil {
				log.Warn("failed to drop table (may not exist)", zap.Error(err))
			}
		}
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
