package configs

import (
	"fmt"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB opens the transaction store selected by DB_DRIVER.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBSource)
	case "postgres":
		dialector = postgres.Open(cfg.DBSource)
	case "mysql":
		dialector = mysql.Open(cfg.DBSource)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	return db, nil
}

func SetupDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Device{},
		&entity.Transaction{}, &entity.TransactionItem{},
	)
}
