package configs

import (
	"github.com/jchou1989/XuanteaPOS-sub001/entity"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin account from ADMIN_NAME / ADMIN_PASSWORD.
func SeedAdmin(db *gorm.DB, cfg *Config) error {
	if cfg.AdminName == "" || cfg.AdminPassword == "" {
		log.Warn().Msg("skip seeding admin: missing ADMIN_NAME/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("name = ?", cfg.AdminName).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info().Str("name", cfg.AdminName).Msg("admin already exists")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{Name: cfg.AdminName, Password: string(hash), Role: "admin"}
	return db.Create(&admin).Error
}

// SeedDevices registers the in-store hardware the dashboard expects.
func SeedDevices(db *gorm.DB) error {
	for _, d := range []entity.Device{
		{Name: "Front Counter", Type: entity.DeviceTablet, Status: "offline"},
		{Name: "Label Printer", Type: entity.DevicePrinter, Status: "offline"},
		{Name: "Kitchen Display", Type: entity.DeviceKDS, Status: "offline"},
	} {
		if err := db.FirstOrCreate(&entity.Device{}, d).Error; err != nil {
			return err
		}
	}
	log.Info().Msg("devices seeded")
	return nil
}
