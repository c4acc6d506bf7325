package repository

import (
	"context"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceRepository struct {
	DB *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{DB: db}
}

// Upsert registers d by name, refreshing type, address and location when it already exists.
func (r *DeviceRepository) Upsert(ctx context.Context, d *entity.Device) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "ip_address", "location", "updated_at"}),
	}).Create(d).Error
}

func (r *DeviceRepository) FindByName(ctx context.Context, name string) (*entity.Device, error) {
	var d entity.Device
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeviceRepository) List(ctx context.Context) ([]entity.Device, error) {
	var out []entity.Device
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// Heartbeat marks the device online. Returns gorm.ErrRecordNotFound for unknown ids.
func (r *DeviceRepository) Heartbeat(ctx context.Context, id uint, at time.Time) error {
	res := r.DB.WithContext(ctx).Model(&entity.Device{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": "online", "last_seen": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkStale flips devices not seen since cutoff to offline.
func (r *DeviceRepository) MarkStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&entity.Device{}).
		Where("status = ? AND (last_seen IS NULL OR last_seen < ?)", "online", cutoff).
		Update("status", "offline")
	return res.RowsAffected, res.Error
}
