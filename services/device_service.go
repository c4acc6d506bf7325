package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/repository"

	"gorm.io/gorm"
)

// devices not heard from for this long are shown offline
const DeviceStaleAfter = 2 * time.Minute

var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrDeviceName     = errors.New("device name is required")
	ErrDeviceType     = errors.New("invalid device type")
)

type RegisterDeviceInput struct {
	Name      string            `json:"name"`
	Type      entity.DeviceType `json:"type"`
	IPAddress *string           `json:"ipAddress"`
	Location  *string           `json:"location"`
}

type DeviceService struct {
	repo *repository.DeviceRepository
	now  func() time.Time
}

func NewDeviceService(repo *repository.DeviceRepository) *DeviceService {
	return &DeviceService{repo: repo, now: time.Now}
}

// Register adds a device or refreshes the one with the same name.
func (s *DeviceService) Register(ctx context.Context, in RegisterDeviceInput) (*entity.Device, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrDeviceName
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrDeviceType, in.Type)
	}
	d := &entity.Device{Name: name, Type: in.Type, Status: "offline", IPAddress: in.IPAddress, Location: in.Location}
	if err := s.repo.Upsert(ctx, d); err != nil {
		return nil, err
	}
	return s.repo.FindByName(ctx, name)
}

func (s *DeviceService) Heartbeat(ctx context.Context, id uint) error {
	err := s.repo.Heartbeat(ctx, id, s.now().UTC())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrDeviceNotFound
	}
	return err
}

func (s *DeviceService) List(ctx context.Context) ([]entity.Device, error) {
	return s.repo.List(ctx)
}

// SweepJob marks silent devices offline on every worker tick.
func (s *DeviceService) SweepJob() Job {
	return Job{Name: "device_sweep", Run: func(ctx context.Context) error {
		_, err := s.repo.MarkStale(ctx, s.now().UTC().Add(-DeviceStaleAfter))
		return err
	}}
}
