package entity

import "time"

type DeviceType string

const (
	DeviceTablet  DeviceType = "tablet"
	DevicePrinter DeviceType = "printer"
	DeviceKDS     DeviceType = "kitchen-display"
)

func (t DeviceType) Valid() bool {
	return t == DeviceTablet || t == DevicePrinter || t == DeviceKDS
}

type Device struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Type      DeviceType `gorm:"size:32;not null" json:"type"`
	Status    string     `gorm:"size:16;not null;default:offline" json:"status"` // online | offline
	IPAddress *string    `json:"ipAddress,omitempty"`
	Location  *string    `json:"location,omitempty"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
