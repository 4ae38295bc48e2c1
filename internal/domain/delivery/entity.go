// internal/domain/delivery/entity.go
package delivery

import (
	"time"

	"gorm.io/gorm"
)

// Partner represents a delivery partner who can be assigned to orders
type Partner struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	Phone         string         `gorm:"not null;size:20" json:"phone"`
	VehicleNumber string         `gorm:"size:50" json:"vehicle_number"`
	Lat           *float64       `json:"lat,omitempty"`
	Lng           *float64       `json:"lng,omitempty"`
	Available     bool           `gorm:"default:true" json:"available"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Partner) TableName() string {
	return "delivery_partners"
}
