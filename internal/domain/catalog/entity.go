// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Food represents a sellable food item. The pricing pipeline treats it
// as read-only; only the admin component mutates it.
type Food struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null;size:255;index" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Price        int64          `gorm:"not null" json:"price"` // Price in paise
	CategoryID   uint           `gorm:"not null;index" json:"category_id"`
	CategoryName string         `gorm:"size:255" json:"category_name"`
	Image        string         `gorm:"size:500" json:"image"`
	Available    bool           `gorm:"default:true" json:"available"`
	Popular      bool           `gorm:"default:false" json:"popular"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
}

// Category represents a menu category
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Description string         `gorm:"size:500" json:"description"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Foods []Food `gorm:"foreignKey:CategoryID" json:"foods,omitempty"`
}

// TableName overrides
func (Food) TableName() string     { return "foods" }
func (Category) TableName() string { return "categories" }

// GetFormattedPrice returns price in rupees
func (f *Food) GetFormattedPrice() float64 {
	return float64(f.Price) / 100
}
