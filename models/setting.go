package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Setting is a display or business setting stored as text.
// Values holding JSON documents are decoded by the settings service.
type Setting struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	Key       string    `gorm:"not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (s *Setting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Setting model
func (Setting) TableName() string {
	return "settings"
}

// Counter is a named monotonic high-water mark
type Counter struct {
	Name  string `gorm:"primarykey" json:"name"`
	Value int64  `gorm:"not null;default:0" json:"value"`
}

// TableName specifies the table name for Counter model
func (Counter) TableName() string {
	return "counters"
}

// CounterOrderNumber tracks the highest order number ever issued
const CounterOrderNumber = "order_number"

// All returns every model managed by AutoMigrate
func All() []interface{} {
	return []interface{}{
		&PaperSize{},
		&PaperType{},
		&ColorMode{},
		&Combination{},
		&Order{},
		&Setting{},
		&Counter{},
	}
}
