package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices serialize as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Combination is one cell of the print option matrix
type Combination struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PaperSizeID string `gorm:"type:uuid;not null;uniqueIndex:idx_combination_triple,priority:1" json:"paper_size_id"`
	PaperTypeID string `gorm:"type:uuid;not null;uniqueIndex:idx_combination_triple,priority:2;index" json:"paper_type_id"`
	ColorModeID string `gorm:"type:uuid;not null;uniqueIndex:idx_combination_triple,priority:3;index" json:"color_mode_id"`

	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable bool            `gorm:"not null" json:"is_available"`
}

// BeforeCreate hook to generate UUID
func (c *Combination) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Combination model
func (Combination) TableName() string {
	return "print_combinations"
}

// CombinationRow is a combination joined with the display data of its three options
type CombinationRow struct {
	ID               string          `json:"id"`
	Price            decimal.Decimal `json:"price"`
	IsAvailable      bool            `json:"is_available"`
	PaperSizeID      string          `json:"paper_size_id"`
	PaperSizeName    string          `json:"paper_size_name"`
	PaperSizeDisplay string          `json:"paper_size_display"`
	PaperTypeID      string          `json:"paper_type_id"`
	PaperTypeName    string          `json:"paper_type_name"`
	PaperTypeDisplay string          `json:"paper_type_display"`
	ColorModeID      string          `json:"color_mode_id"`
	ColorModeName    string          `json:"color_mode_name"`
	ColorModeDisplay string          `json:"color_mode_display"`
}
