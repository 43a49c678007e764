package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OptionEntry is a member of one of the three print option catalogs.
// Name is the immutable slug; DisplayName and SortOrder are editable.
type OptionEntry struct {
	ID          string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"not null;uniqueIndex" json:"name"`
	DisplayName string    `gorm:"not null" json:"display_name"`
	SortOrder   int       `gorm:"not null;default:0;index" json:"sort_order"`
}

// BeforeCreate hook to generate UUID
func (o *OptionEntry) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// PaperSize is the paper_sizes catalog
type PaperSize struct {
	OptionEntry
}

func (PaperSize) TableName() string {
	return "paper_sizes"
}

// PaperType is the paper_types catalog
type PaperType struct {
	OptionEntry
}

func (PaperType) TableName() string {
	return "paper_types"
}

// ColorMode is the color_modes catalog
type ColorMode struct {
	OptionEntry
}

func (ColorMode) TableName() string {
	return "color_modes"
}

// Catalog identifies one of the three option dimensions
type Catalog string

const (
	CatalogPaperSize Catalog = "paper_size"
	CatalogPaperType Catalog = "paper_type"
	CatalogColorMode Catalog = "color_mode"
)

// Catalogs lists every catalog in matrix dimension order
var Catalogs = []Catalog{CatalogPaperSize, CatalogPaperType, CatalogColorMode}

// ParseCatalog accepts the URL segment ("paper-sizes") or the catalog key ("paper_size")
func ParseCatalog(s string) (Catalog, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paper-sizes", "paper_sizes", "paper_size", "paper-size":
		return CatalogPaperSize, true
	case "paper-types", "paper_types", "paper_type", "paper-type":
		return CatalogPaperType, true
	case "color-modes", "color_modes", "color_mode", "color-mode":
		return CatalogColorMode, true
	}
	return "", false
}

// Table returns the catalog's table name
func (c Catalog) Table() string {
	switch c {
	case CatalogPaperSize:
		return PaperSize{}.TableName()
	case CatalogPaperType:
		return PaperType{}.TableName()
	case CatalogColorMode:
		return ColorMode{}.TableName()
	}
	return ""
}

// Column returns the foreign key column on print_combinations for this catalog
func (c Catalog) Column() string {
	switch c {
	case CatalogPaperSize, CatalogPaperType, CatalogColorMode:
		return string(c) + "_id"
	}
	return ""
}

// Segment returns the URL path segment for this catalog
func (c Catalog) Segment() string {
	return strings.ReplaceAll(c.Table(), "_", "-")
}

// Label returns a human readable name used in messages
func (c Catalog) Label() string {
	switch c {
	case CatalogPaperSize:
		return "Paper size"
	case CatalogPaperType:
		return "Paper type"
	case CatalogColorMode:
		return "Color mode"
	}
	return "Option"
}
