package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"printshop_app_go/models"

	"gorm.io/gorm"
)

// maxSlugAttempts bounds the retries when a concurrent insert takes the probed slug
const maxSlugAttempts = 5

// OptionService manages the three option catalogs and keeps the matrix in step
type OptionService struct {
	DB     *gorm.DB
	Matrix *MatrixService
}

// NewOptionService creates an option service backed by the given matrix service
func NewOptionService(db *gorm.DB, matrix *MatrixService) *OptionService {
	if matrix == nil {
		matrix = NewMatrixService(db)
	}
	return &OptionService{DB: db, Matrix: matrix}
}

// OptionCatalogs groups the three catalogs for listing
type OptionCatalogs struct {
	PaperSizes []models.OptionEntry `json:"paperSizes"`
	PaperTypes []models.OptionEntry `json:"paperTypes"`
	ColorModes []models.OptionEntry `json:"colorModes"`
}

// OptionUpdate holds the editable fields of an option
type OptionUpdate struct {
	DisplayName *string
	SortOrder   *int
}

// ListOptions returns every catalog ordered by sort order then name
func (s *OptionService) ListOptions() (*OptionCatalogs, error) {
	out := &OptionCatalogs{}
	for _, c := range models.Catalogs {
		entries, err := s.ListCatalog(c)
		if err != nil {
			return nil, err
		}
		switch c {
		case models.CatalogPaperSize:
			out.PaperSizes = entries
		case models.CatalogPaperType:
			out.PaperTypes = entries
		case models.CatalogColorMode:
			out.ColorModes = entries
		}
	}
	return out, nil
}

// ListCatalog returns the members of one catalog
func (s *OptionService) ListCatalog(catalog models.Catalog) ([]models.OptionEntry, error) {
	entries := []models.OptionEntry{}
	if err := s.DB.Table(catalog.Table()).Order("sort_order ASC, name ASC").Find(&entries).Error; err != nil {
		return nil, storageErr(fmt.Sprintf("list %s", catalog.Table()), err)
	}
	return entries, nil
}

// GetOption fetches one option by id
func (s *OptionService) GetOption(catalog models.Catalog, id string) (*models.OptionEntry, error) {
	var entry models.OptionEntry
	err := s.DB.Table(catalog.Table()).Where("id = ?", id).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: catalog.Label()}
	}
	if err != nil {
		return nil, storageErr("get option", err)
	}
	return &entry, nil
}

// AddOption inserts a new option with a generated slug and expands the matrix for it.
// Both steps commit together or not at all.
func (s *OptionService) AddOption(catalog models.Catalog, displayName string, sortOrder int) (*models.OptionEntry, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, Invalid("display_name", "Display name is required")
	}

	var lastErr error
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		entry := &models.OptionEntry{DisplayName: displayName, SortOrder: sortOrder}

		err := s.DB.Transaction(func(tx *gorm.DB) error {
			name, err := GenerateUniqueName(tx, catalog.Table(), displayName)
			if err != nil {
				return fmt.Errorf("failed to generate name: %w", err)
			}
			entry.Name = name

			if err := tx.Table(catalog.Table()).Create(entry).Error; err != nil {
				return err
			}

			if _, err := s.Matrix.expand(tx, catalog, entry.ID); err != nil {
				return err
			}
			return nil
		})
		if err == nil {
			return entry, nil
		}
		if !isUniqueViolation(err) {
			return nil, storageErr("add option", err)
		}
		lastErr = err
	}

	return nil, retriesExhausted(fmt.Sprintf("Could not allocate a unique name for %q", displayName), maxSlugAttempts, lastErr)
}

// UpdateOption changes the display name and/or sort order of an option. The slug never changes.
func (s *OptionService) UpdateOption(catalog models.Catalog, id string, update OptionUpdate) error {
	updates := map[string]interface{}{}

	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if name == "" {
			return Invalid("display_name", "Display name cannot be empty")
		}
		updates["display_name"] = name
	}
	if update.SortOrder != nil {
		updates["sort_order"] = *update.SortOrder
	}
	if len(updates) == 0 {
		return Invalid("", "No fields to update")
	}
	updates["updated_at"] = time.Now()

	result := s.DB.Table(catalog.Table()).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return storageErr("update option", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: catalog.Label()}
	}
	return nil
}

// DeleteOption removes an option and every combination referencing it in one transaction
func (s *OptionService) DeleteOption(catalog models.Catalog, id string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(catalog.Column()+" = ?", id).Delete(&models.Combination{}).Error; err != nil {
			return fmt.Errorf("failed to delete combinations: %w", err)
		}

		result := tx.Table(catalog.Table()).Where("id = ?", id).Delete(&models.OptionEntry{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete option: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return &NotFoundError{Resource: catalog.Label()}
		}
		return nil
	})
	return storageErr("delete option", err)
}

// DefaultOption is a seed entry for a catalog
type DefaultOption struct {
	DisplayName string
	SortOrder   int
}

// DefaultOptions mirrors the default pricing table
var DefaultOptions = map[models.Catalog][]DefaultOption{
	models.CatalogPaperSize: {
		{"Letter", 1},
		{"Legal", 2},
		{"A4", 3},
		{"11x17", 4},
	},
	models.CatalogPaperType: {
		{"Standard", 1},
		{"Glossy", 2},
		{"Matte", 3},
		{"Cardstock", 4},
	},
	models.CatalogColorMode: {
		{"Black & White", 1},
		{"Color", 2},
	},
}

// SeedDefaultOptions fills empty catalogs with the default entries
func (s *OptionService) SeedDefaultOptions() error {
	for _, c := range models.Catalogs {
		var count int64
		if err := s.DB.Table(c.Table()).Count(&count).Error; err != nil {
			return storageErr("seed options", err)
		}
		if count > 0 {
			continue
		}
		for _, opt := range DefaultOptions[c] {
			if _, err := s.AddOption(c, opt.DisplayName, opt.SortOrder); err != nil {
				return fmt.Errorf("failed to seed %s %q: %w", c, opt.DisplayName, err)
			}
		}
	}
	return nil
}
