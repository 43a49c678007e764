package services

import (
	"fmt"
	"log"
	"strings"

	"printshop_app_go/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultCombinationPrice is the price given to newly created combinations
var DefaultCombinationPrice = decimal.RequireFromString("0.10")

// MatrixService maintains the paper size x paper type x color mode matrix
type MatrixService struct {
	DB           *gorm.DB
	DefaultPrice decimal.Decimal
}

// NewMatrixService creates a matrix service using the default combination price
func NewMatrixService(db *gorm.DB) *MatrixService {
	return &MatrixService{DB: db, DefaultPrice: DefaultCombinationPrice}
}

// CombinationUpdate holds the optional fields of a combination update
type CombinationUpdate struct {
	Price       *decimal.Decimal
	IsAvailable *bool
}

// MatrixReport summarizes a repair or verification run
type MatrixReport struct {
	Expected int64 `json:"expected"`
	Present  int64 `json:"present"`
	Missing  int64 `json:"missing"`
	Orphaned int64 `json:"orphaned"`
	Added    int64 `json:"added"`
	Removed  int64 `json:"removed"`
}

// Complete reports whether every live triple has exactly one combination and none are orphaned
func (r MatrixReport) Complete() bool {
	return r.Missing == 0 && r.Orphaned == 0
}

// ListCombinations returns every combination joined with its option names
func (s *MatrixService) ListCombinations() ([]models.CombinationRow, error) {
	var rows []models.CombinationRow

	err := s.DB.Table("print_combinations AS pc").
		Select(`pc.id, pc.price, pc.is_available,
			ps.id AS paper_size_id, ps.name AS paper_size_name, ps.display_name AS paper_size_display,
			pt.id AS paper_type_id, pt.name AS paper_type_name, pt.display_name AS paper_type_display,
			cm.id AS color_mode_id, cm.name AS color_mode_name, cm.display_name AS color_mode_display`).
		Joins("JOIN paper_sizes ps ON pc.paper_size_id = ps.id").
		Joins("JOIN paper_types pt ON pc.paper_type_id = pt.id").
		Joins("JOIN color_modes cm ON pc.color_mode_id = cm.id").
		Order("ps.sort_order, pt.sort_order, cm.sort_order, ps.name, pt.name, cm.name").
		Scan(&rows).Error
	if err != nil {
		return nil, storageErr("list combinations", err)
	}
	if rows == nil {
		rows = []models.CombinationRow{}
	}
	return rows, nil
}

// Expand creates the missing combinations for one option id.
// Existing triples are left untouched so repeated calls are harmless.
func (s *MatrixService) Expand(catalog models.Catalog, optionID string) (int64, error) {
	var added int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		n, err := s.expand(tx, catalog, optionID)
		added = n
		return err
	})
	if err != nil {
		return 0, storageErr("expand matrix", err)
	}
	return added, nil
}

func (s *MatrixService) expand(tx *gorm.DB, catalog models.Catalog, optionID string) (int64, error) {
	dims := make(map[models.Catalog][]string, len(models.Catalogs))
	for _, c := range models.Catalogs {
		if c == catalog {
			dims[c] = []string{optionID}
			continue
		}
		ids, err := optionIDs(tx, c)
		if err != nil {
			return 0, err
		}
		dims[c] = ids
	}
	return s.insertTriples(tx, dims[models.CatalogPaperSize], dims[models.CatalogPaperType], dims[models.CatalogColorMode])
}

func (s *MatrixService) insertTriples(tx *gorm.DB, sizes, types, modes []string) (int64, error) {
	combos := make([]models.Combination, 0, len(sizes)*len(types)*len(modes))
	for _, ps := range sizes {
		for _, pt := range types {
			for _, cm := range modes {
				combos = append(combos, models.Combination{
					PaperSizeID: ps,
					PaperTypeID: pt,
					ColorModeID: cm,
					Price:       s.DefaultPrice,
					IsAvailable: true,
				})
			}
		}
	}
	if len(combos) == 0 {
		return 0, nil
	}

	result := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&combos, 100)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert combinations: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ParseDefaultPrice reads a configured combination price. Empty means DefaultCombinationPrice;
// zero is a valid price.
func ParseDefaultPrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultCombinationPrice, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if price.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("price %s cannot be negative", price)
	}
	return price, nil
}

// UpdateCombination changes the price and/or availability of one combination
func (s *MatrixService) UpdateCombination(id string, update CombinationUpdate) error {
	updates := map[string]interface{}{}

	if update.Price != nil {
		if update.Price.IsNegative() {
			return Invalid("price", "Price must be a positive number")
		}
		updates["price"] = *update.Price
	}
	if update.IsAvailable != nil {
		updates["is_available"] = *update.IsAvailable
	}
	if len(updates) == 0 {
		return Invalid("", "No fields to update")
	}

	result := s.DB.Model(&models.Combination{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return storageErr("update combination", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: "Combination"}
	}
	return nil
}

// Repair recreates missing combinations and removes orphaned ones in a single transaction
func (s *MatrixService) Repair() (MatrixReport, error) {
	var report MatrixReport
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sizes, err := optionIDs(tx, models.CatalogPaperSize)
		if err != nil {
			return err
		}
		types, err := optionIDs(tx, models.CatalogPaperType)
		if err != nil {
			return err
		}
		modes, err := optionIDs(tx, models.CatalogColorMode)
		if err != nil {
			return err
		}

		removed := tx.Where(orphanCondition()).Delete(&models.Combination{})
		if removed.Error != nil {
			return fmt.Errorf("failed to remove orphaned combinations: %w", removed.Error)
		}
		report.Removed = removed.RowsAffected

		added, err := s.insertTriples(tx, sizes, types, modes)
		if err != nil {
			return err
		}
		report.Added = added
		return nil
	})
	if err != nil {
		return report, storageErr("repair matrix", err)
	}

	verified, err := s.Verify()
	if err != nil {
		return report, err
	}
	verified.Added = report.Added
	verified.Removed = report.Removed

	if verified.Added > 0 || verified.Removed > 0 {
		log.Printf("[INFO] Matrix repaired: %d combinations added, %d orphaned combinations removed", verified.Added, verified.Removed)
	}
	return verified, nil
}

// Verify counts missing and orphaned combinations without changing anything
func (s *MatrixService) Verify() (MatrixReport, error) {
	var report MatrixReport

	counts := make([]int64, 0, len(models.Catalogs))
	for _, c := range models.Catalogs {
		var n int64
		if err := s.DB.Table(c.Table()).Count(&n).Error; err != nil {
			return report, storageErr("verify matrix", err)
		}
		counts = append(counts, n)
	}
	report.Expected = counts[0] * counts[1] * counts[2]

	var total int64
	if err := s.DB.Model(&models.Combination{}).Count(&total).Error; err != nil {
		return report, storageErr("verify matrix", err)
	}
	if err := s.DB.Model(&models.Combination{}).Where(orphanCondition()).Count(&report.Orphaned).Error; err != nil {
		return report, storageErr("verify matrix", err)
	}

	report.Present = total - report.Orphaned
	report.Missing = report.Expected - report.Present
	return report, nil
}

func orphanCondition() string {
	parts := make([]string, 0, len(models.Catalogs))
	for _, c := range models.Catalogs {
		parts = append(parts, fmt.Sprintf("%s NOT IN (SELECT id FROM %s)", c.Column(), c.Table()))
	}
	return strings.Join(parts, " OR ")
}

func optionIDs(tx *gorm.DB, catalog models.Catalog) ([]string, error) {
	var ids []string
	if err := tx.Table(catalog.Table()).Order("sort_order, name").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s ids: %w", catalog, err)
	}
	return ids, nil
}

// CoerceBool converts a loosely typed JSON value into a boolean.
// Numbers are true when non-zero; strings are true unless empty or a common false word.
func CoerceBool(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "", "0", "false", "no", "off":
			return false
		}
		return true
	default:
		return true
	}
}
