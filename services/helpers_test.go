package services

import (
	"fmt"
	"sync"
	"testing"

	"printshop_app_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database with every table migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:mem_%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New().String())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, testDB.AutoMigrate(models.All()...))
	return testDB
}

// recorder captures broadcast events
type recorder struct {
	mu       sync.Mutex
	events   []string
	payloads []any
}

func (r *recorder) Broadcast(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	r.payloads = append(r.payloads, payload)
}

func validOrderInput() OrderInput {
	return OrderInput{
		CustomerFirstName: "Ada",
		CustomerLastName:  "Lovelace",
		CustomerPhone:     "555-0100",
		CustomerEmail:     "ada@example.com",
		CustomerAddress:   "1 Analytical Way",
		PickupDate:        "2025-03-14",
		PickupTime:        "10:30",
		Copies:            2,
		PaperSize:         "letter",
		PaperType:         "standard",
		ColorMode:         "color",
	}
}
