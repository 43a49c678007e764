package jobs

import (
	"fmt"
	"testing"

	"printshop_app_go/models"
	"printshop_app_go/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupJobTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:jobs_%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestCheckMatrix(t *testing.T) {
	db := setupJobTestDB(t)
	matrix := services.NewMatrixService(db)
	options := services.NewOptionService(db, matrix)
	require.NoError(t, options.SeedDefaultOptions())

	t.Run("Complete", func(t *testing.T) {
		report := CheckMatrix(matrix)
		assert.True(t, report.Complete())
		assert.Equal(t, int64(0), report.Added)
	})

	t.Run("Drifted", func(t *testing.T) {
		var victim models.Combination
		require.NoError(t, db.First(&victim).Error)
		require.NoError(t, db.Delete(&victim).Error)

		report := CheckMatrix(matrix)
		assert.True(t, report.Complete())
		assert.Equal(t, int64(1), report.Added)

		var count int64
		db.Model(&models.Combination{}).Count(&count)
		assert.Equal(t, int64(32), count)
	})
}

func TestStartScheduler(t *testing.T) {
	matrix := services.NewMatrixService(setupJobTestDB(t))

	c, err := StartScheduler(matrix, "")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	c.Stop()

	_, err = StartScheduler(matrix, "not a schedule")
	assert.Error(t, err)
}
