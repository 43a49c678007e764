package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"printshop_app_go/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportFixture() []models.Order {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []models.Order{
		{
			OrderNumber:       1001,
			Status:            models.StatusPaid,
			CustomerFirstName: "Ada",
			CustomerLastName:  "Lovelace",
			CustomerPhone:     "555-0100",
			CustomerEmail:     "ada@example.com",
			CustomerAddress:   "1 Analytical Way, London",
			PickupDate:        "2025-03-14",
			Copies:            3,
			DoubleSided:       true,
			EstimatedPrice:    decimal.NewNullDecimal(decimal.RequireFromString("7.5")),
			Notes:             "Call on arrival",
			CreatedAt:         created,
			UpdatedAt:         created,
		},
	}
}

func TestOrderExportRow(t *testing.T) {
	row := OrderExportRow(exportFixture()[0])
	require.Len(t, row, len(OrderExportHeader))
	assert.Equal(t, "1001", row[0])
	assert.Equal(t, "Ada Lovelace", row[1])
	assert.Equal(t, "paid", row[5])
	assert.Equal(t, "Yes", row[13])
	assert.Equal(t, "No", row[16])
	assert.Equal(t, "7.50", row[17])
	assert.Equal(t, "", row[18])
	assert.Equal(t, "2025-03-01T12:00:00Z", row[20])

	t.Run("Free text is decoded", func(t *testing.T) {
		o := exportFixture()[0]
		o.Notes = SanitizeText("Flyers & posters")
		assert.Equal(t, "Flyers &amp; posters", o.Notes)
		assert.Equal(t, "Flyers & posters", OrderExportRow(o)[22])
	})
}

func TestWriteOrdersCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersCSV(&buf, exportFixture()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, OrderExportHeader, records[0])
	assert.Equal(t, "1 Analytical Way, London", records[1][4])
}

func TestWriteOrdersXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersXLSX(&buf, exportFixture()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Order Number", rows[0][0])
	assert.Equal(t, "1001", rows[1][0])
	assert.Equal(t, "Ada Lovelace", rows[1][1])
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "orders-export-2025-03-14.csv", ExportFileName("csv", now))
}
