package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"strconv"
	"time"

	"printshop_app_go/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// OrderExportHeader is the column set of the order export
var OrderExportHeader = []string{
	"Order Number", "Customer Name", "Phone", "Email", "Address", "Status",
	"Pickup Date", "Order Description", "Special Instructions", "Copies",
	"Paper Size", "Paper Type", "Color Mode", "Double Sided", "Binding Type",
	"Finishing Options", "Rush Order", "Estimated Price", "Final Price",
	"Print Ready", "Created At", "Updated At", "Notes",
}

const exportSheet = "Orders"

// OrderExportRow flattens an order into export cells. Free text is stored HTML-escaped and
// is decoded here because spreadsheets show it as plain text.
func OrderExportRow(o models.Order) []string {
	return []string{
		strconv.FormatInt(o.OrderNumber, 10),
		o.CustomerName(),
		o.CustomerPhone,
		o.CustomerEmail,
		o.CustomerAddress,
		string(o.Status),
		o.PickupDate,
		html.UnescapeString(o.OrderDescription),
		html.UnescapeString(o.SpecialInstructions),
		strconv.Itoa(o.Copies),
		o.PaperSize,
		o.PaperType,
		o.ColorMode,
		yesNo(o.DoubleSided),
		o.BindingType,
		o.FinishingOptions,
		yesNo(o.RushOrder),
		money(o.EstimatedPrice),
		money(o.FinalPrice),
		yesNo(o.PrintReady),
		o.CreatedAt.Format(time.RFC3339),
		o.UpdatedAt.Format(time.RFC3339),
		html.UnescapeString(o.Notes),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func money(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

// WriteOrdersCSV writes the export as CSV
func WriteOrdersCSV(w io.Writer, orders []models.Order) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(OrderExportHeader); err != nil {
		return err
	}
	for _, o := range orders {
		if err := writer.Write(OrderExportRow(o)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteOrdersXLSX writes the export as a single-sheet workbook
func WriteOrdersXLSX(w io.Writer, orders []models.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)

	for i, h := range OrderExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastHeader, _ := excelize.CoordinatesToCellName(len(OrderExportHeader), 1)
	f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle)

	for r, o := range orders {
		row := OrderExportRow(o)
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			// Order number and copies stay numeric for spreadsheet math
			switch c {
			case 0:
				f.SetCellValue(exportSheet, cell, o.OrderNumber)
			case 9:
				f.SetCellValue(exportSheet, cell, o.Copies)
			default:
				f.SetCellValue(exportSheet, cell, value)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("failed to write excel buffer: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// ExportFileName returns a timestamped export file name
func ExportFileName(ext string, now time.Time) string {
	return fmt.Sprintf("orders-export-%s.%s", now.Format("2006-01-02"), ext)
}
