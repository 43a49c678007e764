package handlers

import (
	"bytes"
	"net/http"
	"time"

	"printshop_app_go/middleware"
	"printshop_app_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListOrders returns the board rows. Picked up and abandoned orders are hidden
// unless show_picked_up=true or an explicit status is requested.
func (h *Handler) ListOrders(c echo.Context) error {
	filter := services.OrderFilter{
		Status:           c.QueryParam("status"),
		IncludeCompleted: c.QueryParam("show_picked_up") == "true",
	}

	orders, err := h.Orders.ListOrders(filter)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns a single order
func (h *Handler) GetOrder(c echo.Context) error {
	order, err := h.Orders.GetOrder(c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// CreateOrder accepts a new order from the public form or from staff
func (h *Handler) CreateOrder(c echo.Context) error {
	var in services.OrderInput
	if err := c.Bind(&in); err != nil {
		return bindError(c, err)
	}

	createdBy := services.CreatedByPublic
	if middleware.GetAuditContext(c).Admin {
		createdBy = services.CreatedByAdmin
	}

	order, err := h.Orders.CreateOrder(in, createdBy)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":     "Order created successfully",
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
	})
}

// PatchOrder updates status, pickup date, pickup time or notes
func (h *Handler) PatchOrder(c echo.Context) error {
	var patch services.OrderPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c, err)
	}

	updates, err := h.Orders.PatchOrder(c.Param("id"), patch)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Order updated successfully",
		"updates": updates,
	})
}

// ReplaceOrder overwrites an order with a fully validated body
func (h *Handler) ReplaceOrder(c echo.Context) error {
	var in services.OrderInput
	if err := c.Bind(&in); err != nil {
		return bindError(c, err)
	}

	if _, err := h.Orders.ReplaceOrder(c.Param("id"), in); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Order updated successfully"})
}

// DeleteOrder removes an order
func (h *Handler) DeleteOrder(c echo.Context) error {
	if err := h.Orders.DeleteOrder(c.Param("id")); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}

// OrderStats returns the count of active orders per status
func (h *Handler) OrderStats(c echo.Context) error {
	stats, err := h.Orders.SummaryStats()
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ExportOrdersCSV downloads every order as CSV
func (h *Handler) ExportOrdersCSV(c echo.Context) error {
	orders, err := h.Orders.ExportOrders()
	if err != nil {
		return httpError(c, err)
	}

	var buf bytes.Buffer
	if err := services.WriteOrdersCSV(&buf, orders); err != nil {
		return httpError(c, err)
	}
	return attachment(c, "text/csv", services.ExportFileName("csv", time.Now()), buf.Bytes())
}

// ExportOrdersXLSX downloads every order as an Excel workbook
func (h *Handler) ExportOrdersXLSX(c echo.Context) error {
	orders, err := h.Orders.ExportOrders()
	if err != nil {
		return httpError(c, err)
	}

	var buf bytes.Buffer
	if err := services.WriteOrdersXLSX(&buf, orders); err != nil {
		return httpError(c, err)
	}
	return attachment(c, xlsxContentType, services.ExportFileName("xlsx", time.Now()), buf.Bytes())
}

func attachment(c echo.Context, contentType, fileName string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Blob(http.StatusOK, contentType, body)
}
