package handlers

import (
	"fmt"
	"net/http"

	"printshop_app_go/models"
	"printshop_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type createOptionRequest struct {
	DisplayName string `json:"display_name"`
	SortOrder   int    `json:"sort_order"`
}

type updateOptionRequest struct {
	DisplayName *string `json:"display_name"`
	SortOrder   *int    `json:"sort_order"`
}

type updateCombinationRequest struct {
	Price       *decimal.Decimal `json:"price"`
	IsAvailable *services.Flag   `json:"is_available"`
}

func catalogParam(c echo.Context) (models.Catalog, error) {
	catalog, ok := models.ParseCatalog(c.Param("type"))
	if !ok {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid option type")
	}
	return catalog, nil
}

// ListOptions returns the three option catalogs
func (h *Handler) ListOptions(c echo.Context) error {
	catalogs, err := h.Options.ListOptions()
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, catalogs)
}

// ListCombinations returns every combination with its option names
func (h *Handler) ListCombinations(c echo.Context) error {
	rows, err := h.Matrix.ListCombinations()
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// CreateOption adds a paper size, paper type or color mode and fills in its combinations
func (h *Handler) CreateOption(c echo.Context) error {
	catalog, err := catalogParam(c)
	if err != nil {
		return err
	}

	var req createOptionRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	entry, err := h.Options.AddOption(catalog, req.DisplayName, req.SortOrder)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":      entry.ID,
		"name":    entry.Name,
		"message": fmt.Sprintf("%s added successfully", catalog.Label()),
	})
}

// UpdateOption changes an option's display name or sort order
func (h *Handler) UpdateOption(c echo.Context) error {
	catalog, err := catalogParam(c)
	if err != nil {
		return err
	}

	var req updateOptionRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	update := services.OptionUpdate{DisplayName: req.DisplayName, SortOrder: req.SortOrder}
	if err := h.Options.UpdateOption(catalog, c.Param("id"), update); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s updated successfully", catalog.Label()),
	})
}

// DeleteOption removes an option together with its combinations
func (h *Handler) DeleteOption(c echo.Context) error {
	catalog, err := catalogParam(c)
	if err != nil {
		return err
	}

	if err := h.Options.DeleteOption(catalog, c.Param("id")); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s deleted successfully", catalog.Label()),
	})
}

// UpdateCombination changes the price and/or availability of one combination
func (h *Handler) UpdateCombination(c echo.Context) error {
	var req updateCombinationRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	update := services.CombinationUpdate{Price: req.Price}
	if req.IsAvailable != nil {
		available := bool(*req.IsAvailable)
		update.IsAvailable = &available
	}

	if err := h.Matrix.UpdateCombination(c.Param("id"), update); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Combination updated successfully"})
}

// RepairMatrix restores the full cross-product and removes orphaned combinations
func (h *Handler) RepairMatrix(c echo.Context) error {
	report, err := h.Matrix.Repair()
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Matrix repaired",
		"added":   report.Added,
		"removed": report.Removed,
		"report":  report,
	})
}
