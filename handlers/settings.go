package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

type settingRequest struct {
	Value json.RawMessage `json:"value"`
}

// ListSettings returns every setting keyed by name
func (h *Handler) ListSettings(c echo.Context) error {
	settings, err := h.Settings.List()
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}

// GetSetting returns one setting
func (h *Handler) GetSetting(c echo.Context) error {
	key := c.Param("key")
	value, err := h.Settings.Get(key)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"key":   key,
		"value": value,
	})
}

// UpdateSettings stores several settings at once
func (h *Handler) UpdateSettings(c echo.Context) error {
	var values map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&values); err != nil {
		return bindError(c, err)
	}

	if err := h.Settings.UpdateMany(values); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Settings updated successfully"})
}

// UpdateSetting stores a single setting from {"value": ...}
func (h *Handler) UpdateSetting(c echo.Context) error {
	var req settingRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if len(req.Value) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Value is required")
	}

	if err := h.Settings.Set(c.Param("key"), req.Value); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Setting updated successfully"})
}
