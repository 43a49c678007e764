package handlers

import (
	"net/http"
	"testing"

	"printshop_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSettingsHandler(t *testing.T) {
	app := setupApp(t)

	rec := app.do(http.MethodGet, "/api/settings", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "dark", body["display_mode"])
	assert.Equal(t, float64(10), body["page_rotation_seconds"])
	colors, ok := body["status_colors"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "#3B82F6", colors["received"])
}

func TestGetSettingHandler(t *testing.T) {
	app := setupApp(t)

	rec := app.do(http.MethodGet, "/api/settings/display_mode", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"key":"display_mode","value":"dark"}`, rec.Body.String())

	rec = app.do(http.MethodGet, "/api/settings/missing", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateSettingsHandler(t *testing.T) {
	app := setupApp(t)

	rec := app.do(http.MethodPut, "/api/settings", map[string]interface{}{"display_mode": "light"}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodPut, "/api/settings", map[string]interface{}{
		"display_mode":          "light",
		"page_rotation_seconds": 15,
		"status_colors":         map[string]string{"received": "#000000"},
	}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, services.EventSettingsUpdated, app.events.last())

	rec = app.do(http.MethodGet, "/api/settings/status_colors", nil, false)
	assert.JSONEq(t, `{"key":"status_colors","value":{"received":"#000000"}}`, rec.Body.String())

	rec = app.do(http.MethodPut, "/api/settings", map[string]interface{}{"page_rotation_seconds": 2}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "page_rotation_seconds")

	rec = app.do(http.MethodPut, "/api/settings", "not json", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSettingHandler(t *testing.T) {
	app := setupApp(t)

	rec := app.do(http.MethodPut, "/api/settings/shop_name", map[string]interface{}{"value": "Corner Copies"}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, services.EventSettingUpdated, app.events.last())

	rec = app.do(http.MethodGet, "/api/settings/shop_name", nil, false)
	assert.JSONEq(t, `{"key":"shop_name","value":"Corner Copies"}`, rec.Body.String())

	rec = app.do(http.MethodPut, "/api/settings/display_mode", map[string]interface{}{"value": "sepia"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPut, "/api/settings/display_mode", map[string]interface{}{}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
