// Package handlers exposes the print shop services over HTTP.
package handlers

import (
	"printshop_app_go/middleware"
	"printshop_app_go/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handler holds the services behind the /api routes
type Handler struct {
	Options  *services.OptionService
	Matrix   *services.MatrixService
	Orders   *services.OrderService
	Settings *services.SettingsService
	Storage  services.StorageProvider
	Auth     middleware.Authorizer

	// PublicCombinationUpdates lets anyone change combination price and availability
	PublicCombinationUpdates bool
	// OrderLimiter throttles public order submissions; nil disables it
	OrderLimiter *middleware.RateLimiter
}

// Register mounts every route on e
func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api")
	requireAdmin := middleware.RequireAdmin(h.Auth)
	audit := middleware.AuditContext()
	admin := func(next echo.HandlerFunc) echo.HandlerFunc {
		return requireAdmin(audit(next))
	}

	// Options
	options := api.Group("/options")
	options.GET("", h.ListOptions)
	options.GET("/combinations", h.ListCombinations)
	if h.PublicCombinationUpdates {
		options.PUT("/combinations/:id", h.UpdateCombination, middleware.OptionalAdmin(h.Auth), audit)
	} else {
		options.PUT("/combinations/:id", h.UpdateCombination, admin)
	}
	options.POST("/repair", h.RepairMatrix, admin)
	options.POST("/:type", h.CreateOption, admin)
	options.PUT("/:type/:id", h.UpdateOption, admin)
	options.DELETE("/:type/:id", h.DeleteOption, admin)

	// Orders
	orders := api.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.GET("/stats/summary", h.OrderStats)
	orders.GET("/export/csv", h.ExportOrdersCSV, admin)
	orders.GET("/export/xlsx", h.ExportOrdersXLSX, admin)
	orders.GET("/:id", h.GetOrder)
	create := []echo.MiddlewareFunc{middleware.OptionalAdmin(h.Auth), audit}
	if h.OrderLimiter != nil {
		create = append([]echo.MiddlewareFunc{h.OrderLimiter.Middleware()}, create...)
	}
	orders.POST("", h.CreateOrder, create...)
	orders.PATCH("/:id", h.PatchOrder, admin)
	orders.PUT("/:id", h.ReplaceOrder, admin)
	orders.DELETE("/:id", h.DeleteOrder, admin)

	// Settings
	settings := api.Group("/settings")
	settings.GET("", h.ListSettings)
	settings.GET("/:key", h.GetSetting)
	settings.PUT("", h.UpdateSettings, admin)
	settings.PUT("/:key", h.UpdateSetting, admin)

	// Uploads
	upload := api.Group("/upload", echomw.BodyLimit("26M"))
	upload.POST("", h.UploadFile, middleware.OptionalAdmin(h.Auth), audit)
	upload.POST("/admin", h.UploadFile, admin)
	upload.GET("/:filename", h.GetFileInfo)
	upload.GET("/:filename/download", h.DownloadFile, admin)
	upload.DELETE("/:filename", h.DeleteFile, admin)
}
