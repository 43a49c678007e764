package handlers

import (
	"errors"
	"net/http"

	"printshop_app_go/services"

	"github.com/labstack/echo/v4"
)

// httpError translates a service error into the HTTP response for it.
// Unexpected errors are logged and reported as an opaque 500.
func httpError(c echo.Context, err error) error {
	var (
		ve *services.ValidationError
		nf *services.NotFoundError
		ce *services.ConflictError
		he *echo.HTTPError
	)
	switch {
	case errors.As(err, &ve):
		if len(ve.Errors) == 1 && ve.Errors[0].Field == "" {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Errors[0].Message)
		}
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{"errors": ve.Errors})
	case errors.As(err, &nf):
		return echo.NewHTTPError(http.StatusNotFound, nf.Error())
	case errors.Is(err, services.ErrFileNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	case errors.As(err, &ce):
		return echo.NewHTTPError(http.StatusConflict, ce.Error())
	case errors.As(err, &he):
		return he
	}

	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

// bindError is returned when the request body cannot be decoded
func bindError(c echo.Context, err error) error {
	c.Logger().Warnf("Invalid request body on %s: %v", c.Path(), err)
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
}
