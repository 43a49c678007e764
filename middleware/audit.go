package middleware

import (
	"log"

	"github.com/labstack/echo/v4"
)

const ContextKeyAuditContext = "audit_context"

// Actor describes who issued a request
type Actor struct {
	Username  string
	Admin     bool
	IPAddress string
	UserAgent string
}

// AuditContext records the caller and logs every successful state change it makes.
// It must run after RequireAdmin or OptionalAdmin.
func AuditContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := Actor{
				Admin:     IsAdmin(c),
				IPAddress: c.RealIP(),
				UserAgent: c.Request().UserAgent(),
			}
			if claims := GetClaims(c); claims != nil {
				actor.Username = claims.Username
			}
			c.Set(ContextKeyAuditContext, actor)

			err := next(c)
			if err == nil && c.Request().Method != "GET" {
				log.Printf("[AUDIT] %s %s %s by %s from %s", c.Request().Method, c.Path(), c.Param("id"), actor.Name(), actor.IPAddress)
			}
			return err
		}
	}
}

// Name returns the username, or "public" for anonymous callers
func (a Actor) Name() string {
	if a.Username != "" {
		return a.Username
	}
	if a.Admin {
		return "admin"
	}
	return "public"
}

// GetAuditContext retrieves the actor from the request
func GetAuditContext(c echo.Context) Actor {
	if actor, ok := c.Get(ContextKeyAuditContext).(Actor); ok {
		return actor
	}
	return Actor{}
}
