package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyAdmin marks a request carrying a valid admin token
	ContextKeyAdmin = "admin"
	// ContextKeyClaims is the context key for the verified token claims
	ContextKeyClaims = "claims"
)

// Authorizer decides whether a request may use admin-only operations
type Authorizer interface {
	IsAuthorized(r *http.Request) bool
}

// AdminClaims are the claims carried by an admin access token
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTAuthorizer verifies HS256 bearer tokens signed with a shared secret
type JWTAuthorizer struct {
	secret []byte
}

// NewJWTAuthorizer creates an authorizer for the given secret
func NewJWTAuthorizer(secret string) *JWTAuthorizer {
	return &JWTAuthorizer{secret: []byte(secret)}
}

// Sign issues a token for username valid for ttl
func (a *JWTAuthorizer) Sign(username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses the token and returns its claims
func (a *JWTAuthorizer) Verify(tokenStr string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// IsAuthorized reports whether the request carries a valid bearer token
func (a *JWTAuthorizer) IsAuthorized(r *http.Request) bool {
	token := BearerToken(r)
	if token == "" {
		return false
	}
	_, err := a.Verify(token)
	return err == nil
}

// BearerToken extracts the token from the Authorization header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// RequireAdmin rejects requests without a valid admin token.
// A missing token is 401, a rejected one is 403.
func RequireAdmin(auth Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if BearerToken(c.Request()) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
			}
			if !auth.IsAuthorized(c.Request()) {
				return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired token")
			}
			setAdmin(c, auth)
			return next(c)
		}
	}
}

// OptionalAdmin marks the request as admin when a valid token is present and never rejects
func OptionalAdmin(auth Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if BearerToken(c.Request()) != "" && auth.IsAuthorized(c.Request()) {
				setAdmin(c, auth)
			}
			return next(c)
		}
	}
}

func setAdmin(c echo.Context, auth Authorizer) {
	c.Set(ContextKeyAdmin, true)
	if j, ok := auth.(*JWTAuthorizer); ok {
		if claims, err := j.Verify(BearerToken(c.Request())); err == nil {
			c.Set(ContextKeyClaims, claims)
		}
	}
}

// IsAdmin reports whether the current request was authorized as admin
func IsAdmin(c echo.Context) bool {
	admin, _ := c.Get(ContextKeyAdmin).(bool)
	return admin
}

// GetClaims returns the verified claims, if any
func GetClaims(c echo.Context) *AdminClaims {
	claims, _ := c.Get(ContextKeyClaims).(*AdminClaims)
	return claims
}
