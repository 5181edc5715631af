package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// ActorLocalKey is the key used to store the authenticated Actor in Fiber's context locals.
	ActorLocalKey = "actor"

	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Claims is the bearer token payload. Subject carries the account id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Actor is the caller identity resolved from the bearer token.
type Actor struct {
	ID   string
	Role string
}

// IsAdmin reports whether the actor may use the admin routes.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

var errMissingSubject = errors.New("token has no subject")

// Auth validates an HS256 bearer token and stores the Actor under ActorLocalKey.
// Failures surface as fiber 401 errors so the global ErrorHandler renders them.
func Auth(secret []byte) fiber.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		var claims Claims
		if _, err := parser.ParseWithClaims(strings.TrimSpace(token), &claims, keyFunc); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		if claims.Subject == "" {
			return fiber.NewError(fiber.StatusUnauthorized, errMissingSubject.Error())
		}

		c.Locals(ActorLocalKey, Actor{ID: claims.Subject, Role: claims.Role})
		return c.Next()
	}
}

// RequireAdmin rejects callers whose role is neither admin nor super_admin.
// It must run after Auth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, ok := ActorFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		if !a.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin role required")
		}
		return c.Next()
	}
}

// ActorFrom returns the Actor stored by Auth.
func ActorFrom(c *fiber.Ctx) (Actor, bool) {
	a, ok := c.Locals(ActorLocalKey).(Actor)
	return a, ok
}
