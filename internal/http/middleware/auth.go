package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"docvault/internal/service"
)

// CallerLocalKey is the locals key under which Auth stores the
// authenticated service.Caller.
const CallerLocalKey = "caller"

// Auth validates the Bearer token and stores the caller identity in the
// request locals. Tokens are HMAC-signed by the identity provider; this
// subsystem only verifies them.
//
// Expected claims: sub (user id), email, identity_number, sid (session id).
func Auth(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		raw := c.Get(fiber.HeaderAuthorization)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}
		tokenString := strings.TrimPrefix(raw, "Bearer ")
		if tokenString == raw || tokenString == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token format")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token claims")
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token payload")
		}
		email, _ := claims["email"].(string)
		identityNumber, _ := claims["identity_number"].(string)
		sessionID, _ := claims["sid"].(string)

		c.Locals(CallerLocalKey, service.Caller{
			ID:             sub,
			Email:          email,
			IdentityNumber: identityNumber,
			SessionID:      sessionID,
			Origin:         c.IP(),
		})

		return c.Next()
	}
}

// CallerFromCtx returns the caller stored by Auth, if any.
func CallerFromCtx(c *fiber.Ctx) (service.Caller, bool) {
	caller, ok := c.Locals(CallerLocalKey).(service.Caller)
	return caller, ok
}
