package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const (
	// TokenIssuer is the expected `iss` claim on every access token.
	TokenIssuer = "snapdare-api"
	// TokenAudience is the expected `aud` claim on every access token.
	TokenAudience = "snapdare-client"
)

// BlacklistKey returns the Redis key storing a revoked token ID.
func BlacklistKey(jti string) string {
	return fmt.Sprintf("jwt:blacklist:%s", jti)
}

// ParseUserID validates an access token and returns the user ID from its
// subject claim. The issuer and audience claims must match the values this
// service signs tokens with.
func ParseUserID(tokenString, secret string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(TokenIssuer), jwt.WithAudience(TokenAudience))
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, "", fmt.Errorf("missing subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, "", fmt.Errorf("invalid subject claim")
	}

	jti, _ := claims["jti"].(string)
	return uint(userID), jti, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthRequired returns a middleware that rejects requests without a valid
// access token. The authenticated user ID is stored in c.Locals("userID").
// Tokens whose jti has been blacklisted (logout) are rejected; if rdb is nil
// the blacklist check is skipped.
func AuthRequired(secret string, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		userID, jti, err := ParseUserID(tokenString, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		if rdb != nil && jti != "" {
			if n, err := rdb.Exists(c.UserContext(), BlacklistKey(jti)).Result(); err == nil && n > 0 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Token has been revoked",
				})
			}
		}

		c.Locals("userID", userID)
		c.Locals("jti", jti)
		// Sync to UserContext for logging and downstream services
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
		return c.Next()
	}
}

// OptionalAuth returns a middleware that resolves the user ID from a bearer
// token when one is present but lets unauthenticated requests through. Used
// on read endpoints whose responses are personalized for logged-in viewers.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c); ok {
			if userID, _, err := ParseUserID(tokenString, secret); err == nil {
				c.Locals("userID", userID)
				c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
			}
		}
		return c.Next()
	}
}
