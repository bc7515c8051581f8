package middleware

import (
	"strings"
	"time"

	"stockage-api/config"
	"stockage-api/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// NewAuthMiddleware validates the bearer token and the session behind it.
// A session idle longer than the configured inactivity window is
// deactivated and the request rejected, which is what forces the
// client back to the login screen.
func NewAuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if authHeader == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Missing Authorization header",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid Authorization header format",
			})
		}

		token, err := jwt.Parse(tokenParts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: Invalid signing method")
			}
			return []byte(config.JWTSecret), nil
		})
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: Invalid token",
				"error":   err.Error(),
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: Invalid token",
			})
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: Invalid user ID",
			})
		}

		sessionID, ok := claims["session_id"].(string)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: Invalid sessionID",
			})
		}

		role, ok := claims["role"].(string)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: Invalid role",
			})
		}

		now := time.Now()
		idleLimit := now.Add(-time.Duration(config.SessionIdleMinutes) * time.Minute)

		var userSession models.UserSession
		if err := db.Where("session_id = ? AND is_active = ? AND expires_at > ?", sessionID, true, now).
			First(&userSession).Error; err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: Invalid sessionID",
			})
		}

		if userSession.LastActivityAt.Before(idleLimit) {
			userSession.IsActive = false
			db.Save(&userSession)
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: Session expired due to inactivity",
			})
		}

		// Any authenticated request counts as activity.
		userSession.LastActivityAt = now
		db.Save(&userSession)

		ctx.Locals("userID", userID)
		ctx.Locals("sessionID", sessionID)
		ctx.Locals("role", role)

		return ctx.Next()
	}
}

// RequireAdmin gates admin-only routes. It must run after the auth
// middleware has resolved the role.
func RequireAdmin(ctx *fiber.Ctx) error {
	role, ok := ctx.Locals("role").(string)
	if !ok || role != models.RoleAdmin {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Forbidden: You do not have permission",
		})
	}
	return ctx.Next()
}

// ActorID returns the authenticated profile ID from the request context.
func ActorID(ctx *fiber.Ctx) uint {
	userID, _ := ctx.Locals("userID").(float64)
	return uint(userID)
}

// ActorRole returns the authenticated role from the request context.
func ActorRole(ctx *fiber.Ctx) string {
	role, _ := ctx.Locals("role").(string)
	return role
}
