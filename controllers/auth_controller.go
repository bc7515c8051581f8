package controllers

import (
	"errors"
	"time"

	"stockage-api/config"
	"stockage-api/middleware"
	"stockage-api/models"
	"stockage-api/repositories"
	"stockage-api/utils"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(DB *gorm.DB) *AuthController {
	return &AuthController{DB: DB}
}

func getClientInfo(ctx *fiber.Ctx) (ip, ua string) {
	return ctx.IP(), ctx.Get("User-Agent")
}

// Register signs up a client profile. Self-registration never grants the
// admin role; admins create other profiles through the clients API.
func (c *AuthController) Register(ctx *fiber.Ctx) error {
	var input repositories.ProfileInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	input.Role = models.RoleClient

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userRepo := repositories.NewUserRepository(c.DB)
	user, err := userRepo.CreateProfile(0, input)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailInUse) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration successful",
		"data":    user,
	})
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
		})
	}

	if input.Email == "" || input.Password == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing required fields",
		})
	}

	sessionID := uuid.NewString()
	ip, ua := getClientInfo(ctx)
	now := time.Now()

	// Default log is FAILED; flipped on success.
	loginLog := models.LoginLog{
		SessionID:   sessionID,
		Username:    input.Email,
		LoginAt:     &now,
		IPAddress:   ip,
		UserAgent:   ua,
		LoginStatus: "FAILED",
	}

	var user models.User
	result := c.DB.Where("email = ?", input.Email).First(&user)
	if result.Error != nil {
		reason := "USER_NOT_FOUND"
		loginLog.FailureReason = &reason
		utils.InsertLoginLog(c.DB, loginLog)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid email or password",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": result.Error.Error(),
		})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		reason := "WRONG_PASSWORD"
		uid := uint64(user.ID)
		loginLog.UserID = &uid
		loginLog.FailureReason = &reason
		utils.InsertLoginLog(c.DB, loginLog)

		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid email or password",
		})
	}

	session := models.UserSession{
		UserID:         uint64(user.ID),
		SessionID:      sessionID,
		IPAddress:      ip,
		UserAgent:      ua,
		IsActive:       true,
		LastActivityAt: now,
		ExpiresAt:      now.Add(time.Duration(config.JWTExpiration) * time.Second),
	}
	if err := c.DB.Create(&session).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create session",
		})
	}

	uid := uint64(user.ID)
	loginLog.UserID = &uid
	loginLog.LoginStatus = "SUCCESS"
	utils.InsertLoginLog(c.DB, loginLog)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    user.ID,
		"session_id": sessionID,
		"role":       user.Role,
		"exp":        now.Add(time.Duration(config.JWTExpiration) * time.Second).Unix(),
		"jti":        uuid.NewString(),
	})

	tokenString, err := token.SignedString([]byte(config.JWTSecret))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to generate token",
		})
	}

	ctx.Cookie(config.GetTokenCookie(tokenString))

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"x_token": tokenString,
		"user": fiber.Map{
			"id":           user.ID,
			"email":        user.Email,
			"full_name":    user.FullName,
			"company_name": user.CompanyName,
			"role":         user.Role,
		},
	})
}

func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	sessionID, ok := ctx.Locals("sessionID").(string)
	if !ok || sessionID == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid session",
		})
	}

	now := time.Now()

	c.DB.Model(&models.LoginLog{}).
		Where("session_id = ? AND logout_at IS NULL", sessionID).
		Update("logout_at", &now)

	var session models.UserSession
	if err := c.DB.Where("session_id = ? AND is_active = ?", sessionID, true).First(&session).Error; err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid session",
		})
	}

	session.IsActive = false
	session.LastActivityAt = now
	c.DB.Save(&session)

	ctx.Cookie(config.GetTokenCookie(""))

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logout successful",
	})
}

// Me resolves the acting profile. A valid token whose profile row is gone
// is a configuration error, reported as 500 and not as 401, so the client
// can tell it apart from an expired session.
func (c *AuthController) Me(ctx *fiber.Ctx) error {
	actorID := middleware.ActorID(ctx)

	var user models.User
	if err := c.DB.First(&user, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "profile missing for authenticated user",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":           user.ID,
			"email":        user.Email,
			"full_name":    user.FullName,
			"company_name": user.CompanyName,
			"role":         user.Role,
		},
	})
}
