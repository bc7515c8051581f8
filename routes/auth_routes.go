package routes

import (
	"stockage-api/config"
	"stockage-api/controllers"
	"stockage-api/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controllers.NewAuthController(db)
	authMiddleware := middleware.NewAuthMiddleware(db)

	api := app.Group(config.MAIN_ROUTES + "/auth")
	api.Post("/register", authController.Register)
	api.Post("/login", authController.Login)
	api.Post("/logout", authMiddleware, authController.Logout)
	api.Get("/me", authMiddleware, authController.Me)
}
