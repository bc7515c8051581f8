package routes

import (
	"stockage-api/config"
	"stockage-api/controllers"
	"stockage-api/middleware"
	"stockage-api/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDashboardRoutes(app *fiber.App, db *gorm.DB, hub *services.ChangeHub) {
	dashboardController := controllers.NewDashboardController(db, hub)
	authMiddleware := middleware.NewAuthMiddleware(db)

	api := app.Group(config.MAIN_ROUTES+"/dashboard", authMiddleware)
	api.Get("/stats", dashboardController.GetStats)
}
