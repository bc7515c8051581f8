package routes

import (
	"stockage-api/config"
	"stockage-api/controllers"
	"stockage-api/middleware"
	"stockage-api/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupEventRoutes(app *fiber.App, db *gorm.DB, hub *services.ChangeHub) {
	eventsController := controllers.NewEventsController(hub)
	authMiddleware := middleware.NewAuthMiddleware(db)

	api := app.Group(config.MAIN_ROUTES+"/events", authMiddleware)
	api.Get("/", eventsController.Stream)
}
