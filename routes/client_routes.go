package routes

import (
	"stockage-api/config"
	"stockage-api/controllers"
	"stockage-api/middleware"
	"stockage-api/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupClientRoutes(app *fiber.App, db *gorm.DB, hub *services.ChangeHub) {
	clientController := controllers.NewClientController(db, hub)
	authMiddleware := middleware.NewAuthMiddleware(db)

	api := app.Group(config.MAIN_ROUTES+"/clients", authMiddleware, middleware.RequireAdmin)
	api.Get("/", clientController.GetAllClients)
	api.Post("/", clientController.CreateClient)
	api.Delete("/:id", clientController.DeleteClient)
}
