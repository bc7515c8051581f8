package routes

import (
	"stockage-api/config"
	"stockage-api/controllers"
	"stockage-api/middleware"
	"stockage-api/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMaterialRoutes(app *fiber.App, db *gorm.DB, hub *services.ChangeHub, notifier *services.Notifier) {
	materialController := controllers.NewMaterialController(db, hub, notifier)
	movementController := controllers.NewMovementController(db, hub, notifier)
	authMiddleware := middleware.NewAuthMiddleware(db)

	api := app.Group(config.MAIN_ROUTES+"/materials", authMiddleware)

	api.Get("/", materialController.GetAllMaterials)
	api.Get("/export", materialController.ExportExcel)
	api.Post("/", materialController.CreateMaterial)
	api.Get("/:id", materialController.GetMaterialByID)
	api.Put("/:id", materialController.UpdateMaterial)
	api.Delete("/:id", middleware.RequireAdmin, materialController.DeleteMaterial)

	// Legacy single-stamp exit marker.
	api.Post("/:id/exit", middleware.RequireAdmin, materialController.RecordExit)
	api.Post("/:id/cancel-exit", middleware.RequireAdmin, materialController.CancelExit)

	// Movement ledger.
	api.Post("/:id/movements", movementController.RecordMovement)
	api.Get("/:id/movements", movementController.GetMovements)
}
