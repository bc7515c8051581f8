package controllers

import (
	"stockage-api/middleware"
	"stockage-api/models"
	"stockage-api/repositories"
	"stockage-api/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB  *gorm.DB
	Hub *services.ChangeHub
}

func NewDashboardController(DB *gorm.DB, hub *services.ChangeHub) *DashboardController {
	return &DashboardController{DB: DB, Hub: hub}
}

// GetStats serves the dashboard counters over the actor's visible
// materials: in-stock count, withdrawn/archived count and the estimated
// value of in-stock items. Admins also get the client count.
func (c *DashboardController) GetStats(ctx *fiber.Ctx) error {
	materialRepo := repositories.NewMaterialRepository(c.DB)
	materials, err := materialRepo.ListMaterials(middleware.ActorID(ctx), middleware.ActorRole(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	stats := services.ComputeStats(materials)

	data := fiber.Map{
		"stats": stats,
		"seq":   c.Hub.Seq(),
	}

	if middleware.ActorRole(ctx) == models.RoleAdmin {
		var clientCount int64
		if err := c.DB.Model(&models.User{}).Where("role = ?", models.RoleClient).Count(&clientCount).Error; err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		data["total_clients"] = clientCount
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
