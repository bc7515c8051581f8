package controllers

import (
	"errors"

	"stockage-api/middleware"
	"stockage-api/repositories"
	"stockage-api/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ClientController manages profiles. Every route is admin-gated.
type ClientController struct {
	DB  *gorm.DB
	Hub *services.ChangeHub
}

func NewClientController(DB *gorm.DB, hub *services.ChangeHub) *ClientController {
	return &ClientController{DB: DB, Hub: hub}
}

func (c *ClientController) GetAllClients(ctx *fiber.Ctx) error {
	userRepo := repositories.NewUserRepository(c.DB)
	users, err := userRepo.ListProfiles()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    users,
		"total":   len(users),
	})
}

func (c *ClientController) CreateClient(ctx *fiber.Ctx) error {
	var input repositories.ProfileInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userRepo := repositories.NewUserRepository(c.DB)
	user, err := userRepo.CreateProfile(middleware.ActorID(ctx), input)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailInUse) || errors.Is(err, repositories.ErrInvalidRole) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Hub.Publish("clients", services.ActionInsert)

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Client created successfully",
		"data":    user,
	})
}

// DeleteClient removes a profile and everything it owns. Deleting the
// last admin is rejected.
func (c *ClientController) DeleteClient(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	userRepo := repositories.NewUserRepository(c.DB)
	if err := userRepo.DeleteProfile(uint(id)); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Client not found"})
		case errors.Is(err, repositories.ErrLastAdmin):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	c.Hub.Publish("clients", services.ActionDelete)
	c.Hub.Publish("materials", services.ActionDelete)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Client deleted successfully",
	})
}
