package controllers

import (
	"errors"

	"stockage-api/middleware"
	"stockage-api/models"
	"stockage-api/repositories"
	"stockage-api/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MovementController struct {
	DB       *gorm.DB
	Hub      *services.ChangeHub
	Notifier *services.Notifier
}

func NewMovementController(DB *gorm.DB, hub *services.ChangeHub, notifier *services.Notifier) *MovementController {
	return &MovementController{DB: DB, Hub: hub, Notifier: notifier}
}

// RecordMovement appends an entry or exit to a material's ledger. An exit
// larger than the current stock is rejected with an insufficient-stock
// error, never clamped.
func (c *MovementController) RecordMovement(ctx *fiber.Ctx) error {
	materialID, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		Type     string  `json:"type" validate:"required,oneof=entry exit"`
		Quantity float64 `json:"quantity" validate:"required,gt=0"`
		Notes    string  `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	movementRepo := repositories.NewMovementRepository(c.DB)
	movement, err := movementRepo.RecordMovement(
		middleware.ActorID(ctx), middleware.ActorRole(ctx),
		uint(materialID), input.Type, input.Quantity, input.Notes)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
		case errors.Is(err, repositories.ErrInsufficientStock):
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repositories.ErrInvalidMovement):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	c.Hub.Publish("movements", services.ActionInsert)
	c.Hub.Publish("materials", services.ActionUpdate)

	if input.Type == models.MovementExit {
		c.notifyWithdrawal(uint(materialID), input.Quantity)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Movement recorded successfully",
		"data":    movement,
	})
}

// GetMovements returns a material's history, newest first, plus the
// initial deposit quantity so exhausted materials can still show what
// was originally stored.
func (c *MovementController) GetMovements(ctx *fiber.Ctx) error {
	materialID, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	// History visibility follows material visibility.
	materialRepo := repositories.NewMaterialRepository(c.DB)
	if _, err := materialRepo.GetMaterial(middleware.ActorID(ctx), middleware.ActorRole(ctx), uint(materialID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	movementRepo := repositories.NewMovementRepository(c.DB)
	movements, err := movementRepo.ListMovements(uint(materialID))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	initialQuantity, err := movementRepo.InitialQuantity(uint(materialID))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"movements":        movements,
			"initial_quantity": initialQuantity,
			"total":            len(movements),
		},
	})
}

func (c *MovementController) notifyWithdrawal(materialID uint, withdrawn float64) {
	var material models.Material
	if err := c.DB.First(&material, materialID).Error; err != nil {
		return
	}
	if material.ClientID == nil {
		return
	}
	var client models.User
	if err := c.DB.First(&client, *material.ClientID).Error; err != nil {
		return
	}
	go c.Notifier.SendWithdrawalNotification(material, client, withdrawn)
}
