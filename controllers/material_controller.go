package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"stockage-api/middleware"
	"stockage-api/models"
	"stockage-api/repositories"
	"stockage-api/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type MaterialController struct {
	DB       *gorm.DB
	Hub      *services.ChangeHub
	Notifier *services.Notifier
}

func NewMaterialController(DB *gorm.DB, hub *services.ChangeHub, notifier *services.Notifier) *MaterialController {
	return &MaterialController{DB: DB, Hub: hub, Notifier: notifier}
}

// GetAllMaterials lists the actor's visible materials. The response
// carries the change-feed sequence so the client can discard a stale
// response that resolves after a newer one.
func (c *MaterialController) GetAllMaterials(ctx *fiber.Ctx) error {
	materialRepo := repositories.NewMaterialRepository(c.DB)

	materials, err := materialRepo.ListMaterials(middleware.ActorID(ctx), middleware.ActorRole(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	// Server-side projection for list views that pass filters.
	status := ctx.Query("status", services.FilterAll)
	search := ctx.Query("search", "")
	filtered := services.FilterMaterials(materials, status, search)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"materials": filtered,
			"total":     len(filtered),
			"seq":       c.Hub.Seq(),
		},
	})
}

func (c *MaterialController) GetMaterialByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	materialRepo := repositories.NewMaterialRepository(c.DB)
	material, err := materialRepo.GetMaterial(middleware.ActorID(ctx), middleware.ActorRole(ctx), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": material})
}

func (c *MaterialController) CreateMaterial(ctx *fiber.Ctx) error {
	var input repositories.MaterialInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	materialRepo := repositories.NewMaterialRepository(c.DB)
	material, err := materialRepo.CreateMaterial(middleware.ActorID(ctx), middleware.ActorRole(ctx), input)
	if err != nil {
		if errors.Is(err, repositories.ErrOwnerNotFound) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Hub.Publish("materials", services.ActionInsert)
	c.notifyDeposit(*material)

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Material created successfully",
		"data":    material,
	})
}

func (c *MaterialController) UpdateMaterial(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input repositories.MaterialInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	materialRepo := repositories.NewMaterialRepository(c.DB)
	material, err := materialRepo.UpdateMaterial(middleware.ActorID(ctx), middleware.ActorRole(ctx), uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
		case errors.Is(err, repositories.ErrNotOwner), errors.Is(err, repositories.ErrOwnerChange):
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	c.Hub.Publish("materials", services.ActionUpdate)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Material updated successfully",
		"data":    material,
	})
}

func (c *MaterialController) DeleteMaterial(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	materialRepo := repositories.NewMaterialRepository(c.DB)
	if err := materialRepo.DeleteMaterial(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Hub.Publish("materials", services.ActionDelete)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Material deleted successfully",
	})
}

// RecordExit stamps the legacy exit marker on a material.
func (c *MaterialController) RecordExit(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		ExitDate string `json:"exit_date" validate:"required"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	exitDate, err := time.Parse("2006-01-02", input.ExitDate)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exit date, expected YYYY-MM-DD"})
	}

	materialRepo := repositories.NewMaterialRepository(c.DB)
	material, err := materialRepo.RecordExit(middleware.ActorID(ctx), uint(id), exitDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Hub.Publish("materials", services.ActionUpdate)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Exit recorded successfully",
		"data":    material,
	})
}

// CancelExit clears the legacy exit marker.
func (c *MaterialController) CancelExit(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	materialRepo := repositories.NewMaterialRepository(c.DB)
	material, err := materialRepo.CancelExit(middleware.ActorID(ctx), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Hub.Publish("materials", services.ActionUpdate)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Exit cancelled successfully",
		"data":    material,
	})
}

// ExportExcel streams the actor's visible stock as an Excel workbook.
func (c *MaterialController) ExportExcel(ctx *fiber.Ctx) error {
	materialRepo := repositories.NewMaterialRepository(c.DB)
	materials, err := materialRepo.ListMaterials(middleware.ActorID(ctx), middleware.ActorRole(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Material")
	f.SetCellValue(sheet, "B1", "Type")
	f.SetCellValue(sheet, "C1", "Quantity")
	f.SetCellValue(sheet, "D1", "Unit")
	f.SetCellValue(sheet, "E1", "Location")
	f.SetCellValue(sheet, "F1", "Supplier")
	f.SetCellValue(sheet, "G1", "Estimated Value")
	f.SetCellValue(sheet, "H1", "Client")
	f.SetCellValue(sheet, "I1", "Status")

	for i, m := range materials {
		row := i + 2
		status := "IN STOCK"
		if m.ExitDate != nil {
			status = "EXITED"
		} else if m.Archived() {
			status = "ARCHIVED"
		}
		company := ""
		if m.Client != nil {
			company = m.Client.CompanyName
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.MaterialName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.MaterialType)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.Unit)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), m.StorageLocation)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), m.Supplier)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), m.EstimatedValue)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), company)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), status)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="stock.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel file")
	}

	return nil
}

func (c *MaterialController) notifyDeposit(material models.Material) {
	if material.ClientID == nil {
		return
	}
	var client models.User
	if err := c.DB.First(&client, *material.ClientID).Error; err != nil {
		return
	}
	go c.Notifier.SendDepositNotification(material, client)
}
