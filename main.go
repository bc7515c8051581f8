package main

import (
	"fmt"
	"log"

	"stockage-api/config"
	"stockage-api/controllers/idgen"
	"stockage-api/database"
	"stockage-api/routes"
	"stockage-api/services"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.SeedAdmin(db)

	hub := services.NewChangeHub()
	notifier := services.NewNotifier()

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app, db)
	routes.SetupMaterialRoutes(app, db, hub, notifier)
	routes.SetupClientRoutes(app, db, hub)
	routes.SetupDashboardRoutes(app, db, hub)
	routes.SetupEventRoutes(app, db, hub)

	port := config.APP_PORT
	fmt.Println("🚀 Server running on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
