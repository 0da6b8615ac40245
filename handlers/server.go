package handlers

import (
	"legend-record-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupServerRoutes(app *fiber.App, serverService *services.ServerService) {
	// read-only reference data, public
	app.Get("/servers", serverService.GetAllServers)
}
