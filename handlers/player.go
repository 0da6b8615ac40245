// handlers/player.go
package handlers

import (
	"legend-record-system/middleware"
	"legend-record-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPlayerRoutes(app *fiber.App, playerService *services.PlayerService, recordService *services.RecordService) {
	// 🔓 Public routes — anyone can browse and search
	app.Get("/players", playerService.GetAllPlayers)
	app.Get("/players/search", playerService.SearchPlayers) // must register before /players/:id
	app.Get("/players/:id", playerService.GetPlayerByID)

	// 🔐 Secured routes — submissions require an authenticated caller.
	// RequireUser is attached per route; a "/" group would gate every route
	// registered after it, public reads included.
	app.Post("/players", middleware.RequireUser(), recordService.CreatePlayerRecord)
	app.Post("/players/:id/add_record", middleware.RequireUser(), recordService.AddRecord)
}
