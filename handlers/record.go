// handlers/record.go
package handlers

import (
	"legend-record-system/middleware"
	"legend-record-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRecordRoutes(app *fiber.App, recordService *services.RecordService, exportService *services.ExportService) {
	// 🔓 Public routes
	app.Get("/records", recordService.GetAllRecords)

	// 🔐 Secured routes — RequireUser attached per route so public reads stay
	// open. my-records registers before /records/:id so the literal path wins.
	app.Get("/records/my-records", middleware.RequireUser(), recordService.GetMyRecords)

	app.Get("/records/:id", recordService.GetRecordByID)

	app.Put("/records/:id", middleware.RequireUser(), recordService.UpdateRecord)
	app.Patch("/records/:id", middleware.RequireUser(), recordService.UpdateRecord)
	app.Delete("/records/:id", middleware.RequireUser(), recordService.DeleteRecord)

	app.Get("/export/players", middleware.RequireUser(), exportService.ExportPlayers)
}
