// services/export_service.go
package services

import (
	"fmt"
	"log"

	"legend-record-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ExportService struct {
	DB *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{DB: db}
}

type playerExportRow struct {
	models.Player
	RecordCount int64
}

// ExportPlayers streams the leaderboard as an xlsx attachment, one row per
// player, most-viewed first.
func (s *ExportService) ExportPlayers(c *fiber.Ctx) error {
	var rows []playerExportRow
	err := s.DB.Model(&models.Player{}).
		Select("players.*, count(records.id) as record_count").
		Joins("LEFT JOIN records ON records.player_id = players.id").
		Group("players.id").
		Order("players.views_count DESC").
		Scan(&rows).Error
	if err != nil {
		log.Printf("❌ [EXPORT] query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "export failed"})
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Players"
	f.SetSheetName("Sheet1", sheet)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{
		"Nickname", "Game ID", "Server", "Records", "Views", "Created",
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "export failed"})
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{
			row.Nickname,
			row.GameID,
			row.ServerName,
			row.RecordCount,
			row.ViewsCount,
			row.CreatedAt.Format("2006-01-02 15:04"),
		}); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "export failed"})
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "export failed"})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="players.xlsx"`)
	return c.Send(buf.Bytes())
}
