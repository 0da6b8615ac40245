package services

import (
	"log"

	"legend-record-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ServerService struct {
	DB *gorm.DB
}

func NewServerService(db *gorm.DB) *ServerService {
	return &ServerService{DB: db}
}

// GetAllServers lists the server directory, ordered by name. Read-only —
// there is no create/update/delete surface for servers.
func (s *ServerService) GetAllServers(c *fiber.Ctx) error {
	var servers []models.Server
	if err := s.DB.Order("name").Find(&servers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch servers"})
	}
	return c.JSON(servers)
}

// SeedServers inserts the production server list when the table is empty.
// Safe to run at every boot.
func SeedServers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Server{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	servers := make([]models.Server, 0, len(models.DefaultServers))
	for i, name := range models.DefaultServers {
		servers = append(servers, models.Server{
			ID:     uint(i + 1),
			Name:   name,
			Region: models.DefaultServerRegion,
		})
	}
	if err := db.Create(&servers).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded %d servers", len(servers))
	return nil
}
