// services/player_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"legend-record-system/models"
	"legend-record-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

type PlayerService struct {
	DB *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{DB: db}
}

// NormalizeIdentity trims and NFC-normalizes one identity component, so
// composed and decomposed Unicode spellings of the same nickname land on the
// same Player row.
func NormalizeIdentity(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ResolveOrCreate finds the Player for (nickname, game_id, server_id) or
// creates it. The lookup is a fast path only — the composite unique index is
// the authority, and losing the insert race falls back to one re-read.
func (s *PlayerService) ResolveOrCreate(tx *gorm.DB, nickname, gameID string, serverID uint) (*models.Player, error) {
	nickname = NormalizeIdentity(nickname)
	gameID = NormalizeIdentity(gameID)

	if nickname == "" {
		return nil, &ValidationErr{Field: "nickname", Message: "nickname is required"}
	}
	if gameID == "" {
		return nil, &ValidationErr{Field: "game_id", Message: "game_id is required"}
	}

	var server models.Server
	if err := tx.First(&server, "id = ?", serverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationErr{Field: "server", Message: fmt.Sprintf("unknown server id %d", serverID)}
		}
		return nil, err
	}

	var player models.Player
	err := tx.Where("nickname = ? AND game_id = ? AND server_id = ?", nickname, gameID, serverID).
		First(&player).Error
	if err == nil {
		return &player, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	serverName := server.Name
	if serverName == "" {
		// should not happen past the membership check above
		serverName = fmt.Sprintf("unknown server (%d)", serverID)
	}

	player = models.Player{
		ID:         uuid.NewString(),
		Nickname:   nickname,
		GameID:     gameID,
		ServerID:   serverID,
		ServerName: serverName,
	}
	if err := tx.Create(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race — the row exists now, return the winner
			if err := tx.Where("nickname = ? AND game_id = ? AND server_id = ?", nickname, gameID, serverID).
				First(&player).Error; err != nil {
				return nil, err
			}
			return &player, nil
		}
		return nil, err
	}
	return &player, nil
}

// orderClause maps the ?ordering= parameter onto a whitelisted ORDER BY.
// "id DESC" is always appended so pagination stays deterministic under ties.
func orderClause(ordering string) string {
	clauses := map[string]string{
		"created_at":   "created_at ASC",
		"-created_at":  "created_at DESC",
		"views_count":  "views_count ASC",
		"-views_count": "views_count DESC",
	}
	clause, ok := clauses[ordering]
	if !ok {
		clause = "created_at DESC"
	}
	return clause + ", id DESC"
}

// GetAllPlayers returns the paginated player list.
// Filters: ?server= (exact). Ordering: ?ordering=created_at|views_count (±).
func (s *PlayerService) GetAllPlayers(c *fiber.Ctx) error {
	query := s.DB.Model(&models.Player{}).Order(orderClause(c.Query("ordering")))
	if server := c.QueryInt("server", 0); server > 0 {
		query = query.Where("server_id = ?", server)
	}

	var players []models.Player
	page, err := utils.Paginate(c, query, &players)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch players"})
	}
	return c.JSON(page)
}

// GetPlayerByID returns one player with its approved records. The read has
// an observable side effect: views_count goes up by one.
func (s *PlayerService) GetPlayerByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var player models.Player
	if err := s.DB.Preload("Records", "status = ?", models.RecordStatusApproved).
		First(&player, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Model(&player).UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	player.ViewsCount++
	player.RecordsCount = int64(len(player.Records))

	return c.JSON(player)
}

// SearchPlayers searches by nickname (required), game_id and server.
// Nickname and game_id match case-insensitive substrings.
func (s *PlayerService) SearchPlayers(c *fiber.Ctx) error {
	nickname := strings.TrimSpace(c.Query("nickname"))
	if nickname == "" {
		return utils.FieldError(c, "nickname", "nickname query parameter is required")
	}

	query := s.DB.Model(&models.Player{}).
		Where("LOWER(nickname) LIKE ?", "%"+strings.ToLower(NormalizeIdentity(nickname))+"%").
		Order(orderClause(c.Query("ordering")))

	if gameID := strings.TrimSpace(c.Query("game_id")); gameID != "" {
		query = query.Where("LOWER(game_id) LIKE ?", "%"+strings.ToLower(NormalizeIdentity(gameID))+"%")
	}
	if server := c.QueryInt("server", 0); server > 0 {
		query = query.Where("server_id = ?", server)
	}

	var players []models.Player
	page, err := utils.Paginate(c, query, &players)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed"})
	}
	return c.JSON(page)
}
