// services/record_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"legend-record-system/middleware"
	"legend-record-system/models"
	"legend-record-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecordService struct {
	DB      *gorm.DB
	Players *PlayerService
	Store   utils.ImageStore

	// ModerationEnabled flips the default status of new records from
	// "approved" (auto-publish) to "pending".
	ModerationEnabled bool
}

func NewRecordService(db *gorm.DB, players *PlayerService, store utils.ImageStore, moderation bool) *RecordService {
	return &RecordService{DB: db, Players: players, Store: store, ModerationEnabled: moderation}
}

var imageFormFields = [3]string{"image_1", "image_2", "image_3"}

func (s *RecordService) defaultStatus() string {
	if s.ModerationEnabled {
		return models.RecordStatusPending
	}
	return models.RecordStatusApproved
}

func recordKey(playerID, recordID, filename string) string {
	return fmt.Sprintf("records/%s/%s/%s", playerID, recordID, filename)
}

// collectImages validates every provided image_1..image_3 part. The first
// failure aborts the whole submission; absent parts are fine.
func collectImages(c *fiber.Ctx) ([3]*utils.CheckedImage, string, error) {
	var images [3]*utils.CheckedImage
	for i, field := range imageFormFields {
		fh, err := c.FormFile(field)
		if err != nil {
			continue
		}
		ci, cerr := utils.CheckImage(fh)
		if cerr != nil {
			return images, field, cerr
		}
		images[i] = ci
	}
	return images, "", nil
}

// CreatePlayerRecord handles POST /players: resolves the identity triple to
// a Player (creating it on first submission) and attaches a new Record.
func (s *RecordService) CreatePlayerRecord(c *fiber.Ctx) error {
	serverStr := c.FormValue("server")
	serverID, err := strconv.ParseUint(serverStr, 10, 32)
	if serverStr == "" || err != nil || serverID == 0 {
		return utils.FieldError(c, "server", "a valid server id is required")
	}

	nickname := c.FormValue("nickname")
	gameID := c.FormValue("game_id")

	return s.submit(c, func(tx *gorm.DB) (*models.Player, error) {
		return s.Players.ResolveOrCreate(tx, nickname, gameID, uint(serverID))
	})
}

// AddRecord handles POST /players/:id/add_record: attaches another Record to
// an existing Player.
func (s *RecordService) AddRecord(c *fiber.Ctx) error {
	id := c.Params("id")

	var player models.Player
	if err := s.DB.First(&player, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return s.submit(c, func(tx *gorm.DB) (*models.Player, error) {
		var p models.Player
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &p, nil
	})
}

// submit runs the shared submission pipeline: validate description and
// images, stage blobs in the temp namespace, then in one transaction resolve
// the player, create the record and move the blobs to their final keys.
// Any failure leaves no partial record behind.
func (s *RecordService) submit(c *fiber.Ctx, resolve func(tx *gorm.DB) (*models.Player, error)) error {
	caller := middleware.CallerID(c)

	description := strings.TrimSpace(c.FormValue("description"))
	if description == "" {
		log.Printf("🚫 [SUBMIT] user=%s rejected: empty description", caller)
		return utils.FieldError(c, "description", "description is required")
	}
	evidence := strings.TrimSpace(c.FormValue("evidence"))

	images, field, err := collectImages(c)
	if err != nil {
		log.Printf("🚫 [SUBMIT] user=%s rejected: %s: %v", caller, field, err)
		return utils.FieldError(c, field, err.Error())
	}

	// Stage blobs before any row exists. The housekeeping sweeper reclaims
	// anything left here by an aborted submission.
	tempKeys := make([]string, 0, 3)
	for _, ci := range images {
		if ci == nil {
			continue
		}
		key := utils.TempPrefix + ci.StoredName()
		if _, err := s.Store.Save(key, bytes.NewReader(ci.Data), ci.ContentType); err != nil {
			log.Printf("❌ [SUBMIT] user=%s failed to stage image: %v", caller, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store image"})
		}
		tempKeys = append(tempKeys, key)
	}

	var (
		player    *models.Player
		rec       *models.Record
		finalKeys []string
	)
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		p, err := resolve(tx)
		if err != nil {
			return err
		}
		player = p

		r := &models.Record{
			ID:          uuid.NewString(),
			PlayerID:    p.ID,
			Description: description,
			Evidence:    evidence,
			Status:      s.defaultStatus(),
		}
		if caller != "" {
			r.SubmitterID = &caller
		}
		if err := tx.Create(r).Error; err != nil {
			return err
		}

		for slot := 1; slot <= 3; slot++ {
			ci := images[slot-1]
			if ci == nil {
				continue
			}
			key := recordKey(p.ID, r.ID, ci.StoredName())
			url, err := s.Store.Save(key, bytes.NewReader(ci.Data), ci.ContentType)
			if err != nil {
				return fmt.Errorf("store image %d: %w", slot, err)
			}
			finalKeys = append(finalKeys, key)
			r.SetImage(slot, url)
		}
		if len(finalKeys) > 0 {
			if err := tx.Model(r).Updates(map[string]interface{}{
				"image_1": r.Image1,
				"image_2": r.Image2,
				"image_3": r.Image3,
			}).Error; err != nil {
				return err
			}
		}

		rec = r
		return nil
	})

	// the staged copies are spent either way
	for _, key := range tempKeys {
		if err := s.Store.Delete(key); err != nil {
			log.Printf("⚠️ [SUBMIT] temp cleanup failed for %s: %v", key, err)
		}
	}

	if txErr != nil {
		for _, key := range finalKeys {
			if err := s.Store.Delete(key); err != nil {
				log.Printf("⚠️ [SUBMIT] rollback cleanup failed for %s: %v", key, err)
			}
		}
		var verr *ValidationErr
		if errors.As(txErr, &verr) {
			log.Printf("🚫 [SUBMIT] user=%s rejected: %s", caller, verr.Error())
			return utils.FieldError(c, verr.Field, verr.Message)
		}
		log.Printf("❌ [SUBMIT] user=%s failed: %v", caller, txErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to submit record"})
	}

	log.Printf("✅ [SUBMIT] user=%s player=%s record=%s images=%d", caller, player.ID, rec.ID, len(finalKeys))
	rec.Player = player
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// GetAllRecords returns the paginated, approved-only record list.
// Filters: ?player= (exact). Ordering: ?ordering=created_at|views_count (±).
func (s *RecordService) GetAllRecords(c *fiber.Ctx) error {
	query := s.DB.Model(&models.Record{}).
		Where("status = ?", models.RecordStatusApproved).
		Order(orderClause(c.Query("ordering"))).
		Preload("Player")
	if playerID := c.Query("player"); playerID != "" {
		query = query.Where("player_id = ?", playerID)
	}

	var records []models.Record
	page, err := utils.Paginate(c, query, &records)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch records"})
	}
	return c.JSON(page)
}

// GetRecordByID returns one record with its player. Like the player detail,
// the read increments views_count by one.
func (s *RecordService) GetRecordByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var rec models.Record
	if err := s.DB.Preload("Player").First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "record not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Model(&rec).UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	rec.ViewsCount++

	return c.JSON(rec)
}

// GetMyRecords lists the caller's own submissions, any status.
func (s *RecordService) GetMyRecords(c *fiber.Ctx) error {
	caller := middleware.CallerID(c)
	if caller == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
	}

	query := s.DB.Model(&models.Record{}).
		Where("submitter_id = ?", caller).
		Order(orderClause(c.Query("ordering"))).
		Preload("Player")

	var records []models.Record
	page, err := utils.Paginate(c, query, &records)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch records"})
	}
	return c.JSON(page)
}

// formHas reports whether the request body carries the field at all, so
// updates can distinguish "absent" from "set to empty".
func formHas(c *fiber.Ctx, key string) bool {
	if mf, err := c.MultipartForm(); err == nil && mf != nil {
		_, ok := mf.Value[key]
		return ok
	}
	return c.Request().PostArgs().Has(key)
}

// UpdateRecord lets the submitter edit description, evidence, status and
// replace individual image slots. Absent fields are left untouched.
func (s *RecordService) UpdateRecord(c *fiber.Ctx) error {
	id := c.Params("id")
	caller := middleware.CallerID(c)

	var rec models.Record
	if err := s.DB.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "record not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if rec.SubmitterID == nil || *rec.SubmitterID != caller {
		log.Printf("🚫 [RECORD] user=%s forbidden update on record=%s", caller, rec.ID)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only the submitter can modify this record"})
	}

	if formHas(c, "description") {
		description := strings.TrimSpace(c.FormValue("description"))
		if description == "" {
			return utils.FieldError(c, "description", "description cannot be empty")
		}
		rec.Description = description
	}
	if formHas(c, "evidence") {
		rec.Evidence = strings.TrimSpace(c.FormValue("evidence"))
	}
	if formHas(c, "status") {
		status := c.FormValue("status")
		if !models.ValidRecordStatus(status) {
			return utils.FieldError(c, "status", "status must be one of: pending, approved, rejected")
		}
		rec.Status = status
	}

	for slot := 1; slot <= 3; slot++ {
		fh, err := c.FormFile(imageFormFields[slot-1])
		if err != nil {
			continue
		}
		ci, cerr := utils.CheckImage(fh)
		if cerr != nil {
			return utils.FieldError(c, imageFormFields[slot-1], cerr.Error())
		}

		key := recordKey(rec.PlayerID, rec.ID, ci.StoredName())
		url, err := s.Store.Save(key, bytes.NewReader(ci.Data), ci.ContentType)
		if err != nil {
			log.Printf("❌ [RECORD] user=%s image store failed on record=%s: %v", caller, rec.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store image"})
		}
		if old := rec.Image(slot); old != "" {
			if err := s.Store.Delete(s.Store.KeyFromURL(old)); err != nil {
				log.Printf("⚠️ [RECORD] failed to delete replaced image %s: %v", old, err)
			}
		}
		rec.SetImage(slot, url)
	}

	if err := s.DB.Save(&rec).Error; err != nil {
		log.Printf("❌ [RECORD] user=%s update failed on record=%s: %v", caller, rec.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update record"})
	}

	log.Printf("✅ [RECORD] user=%s updated record=%s", caller, rec.ID)
	return c.JSON(rec)
}

// DeleteRecord removes the record's image blobs (and the directories they
// leave empty), then the row. Blob cleanup is best-effort: a storage hiccup
// is logged, not fatal.
func (s *RecordService) DeleteRecord(c *fiber.Ctx) error {
	id := c.Params("id")
	caller := middleware.CallerID(c)

	var rec models.Record
	if err := s.DB.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "record not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if rec.SubmitterID == nil || *rec.SubmitterID != caller {
		log.Printf("🚫 [RECORD] user=%s forbidden delete on record=%s", caller, rec.ID)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only the submitter can delete this record"})
	}

	prefix := fmt.Sprintf("records/%s/%s/", rec.PlayerID, rec.ID)
	if err := s.Store.DeletePrefix(prefix); err != nil {
		log.Printf("⚠️ [RECORD] image cleanup failed for record=%s: %v", rec.ID, err)
	}

	if err := s.DB.Delete(&rec).Error; err != nil {
		log.Printf("❌ [RECORD] user=%s delete failed on record=%s: %v", caller, rec.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete record"})
	}

	log.Printf("✅ [RECORD] user=%s deleted record=%s", caller, rec.ID)
	return c.JSON(fiber.Map{"message": "record deleted", "id": rec.ID})
}
