package models

import (
	"time"
)

// Player is one in-game identity. The (nickname, game_id, server_id) triple
// is the natural key — the composite unique index is what keeps concurrent
// submissions from creating two rows for the same identity.
type Player struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Nickname string `json:"nickname" gorm:"size:100;not null;index;uniqueIndex:idx_player_identity"`
	GameID   string `json:"game_id" gorm:"size:50;not null;index;uniqueIndex:idx_player_identity"`
	ServerID uint   `json:"server_id" gorm:"not null;uniqueIndex:idx_player_identity"`

	// ServerName is copied from the servers table once, at creation.
	// It is intentionally never re-synced if the directory row is renamed.
	ServerName string `json:"server_name"`

	ViewsCount uint `json:"views_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Records []Record `json:"records,omitempty" gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`

	// RecordsCount is derived, not stored. Populated on detail/export reads.
	RecordsCount int64 `json:"records_count,omitempty" gorm:"-"`
}
