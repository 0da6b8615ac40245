package models

import (
	"time"
)

const (
	RecordStatusPending  = "pending"
	RecordStatusApproved = "approved"
	RecordStatusRejected = "rejected"
)

// ValidRecordStatus reports whether s is one of the known status values.
func ValidRecordStatus(s string) bool {
	return s == RecordStatusPending || s == RecordStatusApproved || s == RecordStatusRejected
}

// Record is a single narrative anecdote attached to a Player, with up to
// three stored images. SubmitterID is a non-owning reference: it goes nil if
// the submitting account is ever removed, the record itself stays.
type Record struct {
	ID       string `json:"id" gorm:"primaryKey"`
	PlayerID string `json:"player_id" gorm:"index;not null"`

	Description string `json:"description" gorm:"type:text;not null"`
	Evidence    string `json:"evidence,omitempty" gorm:"type:text"`

	Image1 string `json:"image_1,omitempty" gorm:"column:image_1"`
	Image2 string `json:"image_2,omitempty" gorm:"column:image_2"`
	Image3 string `json:"image_3,omitempty" gorm:"column:image_3"`

	SubmitterID *string `json:"submitter_id,omitempty" gorm:"index"`

	Status     string `json:"status" gorm:"size:20;default:'approved';index"`
	ViewsCount uint   `json:"views_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Player *Player `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}

// Image returns the stored URL for slot 1..3, or "".
func (r *Record) Image(slot int) string {
	switch slot {
	case 1:
		return r.Image1
	case 2:
		return r.Image2
	case 3:
		return r.Image3
	}
	return ""
}

// SetImage stores url in slot 1..3.
func (r *Record) SetImage(slot int, url string) {
	switch slot {
	case 1:
		r.Image1 = url
	case 2:
		r.Image2 = url
	case 3:
		r.Image3 = url
	}
}

// Images returns the non-empty image URLs.
func (r *Record) Images() []string {
	var urls []string
	for slot := 1; slot <= 3; slot++ {
		if u := r.Image(slot); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
