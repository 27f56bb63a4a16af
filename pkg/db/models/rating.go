package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating stores out-of-band feedback for a caption. Only the id ties it
// to a Caption row; no foreign key is enforced.
type Rating struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"type:text;not null"`
	CaptionID uuid.UUID `gorm:"type:uuid;column:caption_id;not null;index"`
	Score     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Rating) TableName() string {
	return "ratings"
}
