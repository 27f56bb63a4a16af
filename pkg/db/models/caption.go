package models

import (
	"time"

	"github.com/google/uuid"
)

// Caption is the immutable audit record of one generated caption set.
// The core flow never reads these back.
type Caption struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:text;not null;index"`
	Text      string    `gorm:"column:caption_text;not null"`
	Language  string    `gorm:"not null"`
	Platform  string    `gorm:"not null"`
	Tone      string    `gorm:"not null"`
	Category  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Caption) TableName() string {
	return "captions"
}
