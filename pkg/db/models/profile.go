package models

import (
	"time"

	"github.com/instaprompt/backend/pkg/enums"
)

// Profile tracks a caption user's plan and usage, keyed by email.
// Rows are created on first contact and never deleted by the service.
type Profile struct {
	ID               uint       `gorm:"primaryKey"`
	Email            string     `gorm:"type:text;not null;uniqueIndex"`
	Plan             enums.Plan `gorm:"type:text;not null;default:'trial'"`
	UsedCaptions     int        `gorm:"column:used_captions;not null;default:0"`
	StripeCustomerID *string    `gorm:"column:stripe_customer_id"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
