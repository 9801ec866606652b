package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is one conversation thread. SummaryCount stays in [0,5]; reaching 5
// triggers a rollover that compacts SessionSummary and resets the counter.
type Session struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         int       `json:"user_id" gorm:"not null;index"`
	User           User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	SessionSummary string    `json:"session_summary" gorm:"type:text;not null;default:''"`
	SessionTitle   string    `json:"session_title" gorm:"type:varchar(255);not null;default:''"`
	SummaryCount   int       `json:"summary_count" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
