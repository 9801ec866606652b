package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatTurn is one query/answer exchange. Turns answered from stored session
// summaries carry IsLTM=true and are skipped when building the conversational
// context for the next ordinary turn. Turns are never mutated after create.
type ChatTurn struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID     uuid.UUID `json:"session_id" gorm:"type:uuid;not null;index"`
	Session       Session   `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:CASCADE"`
	UserID        int       `json:"user_id" gorm:"not null;index"`
	Query         string    `json:"query" gorm:"type:text"`
	Response      string    `json:"response" gorm:"type:text"`
	ResolvedQuery string    `json:"resolved_query" gorm:"type:text"`
	IsLTM         bool      `json:"is_ltm" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (c *ChatTurn) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
