package models

import "time"

// User is provisioned out-of-band via identity-provider webhooks.
// ProviderID is the identity provider's subject id.
type User struct {
	ID         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	ProviderID string    `json:"provider_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	Username   string    `json:"username" gorm:"type:varchar(255);not null"`
	Email      string    `json:"email" gorm:"type:varchar(255);not null"`
	ImageURL   *string   `json:"image_url,omitempty" gorm:"type:varchar(512)"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
