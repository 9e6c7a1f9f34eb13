package models

import (
	"github.com/gofrs/uuid"
)

// Tag is a user-owned label. Tags are never shared between users, so the
// pair (user_id, name) is unique and get-or-create can rely on the index.
type Tag struct {
	ID     uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name   string    `json:"name" gorm:"not null;uniqueIndex:idx_tags_user_name"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_tags_user_name"`
}
