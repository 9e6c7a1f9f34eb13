package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

type Task struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Description string    `json:"description" gorm:"size:500;not null"`
	DueDate     time.Time `json:"due_date" gorm:"not null"`
	IsComplete  bool      `json:"is_complete" gorm:"default:false"`
	Priority    Priority  `json:"priority" gorm:"default:1"`
	CreatedAt   time.Time `json:"created_at"`

	Tags []Tag `json:"tags" gorm:"many2many:task_tags;"`
}
