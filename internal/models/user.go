package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Email       string    `json:"email" gorm:"unique;not null"`
	Username    string    `json:"username"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Password    string    `json:"-" gorm:"not null"`

	IsActive    bool `json:"is_active" gorm:"default:true"`
	IsStaff     bool `json:"is_staff" gorm:"default:false"`
	IsSuperuser bool `json:"is_superuser" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tags  []Tag  `json:"tags,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
