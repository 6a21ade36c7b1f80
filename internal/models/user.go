package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq" // Необхідний для pq.StringArray
	"gorm.io/gorm"
)

// Ролі користувачів у системі.
const (
	RoleClient    = "client"
	RoleCounselor = "counselor"
)

// User представляє учасника системи: клієнта або консультанта.
type User struct {
	ID          string         `gorm:"primaryKey" json:"id"` // UUID
	Email       string         `gorm:"uniqueIndex" json:"email"`
	Name        string         `json:"name"`
	Role        string         `gorm:"type:text;not null" json:"role"` // "client" або "counselor"
	Specialties pq.StringArray `gorm:"type:text[]" json:"specialties"` // Теги спеціалізацій консультанта
}

// BeforeCreate — це хук GORM, який викликається перед створенням запису.
// Він генерує новий UUID для користувача, якщо ID ще не встановлено.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
