package models

import "gorm.io/gorm"

// SessionNote — нотатка консультанта до консультації. Редагування можливе
// лише поки сесія відкрита (див. internal/gate).
type SessionNote struct {
	gorm.Model

	AppointmentID string `gorm:"type:text;not null;index" json:"appointment_id"`
	CounselorID   string `gorm:"type:text;not null" json:"counselor_id"`
	Content       string `gorm:"type:text;not null" json:"content"`
}
