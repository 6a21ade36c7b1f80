package models

import "gorm.io/gorm"

// ChatMessage represents a saved chat message in the PostgreSQL database.
// The embedded gorm.Model provides ID, CreatedAt, UpdatedAt, and DeletedAt fields;
// CreatedAt is assigned at persistence time and is the ordering timestamp
// clients fall back to when rendering history.
type ChatMessage struct {
	gorm.Model

	// AppointmentID is the appointment this message belongs to.
	AppointmentID string `gorm:"type:text;not null;index:idx_appt_msg" json:"appointment_id"`
	// SenderID is the participant who sent the message.
	SenderID string `gorm:"type:text;not null;index:idx_appt_msg" json:"sender_id"`
	// ReceiverID is the other participant of the appointment.
	ReceiverID string `gorm:"type:text;not null" json:"receiver_id"`
	// Content is the message text. Never empty.
	Content string `gorm:"type:text;not null" json:"content"`
	// Read flips to true exactly once, when the receiver acknowledges delivery.
	Read bool `gorm:"not null;default:false" json:"read"`
}
