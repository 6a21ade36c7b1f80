package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus — статус консультації.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a scheduled counseling session between a client and
// a counselor. Participants are immutable after creation; only Status and
// IsPaid change over the appointment's lifetime.
type Appointment struct {
	ID          string            `gorm:"primaryKey" json:"id"` // UUID
	ClientID    string            `gorm:"type:text;not null;index" json:"client_id"`
	CounselorID string            `gorm:"type:text;not null;index" json:"counselor_id"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Status      AppointmentStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	IsPaid      bool              `gorm:"not null;default:false" json:"is_paid"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// BeforeCreate генерує UUID та початковий статус, якщо вони не встановлені.
func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	return
}

// IsTerminal reports whether the appointment reached a state that admits no
// further status transitions.
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// TransitionTo переводить консультацію у новий статус. Зі станів cancelled
// та completed виходу немає; з pending дозволені всі переходи
// (confirmed досяжний, але ніщо в системі його далі не використовує).
func (a *Appointment) TransitionTo(next AppointmentStatus) error {
	switch next {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
	default:
		return fmt.Errorf("unknown appointment status %q", next)
	}
	if a.Status == next {
		return nil
	}
	if a.IsTerminal() {
		return fmt.Errorf("appointment %s is %s: no transition to %s", a.ID, a.Status, next)
	}
	a.Status = next
	return nil
}

// MarkPaid встановлює IsPaid рівно один раз. Повторний виклик нічого не
// змінює і повертає false.
func (a *Appointment) MarkPaid() bool {
	if a.IsPaid {
		return false
	}
	a.IsPaid = true
	return true
}

// HasParticipant перевіряє, що userID є однією зі сторін консультації.
func (a *Appointment) HasParticipant(userID string) bool {
	return userID == a.ClientID || userID == a.CounselorID
}

// GateState is the narrow projection of an appointment that access decisions
// are made from. Fetched fresh on every gated action, never cached.
type GateState struct {
	Status      AppointmentStatus `json:"status"`
	IsPaid      bool              `json:"is_paid"`
	ClientID    string            `json:"client_id"`
	CounselorID string            `json:"counselor_id"`
}

// GateState повертає проєкцію консультації для перевірки доступу.
func (a *Appointment) GateState() GateState {
	return GateState{
		Status:      a.Status,
		IsPaid:      a.IsPaid,
		ClientID:    a.ClientID,
		CounselorID: a.CounselorID,
	}
}
