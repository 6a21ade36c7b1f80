package models_test

import (
	"testing"

	"telecare/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestAppointmentBeforeCreate verifies UUID and default status assignment.
func TestAppointmentBeforeCreate(t *testing.T) {
	appt := &models.Appointment{ClientID: "c1", CounselorID: "co1"}

	err := appt.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	_, parseErr := uuid.Parse(appt.ID)
	assert.NoError(t, parseErr, "ID must be a valid UUID")
	assert.Equal(t, models.StatusPending, appt.Status)
}

func TestAppointmentTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.AppointmentStatus
		to      models.AppointmentStatus
		wantErr bool
	}{
		{"pending to cancelled", models.StatusPending, models.StatusCancelled, false},
		{"pending to completed", models.StatusPending, models.StatusCompleted, false},
		{"pending to confirmed", models.StatusPending, models.StatusConfirmed, false},
		{"confirmed to completed", models.StatusConfirmed, models.StatusCompleted, false},
		{"cancelled is terminal", models.StatusCancelled, models.StatusPending, true},
		{"cancelled to completed", models.StatusCancelled, models.StatusCompleted, true},
		{"completed is terminal", models.StatusCompleted, models.StatusPending, true},
		{"completed to cancelled", models.StatusCompleted, models.StatusCancelled, true},
		{"unknown target", models.StatusPending, models.AppointmentStatus("paused"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := &models.Appointment{ID: "a1", Status: tt.from}
			err := appt.TransitionTo(tt.to)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.from, appt.Status, "status must not change on rejected transition")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, appt.Status)
			}
		})
	}
}

func TestAppointmentTransitionToSameStatus(t *testing.T) {
	// Перехід у власний статус — успіх без змін, навіть для термінальних станів.
	appt := &models.Appointment{ID: "a1", Status: models.StatusCompleted}
	assert.NoError(t, appt.TransitionTo(models.StatusCompleted))
	assert.Equal(t, models.StatusCompleted, appt.Status)
}

// TestMarkPaid verifies the paid flag flips exactly once and never resets.
func TestMarkPaid(t *testing.T) {
	appt := &models.Appointment{ID: "a1", Status: models.StatusPending}

	assert.True(t, appt.MarkPaid(), "first call must flip the flag")
	assert.True(t, appt.IsPaid)

	assert.False(t, appt.MarkPaid(), "second call must be a no-op")
	assert.True(t, appt.IsPaid)
}

func TestHasParticipant(t *testing.T) {
	appt := &models.Appointment{ClientID: "c1", CounselorID: "co1"}
	assert.True(t, appt.HasParticipant("c1"))
	assert.True(t, appt.HasParticipant("co1"))
	assert.False(t, appt.HasParticipant("other"))
}

func TestGateStateProjection(t *testing.T) {
	appt := &models.Appointment{
		ClientID:    "c1",
		CounselorID: "co1",
		Status:      models.StatusPending,
		IsPaid:      true,
	}
	gs := appt.GateState()
	assert.Equal(t, models.StatusPending, gs.Status)
	assert.True(t, gs.IsPaid)
	assert.Equal(t, "c1", gs.ClientID)
	assert.Equal(t, "co1", gs.CounselorID)
}
