package handler

import (
	"net/http"
	"time"

	"telecare/backend/internal/chathub"
	"telecare/backend/internal/gate"
	"telecare/backend/internal/models"
	"telecare/backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// CreateAppointment створює нову консультацію у статусі pending, неоплачену.
// POST /appointments {"counselor_id": "...", "scheduled_at": "..."}
func (h *Handler) CreateAppointment(c *gin.Context) {
	userID, ok := h.bearerUserID(c)
	if !ok {
		return
	}

	var req struct {
		CounselorID string    `json:"counselor_id" binding:"required"`
		ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArg("counselor_id and scheduled_at are required"))
		return
	}
	if err := chathub.ValidateRoomPair(userID, req.CounselorID); err != nil {
		respondError(c, apperrors.InvalidArg(err.Error()))
		return
	}

	counselor, err := h.Storage.GetUserByID(req.CounselorID)
	if err != nil {
		respondError(c, apperrors.NotFound("counselor not found"))
		return
	}
	if counselor.Role != models.RoleCounselor {
		respondError(c, apperrors.InvalidArg("counselor_id does not reference a counselor"))
		return
	}

	appt := models.Appointment{
		ClientID:    userID,
		CounselorID: req.CounselorID,
		ScheduledAt: req.ScheduledAt,
		Status:      models.StatusPending,
	}
	if err := h.Storage.SaveAppointment(&appt); err != nil {
		respondError(c, apperrors.Internal("failed to create appointment"))
		return
	}

	c.JSON(http.StatusCreated, appt)
}

// GetAppointment повертає стан консультації разом з обчисленою capability та
// ідентифікатором кімнати — все, що потрібно фронтенду, щоб вибрати стан UI.
// GET /appointments/:id
func (h *Handler) GetAppointment(c *gin.Context) {
	userID, ok := h.bearerUserID(c)
	if !ok {
		return
	}

	appt, err := h.Storage.GetAppointmentByID(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NotFound("appointment not found"))
		return
	}
	if !appt.HasParticipant(userID) {
		respondError(c, apperrors.Unauthorized("not a participant of this appointment"))
		return
	}

	capability := gate.For(appt.GateState())
	c.JSON(http.StatusOK, gin.H{
		"appointment": appt,
		"capability":  capability.String(),
		"can_message": capability.CanMessage(),
		"can_video":   capability.CanVideo(),
		"room_id":     chathub.ResolveRoomID(appt.ClientID, appt.CounselorID),
	})
}

// CancelAppointment — клієнт скасовує консультацію (pending → cancelled).
// POST /appointments/:id/cancel
func (h *Handler) CancelAppointment(c *gin.Context) {
	h.transition(c, models.StatusCancelled, models.RoleClient)
}

// CompleteAppointment — консультант завершує консультацію (pending → completed).
// POST /appointments/:id/complete
func (h *Handler) CompleteAppointment(c *gin.Context) {
	h.transition(c, models.StatusCompleted, models.RoleCounselor)
}

// ConfirmAppointment — перехід pending → confirmed. Досяжний, але подальшої
// поведінки не змінює: confirmed трактується як pending.
// POST /appointments/:id/confirm
func (h *Handler) ConfirmAppointment(c *gin.Context) {
	h.transition(c, models.StatusConfirmed, models.RoleCounselor)
}

// transition — спільна логіка зміни статусу з перевіркою ролі ініціатора.
func (h *Handler) transition(c *gin.Context, next models.AppointmentStatus, requiredRole string) {
	userID, ok := h.bearerUserID(c)
	if !ok {
		return
	}

	appt, err := h.Storage.GetAppointmentByID(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NotFound("appointment not found"))
		return
	}
	if !appt.HasParticipant(userID) {
		respondError(c, apperrors.Unauthorized("not a participant of this appointment"))
		return
	}

	switch requiredRole {
	case models.RoleClient:
		if userID != appt.ClientID {
			respondError(c, apperrors.Unauthorized("only the client may perform this action"))
			return
		}
	case models.RoleCounselor:
		if userID != appt.CounselorID {
			respondError(c, apperrors.Unauthorized("only the counselor may perform this action"))
			return
		}
	}

	if err := appt.TransitionTo(next); err != nil {
		respondError(c, apperrors.InvalidArg(err.Error()))
		return
	}
	if err := h.Storage.SaveAppointment(appt); err != nil {
		respondError(c, apperrors.Internal("failed to update appointment"))
		return
	}

	c.JSON(http.StatusOK, appt)
}

// ConfirmPayment — подія підтвердження оплати з платіжного шлюзу. Встановлює
// IsPaid рівно один раз; повторні виклики — успіх без змін. Наступна ж
// ґейт-перевірка побачить оплату: рішення не кешується.
// POST /appointments/:id/payment-confirmed
func (h *Handler) ConfirmPayment(c *gin.Context) {
	appt, err := h.Storage.GetAppointmentByID(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NotFound("appointment not found"))
		return
	}

	changed := appt.MarkPaid()
	if changed {
		if err := h.Storage.SaveAppointment(appt); err != nil {
			respondError(c, apperrors.Internal("failed to record payment"))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"is_paid": true, "changed": changed})
}

// ContactCounselor — зовнішній email-канал для клієнта, поки чат закритий
// (consultation not paid). Доступний саме у стані locked; для відкритої
// консультації є чат.
// POST /appointments/:id/contact {"text": "..."}
func (h *Handler) ContactCounselor(c *gin.Context) {
	userID, ok := h.bearerUserID(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArg("text is required"))
		return
	}

	appt, err := h.Storage.GetAppointmentByID(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NotFound("appointment not found"))
		return
	}
	if userID != appt.ClientID {
		respondError(c, apperrors.Unauthorized("only the client may contact the counselor"))
		return
	}

	client, err := h.Storage.GetUserByID(appt.ClientID)
	if err != nil {
		respondError(c, apperrors.Internal("failed to load client"))
		return
	}
	counselor, err := h.Storage.GetUserByID(appt.CounselorID)
	if err != nil {
		respondError(c, apperrors.Internal("failed to load counselor"))
		return
	}

	if err := h.Mailer.SendContactRequest(counselor.Email, client.Name, appt.ID, req.Text); err != nil {
		respondError(c, apperrors.Internal("failed to send contact request"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": true})
}
