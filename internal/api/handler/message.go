package handler

import (
	"net/http"

	"telecare/backend/internal/chathub"
	"telecare/backend/internal/gate"
	"telecare/backend/internal/models"
	"telecare/backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// GetMessages повертає історію повідомлень консультації.
// GET /appointments/:id/messages
func (h *Handler) GetMessages(c *gin.Context) {
	userID, ok := h.bearerUserID(c)
	if !ok {
		return
	}
	apptID := c.Param("id")

	gs, err := h.Storage.GetAppointmentGateState(apptID)
	if err != nil {
		respondError(c, apperrors.NotFound("appointment not found"))
		return
	}
	if userID != gs.ClientID && userID != gs.CounselorID {
		respondError(c, apperrors.Unauthorized("not a participant of this appointment"))
		return
	}

	capability := gate.For(*gs)
	if !capability.CanViewHistory() {
		// Для завершеної сесії історія лишається доступною (read-only);
		// для неоплаченої чи скасованої — ні.
		respondError(c, capability.DenyMessage())
		return
	}

	history, err := h.Storage.GetChatHistory(apptID)
	if err != nil {
		respondError(c, apperrors.Internal("failed to load messages"))
		return
	}
	c.JSON(http.StatusOK, history)
}

// PostMessage — REST-шлях надсилання повідомлення. Саме тут (на боці
// викликача, а не в релеї) застосовується ґейт: неоплачена, завершена чи
// скасована консультація отримує типізовану відмову. Збережене повідомлення
// публікується в Pub/Sub, щоб під'єднані пристрої отримали його як
// receive-message.
// POST /appointments/:id/messages {"message": "...", "ref": "..."}
func (h *Handler) PostMessage(c *gin.Context) {
	userID, ok := h.bearerUserID(c)
	if !ok {
		return
	}
	apptID := c.Param("id")

	var req struct {
		Message string `json:"message" binding:"required"`
		Ref     string `json:"ref"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArg("message text is required"))
		return
	}

	gs, err := h.Storage.GetAppointmentGateState(apptID)
	if err != nil {
		respondError(c, apperrors.NotFound("appointment not found"))
		return
	}
	if userID != gs.ClientID && userID != gs.CounselorID {
		respondError(c, apperrors.Unauthorized("not a participant of this appointment"))
		return
	}

	if err := gate.For(*gs).DenyMessage(); err != nil {
		respondError(c, err)
		return
	}

	receiverID := gs.CounselorID
	if userID == gs.CounselorID {
		receiverID = gs.ClientID
	}

	msg, err := h.Storage.AppendMessage(apptID, userID, receiverID, req.Message)
	if err != nil {
		respondError(c, apperrors.Internal("failed to save message"))
		return
	}

	// Fan-out під'єднаним пристроям через Pub/Sub.
	roomID := chathub.ResolveRoomID(gs.ClientID, gs.CounselorID)
	evt := models.RelayEvent{
		Type:   models.EventReceiveMessage,
		RoomID: roomID,
		Message: &models.ChatPayload{
			SenderID:      userID,
			ReceiverID:    receiverID,
			Content:       req.Message,
			AppointmentID: apptID,
			Ref:           req.Ref,
		},
	}
	if err := h.Storage.PublishEvent(roomID, evt); err != nil {
		// Повідомлення вже збережено; доставка наздожениться при
		// наступному перезавантаженні історії.
		respondError(c, apperrors.Internal("message saved but broadcast failed"))
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// MarkMessagesRead позначає прочитаними всі повідомлення, адресовані
// користувачу в межах консультації.
// POST /appointments/:id/messages/read
func (h *Handler) MarkMessagesRead(c *gin.Context) {
	userID, ok := h.bearerUserID(c)
	if !ok {
		return
	}
	apptID := c.Param("id")

	gs, err := h.Storage.GetAppointmentGateState(apptID)
	if err != nil {
		respondError(c, apperrors.NotFound("appointment not found"))
		return
	}
	if userID != gs.ClientID && userID != gs.CounselorID {
		respondError(c, apperrors.Unauthorized("not a participant of this appointment"))
		return
	}

	changed, err := h.Storage.MarkAllRead(apptID, userID)
	if err != nil {
		respondError(c, apperrors.Internal("failed to mark messages read"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": changed})
}
