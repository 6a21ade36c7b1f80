package handler

import (
	"net/http"

	"telecare/backend/internal/gate"
	"telecare/backend/internal/models"
	"telecare/backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// CreateNote — консультант додає нотатку до відкритої консультації.
// POST /appointments/:id/notes {"content": "..."}
func (h *Handler) CreateNote(c *gin.Context) {
	userID, ok := h.bearerUserID(c)
	if !ok {
		return
	}
	apptID := c.Param("id")

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArg("content is required"))
		return
	}

	gs, err := h.Storage.GetAppointmentGateState(apptID)
	if err != nil {
		respondError(c, apperrors.NotFound("appointment not found"))
		return
	}
	if userID != gs.CounselorID {
		respondError(c, apperrors.Unauthorized("only the counselor may write notes"))
		return
	}
	if err := gate.For(*gs).DenyNoteEdit(); err != nil {
		respondError(c, err)
		return
	}

	note := models.SessionNote{
		AppointmentID: apptID,
		CounselorID:   userID,
		Content:       req.Content,
	}
	if err := h.Storage.SaveNote(&note); err != nil {
		respondError(c, apperrors.Internal("failed to save note"))
		return
	}
	c.JSON(http.StatusCreated, note)
}

// GetNotes повертає нотатки консультації. Для завершеної сесії — перегляд
// без редагування; для неоплаченої чи скасованої нотатки закриті.
// GET /appointments/:id/notes
func (h *Handler) GetNotes(c *gin.Context) {
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
		respondError(c, capability.DenyNoteEdit())
		return
	}

	notes, err := h.Storage.GetNotes(apptID)
	if err != nil {
		respondError(c, apperrors.Internal("failed to load notes"))
		return
	}
	c.JSON(http.StatusOK, notes)
}
