package handler

import (
	"errors"
	"net/http"

	"telecare/backend/internal/chathub"
	"telecare/backend/internal/mailer"
	"telecare/backend/internal/storage"
	"telecare/backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Handler тримає залежності HTTP-шару.
type Handler struct {
	Hub       *chathub.ManagerService
	Storage   storage.Storage
	Mailer    mailer.Mailer
	JWTSecret []byte
}

func NewHandler(hub *chathub.ManagerService, s storage.Storage, m mailer.Mailer, jwtSecret []byte) *Handler {
	return &Handler{Hub: hub, Storage: s, Mailer: m, JWTSecret: jwtSecret}
}

// respondError мапить типізовані помилки на HTTP-статуси. Ґейт-відмови —
// очікуваний результат, а не 500: клієнт показує відповідний стан
// ("оплатіть консультацію" / "сесію завершено" / "скасовано").
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.CodeInvalidArgument:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case apperrors.CodePaymentRequired:
		status = http.StatusPaymentRequired
	case apperrors.CodeSessionCompleted, apperrors.CodeSessionCancelled:
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
}
