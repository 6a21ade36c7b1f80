package handler

import (
	"net/http"

	"telecare/backend/internal/chathub"
	"telecare/backend/internal/config"
	"telecare/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket та реєструє клієнта в
// релеї. Приєднання до кімнати відбувається вже окремою подією "join" —
// одне з'єднання може слухати кілька кімнат (у користувача кілька
// консультацій).
func (h *Handler) ServeWebSocket(c *gin.Context) {
	userID, ok := h.bearerUserID(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &chathub.WebSocketClient{
		Hub:    h.Hub,
		UserID: userID,
		Conn:   conn,
		Send:   make(chan models.RelayEvent, config.SendBufferSize),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
