package models

import "fmt"

// Типи подій, що ходять через WebSocket-з'єднання та Redis Pub/Sub.
const (
	// client → relay
	EventJoin        = "join"
	EventSendMessage = "send-message"
	EventTyping      = "typing"
	EventMessageRead = "message-read"

	// relay → client
	EventReceiveMessage = "receive-message"
	EventUserTyping     = "user-typing"
)

// ChatPayload — тіло повідомлення так, як його надіслав клієнт. Ретранслюється
// дослівно; ID та часову мітку призначає сховище вже після розсилки.
type ChatPayload struct {
	SenderID      string `json:"sender"`
	ReceiverID    string `json:"receiver"`
	Content       string `json:"message"`
	AppointmentID string `json:"appointment_id"`
	// Ref — опціональний клієнтський ключ дедуплікації: відправник теж
	// отримує власний broadcast (усі його вкладки в кімнаті).
	Ref string `json:"ref,omitempty"`
}

// RelayEvent is the single wire envelope for all realtime traffic. Type tags
// which variant it is; only the fields of that variant are populated. Events
// with missing required fields are rejected at the boundary and never
// partially broadcast.
type RelayEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
	// Origin — ідентифікатор інстансу релею, що опублікував подію в Redis.
	// Потрібен, щоб інстанс не доставляв власні події двічі.
	Origin string `json:"origin,omitempty"`

	Message   *ChatPayload `json:"message,omitempty"`    // send-message / receive-message
	UserID    string       `json:"user_id,omitempty"`    // typing / user-typing
	MessageID uint         `json:"message_id,omitempty"` // message-read
	ReaderID  string       `json:"reader_id,omitempty"`  // message-read
}

// Validate перевіряє форму вхідної події. Викликається на межі (read pump)
// до того, як подія потрапить у головний цикл релею.
func (e *RelayEvent) Validate() error {
	if e.RoomID == "" {
		return fmt.Errorf("event %q: room_id is required", e.Type)
	}
	switch e.Type {
	case EventJoin:
		return nil
	case EventSendMessage:
		if e.Message == nil {
			return fmt.Errorf("send-message: message payload is required")
		}
		if e.Message.Content == "" {
			return fmt.Errorf("send-message: empty message text")
		}
		if e.Message.SenderID == "" || e.Message.ReceiverID == "" {
			return fmt.Errorf("send-message: sender and receiver are required")
		}
		if e.Message.AppointmentID == "" {
			return fmt.Errorf("send-message: appointment_id is required")
		}
		return nil
	case EventTyping:
		if e.UserID == "" {
			return fmt.Errorf("typing: user_id is required")
		}
		return nil
	case EventMessageRead:
		if e.MessageID == 0 {
			return fmt.Errorf("message-read: message_id is required")
		}
		if e.ReaderID == "" {
			return fmt.Errorf("message-read: reader_id is required")
		}
		return nil
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
}
