package chathub

import (
	"log"

	"telecare/backend/internal/models"
	"telecare/backend/internal/storage"

	"github.com/google/uuid"
)

// inboundEvent — валідована подія від конкретного з'єднання для головного циклу.
type inboundEvent struct {
	client Client
	event  models.RelayEvent
}

// ManagerService — ядро релею. Таблиця членства кімнат — єдиний спільний
// змінюваний стан, і мутується вона виключно всередині Run(): одна goroutine,
// жодних блокувань. Розсилки в межах кімнати зберігають порядок надходження
// подій у цикл.
type ManagerService struct {
	// InstanceID ідентифікує цей процес релею в Redis Pub/Sub, щоб не
	// доставляти власні публікації вдруге.
	InstanceID string

	// rooms: roomID → множина під'єднаних клієнтів. Порожні множини
	// видаляються одразу, окремого життєвого циклу кімнати немає.
	rooms map[string]map[Client]struct{}
	// memberships: зворотний індекс для leave(client) з усіх кімнат.
	memberships map[Client]map[string]struct{}

	// Channels
	EventCh      chan inboundEvent
	RegisterCh   chan Client
	UnregisterCh chan Client
	PubSubCh     chan models.RelayEvent

	Storage storage.Storage
}

// NewManagerService створює релей із підключеним сховищем.
func NewManagerService(s storage.Storage) *ManagerService {
	return &ManagerService{
		InstanceID:   uuid.New().String(),
		rooms:        make(map[string]map[Client]struct{}),
		memberships:  make(map[Client]map[string]struct{}),
		EventCh:      make(chan inboundEvent),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		PubSubCh:     make(chan models.RelayEvent),
		Storage:      s,
	}
}

// Dispatch передає валідовану подію від клієнта в головний цикл.
func (m *ManagerService) Dispatch(c Client, evt models.RelayEvent) {
	m.EventCh <- inboundEvent{client: c, event: evt}
}

// Run — головний цикл релею. Кожна операція виконується до кінця, перш ніж
// почнеться наступна; єдина робота, що виноситься назовні, — запис у сховище
// та публікація в Redis (fire-and-forget goroutine, розсилка на них не чекає).
func (m *ManagerService) Run() {
	for {
		select {
		case client := <-m.RegisterCh:
			if _, ok := m.memberships[client]; !ok {
				m.memberships[client] = make(map[string]struct{})
			}
			log.Printf("INFO: client registered for user %s", client.GetUserID())

		case client := <-m.UnregisterCh:
			m.leave(client)

		case in := <-m.EventCh:
			m.handleEvent(in.client, in.event)

		case evt := <-m.PubSubCh:
			m.handlePubSub(evt)
		}
	}
}

func (m *ManagerService) handleEvent(client Client, evt models.RelayEvent) {
	switch evt.Type {
	case models.EventJoin:
		m.join(client, evt.RoomID)

	case models.EventSendMessage:
		if !m.isMember(client, evt.RoomID) {
			// Не-учасник ніколи не спричиняє розсилку. Мовчазний дроп.
			log.Printf("WARNING: send-message from non-member %s for room %s dropped", client.GetUserID(), evt.RoomID)
			return
		}
		out := models.RelayEvent{
			Type:    models.EventReceiveMessage,
			RoomID:  evt.RoomID,
			Message: evt.Message,
		}
		// BroadcastThenPersist: спершу розсилка всім учасникам (включно з
		// іншими вкладками відправника), потім асинхронний запис. Падіння
		// між цими кроками — прийнята прогалина довговічності.
		m.broadcast(out, nil)
		go m.persistAndPublish(out)

	case models.EventTyping:
		if !m.isMember(client, evt.RoomID) {
			return
		}
		out := models.RelayEvent{
			Type:   models.EventUserTyping,
			RoomID: evt.RoomID,
			UserID: evt.UserID,
		}
		// Індикатор набору — ефемерний: без персистенції, без таймерів на
		// боці релею. Відправнику власний індикатор не потрібен.
		m.broadcast(out, client)
		go m.publish(out)

	case models.EventMessageRead:
		if !m.isMember(client, evt.RoomID) {
			return
		}
		out := models.RelayEvent{
			Type:      models.EventMessageRead,
			RoomID:    evt.RoomID,
			MessageID: evt.MessageID,
			ReaderID:  evt.ReaderID,
		}
		// Розсилаємо всім, включно з ініціатором: кожен пристрій сходиться
		// до одного стану прочитаності.
		m.broadcast(out, nil)
		go m.markReadAndPublish(out)

	default:
		log.Printf("WARNING: unknown relay event type %q dropped", evt.Type)
	}
}

// join додає клієнта до кімнати. Кілька з'єднань одного користувача — це
// нормально: всі вони отримуватимуть розсилки.
func (m *ManagerService) join(client Client, roomID string) {
	if _, ok := m.rooms[roomID]; !ok {
		m.rooms[roomID] = make(map[Client]struct{})
	}
	m.rooms[roomID][client] = struct{}{}
	if _, ok := m.memberships[client]; !ok {
		m.memberships[client] = make(map[string]struct{})
	}
	m.memberships[client][roomID] = struct{}{}
	log.Printf("INFO: user %s joined room %s", client.GetUserID(), roomID)
}

// leave видаляє клієнта з усіх кімнат. Ідемпотентний: повторний виклик для
// вже відключеного клієнта нічого не робить.
func (m *ManagerService) leave(client Client) {
	roomIDs, ok := m.memberships[client]
	if !ok {
		return
	}
	for roomID := range roomIDs {
		delete(m.rooms[roomID], client)
		if len(m.rooms[roomID]) == 0 {
			delete(m.rooms, roomID)
		}
	}
	delete(m.memberships, client)
	client.Close()
	log.Printf("INFO: client for user %s left all rooms", client.GetUserID())
}

func (m *ManagerService) isMember(client Client, roomID string) bool {
	_, ok := m.rooms[roomID][client]
	return ok
}

// broadcast доставляє подію всім учасникам кімнати, окрім exclude (якщо не nil).
func (m *ManagerService) broadcast(evt models.RelayEvent, exclude Client) {
	for client := range m.rooms[evt.RoomID] {
		if client == exclude {
			continue
		}
		select {
		case client.GetSendChannel() <- evt:
		default:
			// Переповнений буфер означає мертве або безнадійно повільне
			// з'єднання. Відключаємо, щоб не блокувати цикл.
			log.Printf("WARNING: send buffer full for user %s, disconnecting", client.GetUserID())
			m.leave(client)
		}
	}
}

// persistAndPublish записує повідомлення у сховище та публікує подію для
// інших інстансів релею. Помилка запису логуються і не ретраїться: повтор —
// це нове повідомлення від клієнта.
func (m *ManagerService) persistAndPublish(evt models.RelayEvent) {
	msg := evt.Message
	if _, err := m.Storage.AppendMessage(msg.AppointmentID, msg.SenderID, msg.ReceiverID, msg.Content); err != nil {
		log.Printf("ERROR: failed to persist message for room %s: %v", evt.RoomID, err)
	}
	m.publish(evt)
}

func (m *ManagerService) markReadAndPublish(evt models.RelayEvent) {
	if _, err := m.Storage.MarkRead(evt.MessageID); err != nil {
		log.Printf("ERROR: failed to mark message %d read: %v", evt.MessageID, err)
	}
	m.publish(evt)
}

// publish віддає подію в Redis Pub/Sub з позначкою походження.
func (m *ManagerService) publish(evt models.RelayEvent) {
	evt.Origin = m.InstanceID
	if err := m.Storage.PublishEvent(evt.RoomID, evt); err != nil {
		log.Printf("ERROR: failed to publish event to room %s: %v", evt.RoomID, err)
	}
}

// handlePubSub доставляє подію, опубліковану іншим інстансом релею, локальним
// учасникам кімнати.
func (m *ManagerService) handlePubSub(evt models.RelayEvent) {
	if evt.Origin == m.InstanceID {
		// Власна публікація: локальна розсилка вже відбулася.
		return
	}
	evt.Origin = ""
	m.broadcast(evt, nil)
}
