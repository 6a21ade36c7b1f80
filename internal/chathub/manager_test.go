package chathub_test

import (
	"testing"
	"time"

	"telecare/backend/internal/chathub"
	"telecare/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const settle = 100 * time.Millisecond

func newTestHub(t *testing.T) (*chathub.ManagerService, *MockStorage) {
	t.Helper()
	storageMock := new(MockStorage)
	hub := chathub.NewManagerService(storageMock)
	go hub.Run()
	return hub, storageMock
}

func joinRoom(hub *chathub.ManagerService, c chathub.Client, roomID string) {
	hub.RegisterCh <- c
	hub.Dispatch(c, models.RelayEvent{Type: models.EventJoin, RoomID: roomID})
}

func sendEvent(c *mockClient) models.RelayEvent {
	return models.RelayEvent{
		Type:   models.EventSendMessage,
		RoomID: chathub.ResolveRoomID("c1", "co1"),
		Message: &models.ChatPayload{
			SenderID:      c.GetUserID(),
			ReceiverID:    "co1",
			Content:       "hello",
			AppointmentID: "appt-1",
		},
	}
}

func TestManager_SendBroadcastsToRoomMembers(t *testing.T) {
	hub, storageMock := newTestHub(t)
	storageMock.On("AppendMessage", "appt-1", "c1", "co1", "hello").Return(&models.ChatMessage{}, nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("string"), mock.AnythingOfType("models.RelayEvent")).Return(nil)

	roomID := chathub.ResolveRoomID("c1", "co1")
	client := newMockClient("c1")
	counselor := newMockClient("co1")
	joinRoom(hub, client, roomID)
	joinRoom(hub, counselor, roomID)

	hub.Dispatch(client, sendEvent(client))
	time.Sleep(settle)

	got := counselor.drain()
	assert.Len(t, got, 1)
	assert.Equal(t, models.EventReceiveMessage, got[0].Type)
	assert.Equal(t, "hello", got[0].Message.Content)
	assert.Equal(t, "c1", got[0].Message.SenderID)

	// Відправник теж отримує власний broadcast (його інші вкладки в кімнаті).
	assert.Len(t, client.drain(), 1)

	storageMock.AssertCalled(t, "AppendMessage", "appt-1", "c1", "co1", "hello")
	storageMock.AssertCalled(t, "PublishEvent", roomID, mock.AnythingOfType("models.RelayEvent"))
}

func TestManager_MembershipIsolation(t *testing.T) {
	hub, storageMock := newTestHub(t)
	storageMock.On("AppendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&models.ChatMessage{}, nil)
	storageMock.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

	roomID := chathub.ResolveRoomID("c1", "co1")
	client := newMockClient("c1")
	outsider := newMockClient("c2")
	joinRoom(hub, client, roomID)
	hub.RegisterCh <- outsider // зареєстрований, але не в кімнаті

	hub.Dispatch(client, sendEvent(client))
	time.Sleep(settle)

	assert.Empty(t, outsider.drain(), "non-member must never receive room broadcasts")
}

func TestManager_NonMemberSendDroppedSilently(t *testing.T) {
	hub, storageMock := newTestHub(t)

	roomID := chathub.ResolveRoomID("c1", "co1")
	member := newMockClient("co1")
	outsider := newMockClient("c2")
	joinRoom(hub, member, roomID)
	hub.RegisterCh <- outsider

	hub.Dispatch(outsider, sendEvent(outsider))
	time.Sleep(settle)

	assert.Empty(t, member.drain(), "send from non-member must not broadcast")
	storageMock.AssertNotCalled(t, "AppendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestManager_MultiDeviceFanOut(t *testing.T) {
	hub, storageMock := newTestHub(t)
	storageMock.On("AppendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&models.ChatMessage{}, nil)
	storageMock.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

	roomID := chathub.ResolveRoomID("c1", "co1")
	tab1 := newMockClient("c1")
	tab2 := newMockClient("c1")
	counselor := newMockClient("co1")
	joinRoom(hub, tab1, roomID)
	joinRoom(hub, tab2, roomID)
	joinRoom(hub, counselor, roomID)

	hub.Dispatch(counselor, models.RelayEvent{
		Type:   models.EventSendMessage,
		RoomID: roomID,
		Message: &models.ChatPayload{
			SenderID:      "co1",
			ReceiverID:    "c1",
			Content:       "hi there",
			AppointmentID: "appt-1",
		},
	})
	time.Sleep(settle)

	// Обидві вкладки одного користувача отримують рівно одну подію кожна.
	assert.Len(t, tab1.drain(), 1)
	assert.Len(t, tab2.drain(), 1)
}

func TestManager_TypingExcludesOrigin(t *testing.T) {
	hub, storageMock := newTestHub(t)
	storageMock.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

	roomID := chathub.ResolveRoomID("c1", "co1")
	client := newMockClient("c1")
	counselor := newMockClient("co1")
	joinRoom(hub, client, roomID)
	joinRoom(hub, counselor, roomID)

	hub.Dispatch(client, models.RelayEvent{Type: models.EventTyping, RoomID: roomID, UserID: "c1"})
	time.Sleep(settle)

	got := counselor.drain()
	assert.Len(t, got, 1)
	assert.Equal(t, models.EventUserTyping, got[0].Type)
	assert.Equal(t, "c1", got[0].UserID)
	assert.Empty(t, client.drain(), "typing indicator must not echo to its origin")
	storageMock.AssertNotCalled(t, "AppendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestManager_ReadReceiptBroadcastsToAllIncludingOrigin(t *testing.T) {
	hub, storageMock := newTestHub(t)
	storageMock.On("MarkRead", uint(42)).Return(true, nil)
	storageMock.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

	roomID := chathub.ResolveRoomID("c1", "co1")
	client := newMockClient("c1")
	counselor := newMockClient("co1")
	joinRoom(hub, client, roomID)
	joinRoom(hub, counselor, roomID)

	hub.Dispatch(client, models.RelayEvent{
		Type:      models.EventMessageRead,
		RoomID:    roomID,
		MessageID: 42,
		ReaderID:  "c1",
	})
	time.Sleep(settle)

	// Усі пристрої, включно з ініціатором, сходяться до одного стану.
	clientGot := client.drain()
	counselorGot := counselor.drain()
	assert.Len(t, clientGot, 1)
	assert.Len(t, counselorGot, 1)
	assert.Equal(t, uint(42), counselorGot[0].MessageID)
	assert.Equal(t, "c1", counselorGot[0].ReaderID)
	storageMock.AssertCalled(t, "MarkRead", uint(42))
}

func TestManager_BroadcastOrderMatchesDispatchOrder(t *testing.T) {
	hub, storageMock := newTestHub(t)
	storageMock.On("AppendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&models.ChatMessage{}, nil)
	storageMock.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

	roomID := chathub.ResolveRoomID("c1", "co1")
	client := newMockClient("c1")
	counselor := newMockClient("co1")
	joinRoom(hub, client, roomID)
	joinRoom(hub, counselor, roomID)

	for _, text := range []string{"first", "second", "third"} {
		evt := sendEvent(client)
		evt.Message.Content = text
		hub.Dispatch(client, evt)
	}
	time.Sleep(settle)

	got := counselor.drain()
	assert.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Message.Content)
	assert.Equal(t, "second", got[1].Message.Content)
	assert.Equal(t, "third", got[2].Message.Content)
}

func TestManager_LeaveIsIdempotent(t *testing.T) {
	hub, storageMock := newTestHub(t)
	storageMock.On("AppendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&models.ChatMessage{}, nil)
	storageMock.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

	roomID := chathub.ResolveRoomID("c1", "co1")
	client := newMockClient("c1")
	counselor := newMockClient("co1")
	joinRoom(hub, client, roomID)
	joinRoom(hub, counselor, roomID)

	hub.UnregisterCh <- client
	hub.UnregisterCh <- client // повторний виклик — no-op
	time.Sleep(settle)

	hub.Dispatch(counselor, models.RelayEvent{
		Type:   models.EventSendMessage,
		RoomID: roomID,
		Message: &models.ChatPayload{
			SenderID:      "co1",
			ReceiverID:    "c1",
			Content:       "anyone there?",
			AppointmentID: "appt-1",
		},
	})
	time.Sleep(settle)

	assert.Empty(t, client.drain(), "left client must receive nothing")
	assert.Len(t, counselor.drain(), 1)
}

func TestManager_PubSubFiltersOwnOrigin(t *testing.T) {
	hub, _ := newTestHub(t)

	roomID := chathub.ResolveRoomID("c1", "co1")
	client := newMockClient("c1")
	joinRoom(hub, client, roomID)
	time.Sleep(settle)

	// Власна публікація: локальна розсилка вже відбулася, дублікат не потрібен.
	hub.PubSubCh <- models.RelayEvent{
		Type:    models.EventReceiveMessage,
		RoomID:  roomID,
		Origin:  hub.InstanceID,
		Message: &models.ChatPayload{SenderID: "c1", ReceiverID: "co1", Content: "own", AppointmentID: "appt-1"},
	}
	// Подія від іншого інстансу релею доставляється локальним учасникам.
	hub.PubSubCh <- models.RelayEvent{
		Type:    models.EventReceiveMessage,
		RoomID:  roomID,
		Origin:  "other-instance",
		Message: &models.ChatPayload{SenderID: "co1", ReceiverID: "c1", Content: "remote", AppointmentID: "appt-1"},
	}
	time.Sleep(settle)

	got := client.drain()
	assert.Len(t, got, 1)
	assert.Equal(t, "remote", got[0].Message.Content)
}
