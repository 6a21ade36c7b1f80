package chathub_test

import (
	"telecare/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify/mock implementation of the storage.Storage
// interface, allowing flexible expectation setting in relay tests.
type MockStorage struct {
	mock.Mock
}

// User operations
func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Appointment operations
func (m *MockStorage) SaveAppointment(appt *models.Appointment) error {
	args := m.Called(appt)
	return args.Error(0)
}

func (m *MockStorage) GetAppointmentByID(id string) (*models.Appointment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockStorage) GetAppointmentGateState(id string) (*models.GateState, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GateState), args.Error(1)
}

func (m *MockStorage) ListOpenAppointments() ([]models.Appointment, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Appointment), args.Error(1)
}

// Message operations
func (m *MockStorage) AppendMessage(appointmentID, senderID, receiverID, text string) (*models.ChatMessage, error) {
	args := m.Called(appointmentID, senderID, receiverID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockStorage) MarkRead(messageID uint) (bool, error) {
	args := m.Called(messageID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) MarkAllRead(appointmentID, readerID string) (int64, error) {
	args := m.Called(appointmentID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetChatHistory(appointmentID string) ([]models.ChatMessage, error) {
	args := m.Called(appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

// Note operations
func (m *MockStorage) SaveNote(note *models.SessionNote) error {
	args := m.Called(note)
	return args.Error(0)
}

func (m *MockStorage) GetNotes(appointmentID string) ([]models.SessionNote, error) {
	args := m.Called(appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionNote), args.Error(1)
}

// Pub/Sub operations
func (m *MockStorage) PublishEvent(roomID string, evt models.RelayEvent) error {
	args := m.Called(roomID, evt)
	return args.Error(0)
}

func (m *MockStorage) SubscribeEvents() *redis.PubSub {
	args := m.Called()
	return args.Get(0).(*redis.PubSub)
}

// mockClient is a test double for the chathub.Client interface with a
// buffered receive channel so broadcasts never block in tests.
type mockClient struct {
	userID string
	Recv   chan models.RelayEvent
	closed bool
}

func newMockClient(userID string) *mockClient {
	return &mockClient{
		userID: userID,
		Recv:   make(chan models.RelayEvent, 16),
	}
}

func (c *mockClient) GetUserID() string                        { return c.userID }
func (c *mockClient) GetSendChannel() chan<- models.RelayEvent { return c.Recv }
func (c *mockClient) Run()                                     {}

func (c *mockClient) Close() {
	if !c.closed {
		c.closed = true
		close(c.Recv)
	}
}

// drain збирає всі події, що вже доставлені клієнту.
func (c *mockClient) drain() []models.RelayEvent {
	var events []models.RelayEvent
	for {
		select {
		case evt, ok := <-c.Recv:
			if !ok {
				return events
			}
			events = append(events, evt)
		default:
			return events
		}
	}
}
