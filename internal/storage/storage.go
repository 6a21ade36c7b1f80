package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"telecare/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage — вузький інтерфейс персистентності, від якого залежать релей та
// HTTP-шар. Ядру релею потрібні лише AppendMessage, MarkRead,
// GetAppointmentGateState та Pub/Sub; решта — CRUD зовнішніх поверхонь.
type Storage interface {
	// Users
	SaveUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)

	// Appointments
	SaveAppointment(appt *models.Appointment) error
	GetAppointmentByID(id string) (*models.Appointment, error)
	GetAppointmentGateState(id string) (*models.GateState, error)
	ListOpenAppointments() ([]models.Appointment, error)

	// Messages
	AppendMessage(appointmentID, senderID, receiverID, text string) (*models.ChatMessage, error)
	MarkRead(messageID uint) (bool, error)
	MarkAllRead(appointmentID, readerID string) (int64, error)
	GetChatHistory(appointmentID string) ([]models.ChatMessage, error)

	// Notes
	SaveNote(note *models.SessionNote) error
	GetNotes(appointmentID string) ([]models.SessionNote, error)

	// Pub/Sub для горизонтального масштабування релею
	PublishEvent(roomID string, evt models.RelayEvent) error
	SubscribeEvents() *redis.PubSub
}

// Префікс каналів Redis, якими релей тиражує розсилки між інстансами.
const eventChannelPrefix = "relay:"

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveUser зберігає користувача в PostgreSQL
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveAppointment зберігає консультацію в PostgreSQL
func (s *Service) SaveAppointment(appt *models.Appointment) error {
	return s.DB.Save(appt).Error
}

func (s *Service) GetAppointmentByID(id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.DB.First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("appointment not found")
	}
	if err != nil {
		log.Printf("ERROR: Failed to get appointment %s: %v", id, err)
		return nil, err
	}
	return &appt, nil
}

// GetAppointmentGateState повертає рівно ті поля, з яких обчислюється
// capability. На критичному шляху кожної ґейт-перевірки, тому без Preload
// та зайвих колонок.
func (s *Service) GetAppointmentGateState(id string) (*models.GateState, error) {
	var gs models.GateState
	err := s.DB.Model(&models.Appointment{}).
		Select("status", "is_paid", "client_id", "counselor_id").
		Where("id = ?", id).
		Take(&gs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("appointment not found")
	}
	if err != nil {
		log.Printf("ERROR: Failed to get gate state for appointment %s: %v", id, err)
		return nil, err
	}
	return &gs, nil
}

// ListOpenAppointments повертає консультації, в яких зараз можливе
// листування (оплачені та ще не завершені). Використовується при старті
// для логування відновлених активних кімнат.
func (s *Service) ListOpenAppointments() ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.DB.
		Where("is_paid = ?", true).
		Where("status IN ?", []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}).
		Find(&appts).Error
	if err != nil {
		log.Printf("ERROR: Failed to list open appointments: %v", err)
		return nil, err
	}
	return appts, nil
}

// AppendMessage зберігає повідомлення в PostgreSQL. Ідентичність та часову
// мітку призначає саме цей запис (gorm.Model), а не релей: для відображення
// історія сортується за CreatedAt, і мітка з боку сховища виключає розсинхрон
// годинників між релеєм та повільною базою.
func (s *Service) AppendMessage(appointmentID, senderID, receiverID, text string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		AppointmentID: appointmentID,
		SenderID:      senderID,
		ReceiverID:    receiverID,
		Content:       text,
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for appointment %s: %v", appointmentID, err)
		return nil, err
	}
	return &msg, nil
}

// MarkRead переводить read у true рівно один раз. Повертає, чи змінився стан;
// повторний виклик — успіх без змін (ідемпотентність).
func (s *Service) MarkRead(messageID uint) (bool, error) {
	result := s.DB.Model(&models.ChatMessage{}).
		Where("id = ? AND read = ?", messageID, false).
		Update("read", true)
	if result.Error != nil {
		log.Printf("ERROR: Failed to mark message %d read: %v", messageID, result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkAllRead позначає прочитаними всі повідомлення консультації, адресовані
// readerID. Повертає кількість змінених записів.
func (s *Service) MarkAllRead(appointmentID, readerID string) (int64, error) {
	result := s.DB.Model(&models.ChatMessage{}).
		Where("appointment_id = ? AND receiver_id = ? AND read = ?", appointmentID, readerID, false).
		Update("read", true)
	if result.Error != nil {
		log.Printf("ERROR: Failed to mark messages read for appointment %s: %v", appointmentID, result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// GetChatHistory отримує історію повідомлень консультації, відсортовану за
// часом збереження.
func (s *Service) GetChatHistory(appointmentID string) ([]models.ChatMessage, error) {
	var history []models.ChatMessage
	if err := s.DB.Where("appointment_id = ?", appointmentID).Order("created_at asc").Find(&history).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return history, nil // Пустий список, а не помилка
		}
		log.Printf("ERROR: Failed to get chat history for appointment %s: %v", appointmentID, err)
		return nil, err
	}
	return history, nil
}

func (s *Service) SaveNote(note *models.SessionNote) error {
	if err := s.DB.Save(note).Error; err != nil {
		log.Printf("ERROR: Failed to save note for appointment %s: %v", note.AppointmentID, err)
		return err
	}
	return nil
}

func (s *Service) GetNotes(appointmentID string) ([]models.SessionNote, error) {
	var notes []models.SessionNote
	if err := s.DB.Where("appointment_id = ?", appointmentID).Order("created_at asc").Find(&notes).Error; err != nil {
		log.Printf("ERROR: Failed to get notes for appointment %s: %v", appointmentID, err)
		return nil, err
	}
	return notes, nil
}

// PublishEvent публікує подію релею в Redis Pub/Sub
func (s *Service) PublishEvent(roomID string, evt models.RelayEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, eventChannelPrefix+roomID, string(payload)).Err()
}

// SubscribeEvents підписується на всі канали подій релею.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, eventChannelPrefix+"*")
}
