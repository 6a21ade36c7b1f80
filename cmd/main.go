package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"telecare/backend/internal/api/handler"
	"telecare/backend/internal/chathub"
	"telecare/backend/internal/config"
	"telecare/backend/internal/mailer"
	"telecare/backend/internal/models"
	"telecare/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		config.GetEnv("DB_HOST", "localhost"),
		config.GetEnv("DB_USER", "user"),
		config.GetEnv("DB_PASSWORD", "password"),
		config.GetEnv("DB_NAME", "telecaredb"),
		config.GetEnv("DB_PORT", "5432"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Перевірка з'єднання Redis
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Міграції (Створення таблиць)
	err = db.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.ChatMessage{},
		&models.SessionNote{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

// logOpenAppointments логуює консультації, в яких зараз можливе листування.
// Кімнати не мають durable-стану: членство відновлюється, коли клієнти
// пере-під'єднаються і знову надішлють join.
func logOpenAppointments(s storage.Storage) {
	appts, err := s.ListOpenAppointments()
	if err != nil {
		log.Printf("ERROR: Failed to list open appointments on startup: %v", err)
		return
	}
	for _, a := range appts {
		log.Printf("INFO: open appointment %s, room %s", a.ID, chathub.ResolveRoomID(a.ClientID, a.CounselorID))
	}
	log.Printf("Startup scan complete. %d appointments currently open for messaging.", len(appts))
}

func main() {
	log.Println("Starting Telecare Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	// 1. Ініціалізація залежностей
	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	smtpPort, err := strconv.Atoi(config.GetEnv("SMTP_PORT", "587"))
	if err != nil {
		log.Fatalf("Invalid SMTP_PORT: %v", err)
	}
	mail := mailer.NewEmailService(
		config.GetEnv("SMTP_HOST", "localhost"),
		smtpPort,
		config.GetEnv("SMTP_USER", ""),
		config.GetEnv("SMTP_PASSWORD", ""),
		config.GetEnv("SMTP_SENDER", "noreply@telecare.local"),
	)

	jwtSecret := config.GetEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET не встановлено!")
	}

	// 2. Ініціалізація релею
	hub := chathub.NewManagerService(s)
	hub.StartPubSubListener()
	go hub.Run() // Головний диспетчер

	logOpenAppointments(s)

	// 3. Налаштування Gin та роутингу
	r := gin.Default()
	h := handler.NewHandler(hub, s, mail, []byte(jwtSecret))

	r.POST("/auth/token", h.IssueToken)
	r.GET("/ws", h.ServeWebSocket) // WebSocket Upgrade

	r.POST("/appointments", h.CreateAppointment)
	r.GET("/appointments/:id", h.GetAppointment)
	r.POST("/appointments/:id/cancel", h.CancelAppointment)
	r.POST("/appointments/:id/complete", h.CompleteAppointment)
	r.POST("/appointments/:id/confirm", h.ConfirmAppointment)
	r.POST("/appointments/:id/payment-confirmed", h.ConfirmPayment)
	r.POST("/appointments/:id/contact", h.ContactCounselor)

	r.GET("/appointments/:id/messages", h.GetMessages)
	r.POST("/appointments/:id/messages", h.PostMessage)
	r.POST("/appointments/:id/messages/read", h.MarkMessagesRead)

	r.POST("/appointments/:id/notes", h.CreateNote)
	r.GET("/appointments/:id/notes", h.GetNotes)

	// Запуск HTTP-сервера
	server := &http.Server{
		Addr:           ":" + config.GetEnv("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
