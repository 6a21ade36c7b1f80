package main

import (
	"fmt"
	"log"
	"os"

	"telecare/backend/internal/models"
	"telecare/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Адмінська CLI для ручних операцій підтримки: проставити оплату, коли
// платіжний webhook не дійшов, або примусово завершити чи скасувати
// консультацію.
func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 3 {
		fmt.Println("Usage: admin <mark-paid|complete|cancel> <appointment_id>")
		os.Exit(1)
	}

	command := os.Args[1]
	apptID := os.Args[2]

	switch command {
	case "mark-paid":
		if err := markPaid(storageSvc, apptID); err != nil {
			log.Fatalf("Error marking appointment paid: %v", err)
		}
		fmt.Printf("Appointment %s has been marked paid.\n", apptID)
	case "complete":
		if err := transition(storageSvc, apptID, models.StatusCompleted); err != nil {
			log.Fatalf("Error completing appointment: %v", err)
		}
		fmt.Printf("Appointment %s has been completed.\n", apptID)
	case "cancel":
		if err := transition(storageSvc, apptID, models.StatusCancelled); err != nil {
			log.Fatalf("Error cancelling appointment: %v", err)
		}
		fmt.Printf("Appointment %s has been cancelled.\n", apptID)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func markPaid(s storage.Storage, apptID string) error {
	appt, err := s.GetAppointmentByID(apptID)
	if err != nil {
		return err
	}
	if !appt.MarkPaid() {
		fmt.Println("Appointment was already paid; nothing to do.")
		return nil
	}
	return s.SaveAppointment(appt)
}

func transition(s storage.Storage, apptID string, next models.AppointmentStatus) error {
	appt, err := s.GetAppointmentByID(apptID)
	if err != nil {
		return err
	}
	if err := appt.TransitionTo(next); err != nil {
		return err
	}
	return s.SaveAppointment(appt)
}
