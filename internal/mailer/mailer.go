package mailer

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer — зовнішній канал зв'язку для клієнта, коли консультація ще не
// оплачена (capability = locked): чат закритий, лишається email консультанту.
type Mailer interface {
	SendContactRequest(toEmail, clientName, appointmentID, text string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) Mailer {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendContactRequest(toEmail, clientName, appointmentID, text string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Запит від клієнта щодо консультації %s", appointmentID))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Новий запит від клієнта</h2>
			<p><b>%s</b> хоче зв'язатися з вами щодо консультації <b>%s</b>.</p>
			<blockquote style="border-left: 3px solid #ccc; padding-left: 10px;">%s</blockquote>
			<p>Чат буде відкрито після підтвердження оплати.</p>
		</div>
	`, clientName, appointmentID, text)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Printf("ERROR: failed to send contact request to %s: %v", toEmail, err)
		return err
	}

	log.Printf("INFO: contact request sent to %s for appointment %s", toEmail, appointmentID)
	return nil
}
