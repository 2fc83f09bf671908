package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"time"

	"github.com/prithvirajnaik/FundFeed-backend/models"
	"github.com/prithvirajnaik/FundFeed-backend/storage"
)

// ThrottleWindow is how long a repeat contact request from the same
// developer to the same investor suppresses the notification email.
const ThrottleWindow = 30 * time.Minute

// EmailService sends transactional mail over SMTP. The send function is a
// field so tests can swap the transport out.
type EmailService struct {
	host     string
	port     string
	username string
	password string
	from     string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService() *EmailService {
	return &EmailService{
		host:     os.Getenv("EMAIL_HOST"),
		port:     os.Getenv("EMAIL_PORT"),
		username: os.Getenv("EMAIL_HOST_USER"),
		password: os.Getenv("EMAIL_HOST_PASSWORD"),
		from:     os.Getenv("DEFAULT_FROM_EMAIL"),
		send:     smtp.SendMail,
	}
}

// ShouldSuppress reports whether any prior request timestamp falls inside
// the throttle window ending at now.
func ShouldSuppress(priorCreatedAt []time.Time, now time.Time) bool {
	cutoff := now.Add(-ThrottleWindow)
	for _, t := range priorCreatedAt {
		if t.After(cutoff) {
			return true
		}
	}
	return false
}

// SendMail delivers a single plain-text message.
func (es *EmailService) SendMail(to, subject, body string) error {
	if es.host == "" || es.from == "" {
		return fmt.Errorf("email transport not configured")
	}

	msg := []byte("From: " + es.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	var auth smtp.Auth
	if es.username != "" {
		auth = smtp.PlainAuth("", es.username, es.password, es.host)
	}

	return es.send(es.host+":"+es.port, auth, es.from, []string{to}, msg)
}

// NotifyContactRequest emails the receiving investor about a new contact
// request, unless another request between the same pair landed within the
// throttle window. Failures are logged and never propagated: request
// creation must succeed regardless.
func (es *EmailService) NotifyContactRequest(request *models.ContactRequest) {
	now := time.Now()
	cutoff := now.Add(-ThrottleWindow)

	// The cutoff only prefilters; ShouldSuppress makes the decision.
	var priorCreatedAt []time.Time
	err := storage.DB.Model(&models.ContactRequest{}).
		Where("developer_id = ? AND investor_id = ? AND id <> ? AND created_at >= ?",
			request.DeveloperID, request.InvestorID, request.ID, cutoff).
		Pluck("created_at", &priorCreatedAt).Error
	if err != nil {
		log.Printf("notification: throttle lookup failed: %v", err)
		return
	}

	if ShouldSuppress(priorCreatedAt, now) {
		log.Printf("notification throttled: developer %s -> investor %s (recent request exists)",
			request.DeveloperID, request.InvestorID)
		return
	}

	var investor, developer models.User
	if err := storage.DB.First(&investor, "id = ?", request.InvestorID).Error; err != nil {
		log.Printf("notification: investor lookup failed: %v", err)
		return
	}
	if err := storage.DB.First(&developer, "id = ?", request.DeveloperID).Error; err != nil {
		log.Printf("notification: developer lookup failed: %v", err)
		return
	}

	senderName := developer.Username
	if senderName == "" {
		senderName = developer.Email
	}

	subject := fmt.Sprintf("New Contact Request from %s on FundFeed", senderName)
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"You have received a new contact request from %s.\n\n"+
			"Message:\n%s\n\n"+
			"Log in to FundFeed to view more details and respond.\n\n"+
			"Best regards,\nThe FundFeed Team",
		senderName, request.Message)

	if err := es.SendMail(investor.Email, subject, body); err != nil {
		log.Printf("notification: sending email to %s failed: %v", investor.Email, err)
		return
	}

	log.Printf("notification email sent to %s", investor.Email)
}
