// Package mailer renders the storefront's HTML notifications and dispatches
// them through a single shared SMTP transport.
package mailer

import (
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// OrderLine is one row of the order-confirmation table.
type OrderLine struct {
	Name     string
	Quantity int
	Price    float64
}

// ContactMessage is a contact-form submission to relay.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	AdminTo   string // contact-form messages land here; defaults to Username
}

type Mailer struct {
	dialer  *gomail.Dialer
	cfg     Config
	breaker *gobreaker.CircuitBreaker[struct{}]
	log     *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Mailer {
	if cfg.AdminTo == "" {
		cfg.AdminTo = cfg.Username
	}
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "smtp",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("SMTP breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &Mailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg:     cfg,
		breaker: breaker,
		log:     log,
	}
}

func (m *Mailer) send(to, subject, html, text string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.cfg.FromEmail, m.cfg.FromName))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)

	_, err := m.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, m.dialer.DialAndSend(msg)
	})
	if err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, to, err)
	}
	m.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (m *Mailer) SendWelcome(to, name string) error {
	html, err := renderWelcome(name)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Welcome to Techno Computers, %s! Thank you for joining our community.", name)
	return m.send(to, "Welcome to Techno Computers!", html, text)
}

func (m *Mailer) SendOrderConfirmation(to, name, orderNumber string, total float64, lines []OrderLine) error {
	html, err := renderOrderConfirmation(name, orderNumber, total, lines)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Your order %s has been confirmed. Total: Rs. %.2f", orderNumber, total)
	return m.send(to, "Order Confirmation - "+orderNumber, html, text)
}

func (m *Mailer) SendOrderStatusUpdate(to, name, orderNumber, status string) error {
	html, err := renderOrderStatusUpdate(name, orderNumber, status)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Order %s status updated to: %s", orderNumber, status)
	return m.send(to, "Order Update - "+orderNumber, html, text)
}

// SendContactMessage relays the submission to the store inbox and sends the
// customer an acknowledgment. Both must succeed.
func (m *Mailer) SendContactMessage(msg ContactMessage) error {
	adminHTML, err := renderContactAdmin(msg)
	if err != nil {
		return err
	}
	if err := m.send(m.cfg.AdminTo, "Contact Form: "+msg.Subject,
		adminHTML, fmt.Sprintf("From %s <%s>: %s", msg.Name, msg.Email, msg.Message)); err != nil {
		return err
	}

	ackHTML, err := renderContactAck(msg)
	if err != nil {
		return err
	}
	return m.send(msg.Email, "Thank you for contacting Techno Computers",
		ackHTML, fmt.Sprintf("Dear %s, we have received your message and will get back to you soon.", msg.Name))
}
