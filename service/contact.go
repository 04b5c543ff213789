package service

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/technocomputers/storefront-api/mailer"
	"github.com/technocomputers/storefront-api/models"
)

type ContactService struct {
	db     *gorm.DB
	log    *zap.Logger
	mailer Mailer
}

func NewContactService(db *gorm.DB, log *zap.Logger, m Mailer) *ContactService {
	return &ContactService{db: db, log: log, mailer: m}
}

type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// SaveContact stores the message, then relays it to the admin inbox and
// acknowledges the sender. Unlike order mail, a send failure here is
// surfaced to the caller.
func (s *ContactService) SaveContact(input ContactInput) (*models.Contact, error) {
	contact := models.Contact{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Subject: strings.TrimSpace(input.Subject),
		Message: input.Message,
	}
	if err := s.db.Create(&contact).Error; err != nil {
		return nil, err
	}

	if s.mailer != nil {
		err := s.mailer.SendContactMessage(mailer.ContactMessage{
			Name:    contact.Name,
			Email:   contact.Email,
			Subject: contact.Subject,
			Message: contact.Message,
		})
		if err != nil {
			s.log.Error("contact email failed",
				zap.Uint("contact_id", contact.ID), zap.Error(err))
			return nil, err
		}
	}
	return &contact, nil
}

func (s *ContactService) ListContacts() ([]models.Contact, error) {
	var contacts []models.Contact
	err := s.db.Order("created_at desc").Find(&contacts).Error
	return contacts, err
}
