package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technocomputers/storefront-api/models"
)

func TestSaveContactStoresAndRelays(t *testing.T) {
	db := newTestDB(t)
	rec := &mailRecorder{}
	svc := NewContactService(db, testLogger(t), rec)

	contact, err := svc.SaveContact(ContactInput{
		Name:    "  Priya  ",
		Email:   "Priya@Example.com",
		Subject: "Warranty question",
		Message: "Does the laptop ship with a local warranty?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Priya", contact.Name)
	assert.Equal(t, "priya@example.com", contact.Email)
	require.Len(t, rec.contacts, 1)
	assert.Equal(t, "Warranty question", rec.contacts[0].Subject)
}

func TestSaveContactMailFailureSurfaces(t *testing.T) {
	db := newTestDB(t)
	rec := &mailRecorder{failNext: true}
	svc := NewContactService(db, testLogger(t), rec)

	_, err := svc.SaveContact(ContactInput{
		Name: "A", Email: "a@example.com", Subject: "s", Message: "m",
	})
	require.Error(t, err)

	// the message is stored even when the relay fails
	var count int64
	require.NoError(t, db.Model(&models.Contact{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestListContactsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, testLogger(t), nil)

	for _, subject := range []string{"first", "second"} {
		_, err := svc.SaveContact(ContactInput{
			Name: "A", Email: "a@example.com", Subject: subject, Message: "m",
		})
		require.NoError(t, err)
	}

	contacts, err := svc.ListContacts()
	require.NoError(t, err)
	require.Len(t, contacts, 2)
}
