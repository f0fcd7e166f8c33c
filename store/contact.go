package store

import (
	"context"
	"time"

	"github.com/kevinaaaquil/library/backend/docstore"
	"github.com/kevinaaaquil/library/backend/models"
)

type ContactStore struct {
	contacts docstore.Collection
	now      func() time.Time
}

func NewContactStore(docs docstore.Store) *ContactStore {
	return &ContactStore{contacts: docs.Collection(ContactsCollection), now: utcNow}
}

// SubmitContact stores a contact form message as unread.
func (s *ContactStore) SubmitContact(ctx context.Context, in models.ContactInput) (*models.Contact, error) {
	c := models.Contact{
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		Timestamp: s.now(),
		Status:    models.ContactStatusUnread,
	}
	id, err := s.contacts.Add(ctx, docstore.Fields{
		"name":      c.Name,
		"email":     c.Email,
		"message":   c.Message,
		"timestamp": c.Timestamp,
		"status":    c.Status,
	})
	if err != nil {
		return nil, err
	}
	c.ID = id
	return &c, nil
}

// ListContacts returns messages newest first.
func (s *ContactStore) ListContacts(ctx context.Context) ([]models.Contact, error) {
	docs, err := s.contacts.Find(ctx, docstore.Query{}.OrderBy("timestamp", true))
	if err != nil {
		return nil, err
	}
	out := make([]models.Contact, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.Contact{
			ID:        d.ID,
			Name:      d.String("name"),
			Email:     d.String("email"),
			Message:   d.String("message"),
			Timestamp: d.Time("timestamp"),
			Status:    d.String("status"),
		})
	}
	newestFirst(out, func(c models.Contact) time.Time { return c.Timestamp })
	return out, nil
}
