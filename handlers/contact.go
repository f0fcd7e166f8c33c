package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kevinaaaquil/library/backend/models"
	"github.com/kevinaaaquil/library/backend/store"
)

// ContactNotifier is told about every stored contact message;
// *service.ContactNotifier satisfies it.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, c models.Contact) error
}

type ContactHandler struct {
	Contacts *store.ContactStore
	Notifier ContactNotifier // optional
}

// Submit stores the message first; a failed notification is logged and does
// not fail the request.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in models.ContactInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	c, err := h.Contacts.SubmitContact(r.Context(), in)
	if err != nil {
		serverError(w, r, "submit contact", err)
		return
	}
	if h.Notifier != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 20*time.Second)
		defer cancel()
		if err := h.Notifier.NotifyContact(ctx, *c); err != nil {
			slog.Warn("contact notification failed", "contact", c.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Contacts.ListContacts(r.Context())
	if err != nil {
		serverError(w, r, "list contacts", err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}
