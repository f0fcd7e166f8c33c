package service

import (
	"context"
	"fmt"

	mail "github.com/go-mail/mail/v2"

	"github.com/kevinaaaquil/library/backend/models"
)

// Sender delivers a composed message; *mail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*mail.Message) error
}

// ContactNotifier forwards contact form messages to the library inbox.
type ContactNotifier struct {
	Sender Sender
	From   string
	To     string
}

func NewContactNotifier(host string, port int, user, password, to string) *ContactNotifier {
	d := mail.NewDialer(host, port, user, password)
	d.StartTLSPolicy = mail.OpportunisticStartTLS
	from := user
	if from == "" {
		from = to
	}
	return &ContactNotifier{Sender: d, From: from, To: to}
}

func (n *ContactNotifier) NotifyContact(ctx context.Context, c models.Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := mail.NewMessage()
	m.SetHeader("From", n.From)
	m.SetHeader("To", n.To)
	m.SetHeader("Reply-To", c.Email)
	m.SetHeader("Subject", "Library contact: "+c.Name)
	m.SetBody("text/plain", fmt.Sprintf("From: %s <%s>\nReceived: %s\n\n%s",
		c.Name, c.Email, c.Timestamp.Format("2006-01-02 15:04 MST"), c.Message))
	return n.Sender.DialAndSend(m)
}
