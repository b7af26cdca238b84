// internal/app/system/mailer/mailer.go
//
// Outbound mail. The only message this system sends is the contact-form
// relay, built here and delivered over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured reports that no SMTP transport is configured. Callers
// surface a generic failure; the reason never reaches the client.
var ErrNotConfigured = errors.New("mailer: smtp transport not configured")

// Email is one outbound message.
type Email struct {
	To       string
	ReplyTo  string
	Subject  string
	TextBody string
}

// Sender delivers an Email.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// ContactData holds the relayed contact-form fields, already sanitized.
type ContactData struct {
	Name     string
	Email    string
	Category string
	Message  string
}

// BuildContactEmail renders the contact relay addressed to the
// back-office inbox, with reply-to pointing at the submitter.
func BuildContactEmail(to string, data ContactData) Email {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Contact form submission\n\n")
	fmt.Fprintf(&buf, "Name: %s\n", data.Name)
	fmt.Fprintf(&buf, "Email: %s\n", data.Email)
	if data.Category != "" {
		fmt.Fprintf(&buf, "Category: %s\n", data.Category)
	}
	fmt.Fprintf(&buf, "\n%s\n", data.Message)

	subject := "Contact form"
	if data.Category != "" {
		subject = fmt.Sprintf("Contact form: %s", data.Category)
	}
	return Email{
		To:       to,
		ReplyTo:  data.Email,
		Subject:  subject,
		TextBody: buf.String(),
	}
}
