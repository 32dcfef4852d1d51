// Package notification composes outgoing mail and hands it to a delivery
// backend. The SMTP backend is built on go-mail; templates are plain
// html/template files loaded once at startup.
package notification

import "context"

// Message is the content to be delivered by a Provider.
type Message struct {
	// FromName is the display name shown in front of From.
	FromName string
	From     string
	To       string
	Subject  string
	// TextBody is the plain-text part for clients that don't render HTML.
	TextBody string
	// HTMLBody is sent as the multipart/alternative HTML part.
	HTMLBody string
}

// Provider is the interface for notification delivery backends.
type Provider interface {
	// Name returns the provider identifier (e.g. "smtp").
	Name() string
	// Send delivers the message using the provider's transport.
	Send(ctx context.Context, msg Message) error
}
