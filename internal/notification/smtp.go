package notification

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTPProvider delivers notifications via SMTP using the go-mail library.
// It is safe for concurrent use: every Send opens its own connection.
type SMTPProvider struct {
	config SMTPConfig
}

// NewSMTPProvider creates a new SMTPProvider with the given configuration.
func NewSMTPProvider(config SMTPConfig) *SMTPProvider {
	return &SMTPProvider{config: config}
}

// Name returns the provider identifier.
func (p *SMTPProvider) Name() string { return "smtp" }

// Send delivers msg using the configured SMTP server.
func (p *SMTPProvider) Send(ctx context.Context, msg Message) error {
	m, err := composeMsg(msg)
	if err != nil {
		return err
	}

	c, err := mail.NewClient(p.config.Host, p.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending mail via %s:%d: %w", p.config.Host, p.config.Port, err)
	}
	return nil
}

func (p *SMTPProvider) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(p.config.Port),
		mail.WithUsername(p.config.Username),
		mail.WithPassword(p.config.Password),
	}
	if p.config.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(p.config.Timeout))
	}

	switch p.config.Encryption {
	case "ssl_tls":
		opts = append(opts, mail.WithSSL(), mail.WithSMTPAuth(mail.SMTPAuthPlain))
	case "none":
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS), mail.WithSMTPAuth(mail.SMTPAuthPlainNoEnc))
	default:
		opts = append(opts, mail.WithTLSPolicy(tlsPolicyFromEncryption(p.config.Encryption)),
			mail.WithSMTPAuth(mail.SMTPAuthPlain))
	}
	return opts
}

// tlsPolicyFromEncryption converts the STARTTLS encryption setting to a go-mail TLSPolicy.
func tlsPolicyFromEncryption(enc string) mail.TLSPolicy {
	switch enc {
	case "starttls_required":
		return mail.TLSMandatory
	case "none":
		return mail.NoTLS
	default:
		return mail.TLSOpportunistic
	}
}

// composeMsg turns a Message into a go-mail message with a plain-text body
// and an HTML alternative.
func composeMsg(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}

	m.Subject(msg.Subject)

	// Plain-text fallback for clients that don't render HTML.
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}
	return m, nil
}
