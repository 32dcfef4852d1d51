package notification

import "time"

// SMTPConfig holds connection parameters for the SMTP provider.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// Encryption is "starttls", "starttls_required", "ssl_tls" or "none".
	Encryption string
	Timeout    time.Duration
}
