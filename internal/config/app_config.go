package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds all application-level configuration loaded from environment variables.
// It is built once at startup and treated as read-only afterwards.
type AppConfig struct {
	// SMTPEmail is the sender address. It doubles as the SMTP username.
	// Required unless loaded with LoadForDryRun.
	SMTPEmail string `envconfig:"SMTP_EMAIL"`

	// SMTPPassword is the account password or app token for the relay.
	// Required unless loaded with LoadForDryRun.
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`

	SMTPHost string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`

	// SMTPEncryption is one of "starttls", "starttls_required", "ssl_tls" or "none".
	SMTPEncryption string `envconfig:"SMTP_ENCRYPTION" default:"starttls"`

	// SMTPTimeout bounds a single send, including dial and handshake.
	SMTPTimeout time.Duration `envconfig:"SMTP_TIMEOUT" default:"30s"`

	// FromName is the display name placed in front of SMTPEmail in the From header.
	FromName string `envconfig:"SMTP_FROM_NAME" default:"Admin Support"`

	// TemplatesDir is the directory holding the HTML email templates.
	TemplatesDir string `envconfig:"TEMPLATES_DIR" default:"templates"`

	// PlatformURL is rendered as the call-to-action link in confirmation mails.
	PlatformURL string `envconfig:"PLATFORM_URL" default:"https://serenity-platform.web.app"`

	// Port is the HTTP server port. Defaults to 8000.
	Port int `envconfig:"PORT" default:"8000"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFile, when set, receives a rotated copy of the JSON logs.
	LogFile string `envconfig:"LOG_FILE"`

	// CORSAllowedOrigins is a comma-separated list. "*" allows any origin.
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// TracesExporter selects the trace exporter: "otlp" or "none".
	TracesExporter string `envconfig:"OTEL_TRACES_EXPORTER" default:"none"`

	// OTLPEndpoint is the collector address used when TracesExporter is "otlp".
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// OTLPInsecure disables TLS on the OTLP gRPC connection.
	OTLPInsecure bool `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"false"`
}

// DryRunSender is the From address used by LoadForDryRun when SMTP_EMAIL is unset.
const DryRunSender = "noreply@localhost"

// Load reads AppConfig from environment variables using envconfig.
// A .env file in the working directory, if present, is loaded first; variables
// already set in the environment win over the file.
func Load() (*AppConfig, error) {
	return LoadWithDotenv(".env")
}

// LoadWithDotenv is Load with an explicit dotenv path. A missing file is not an error.
func LoadWithDotenv(path string) (*AppConfig, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadForDryRun is Load for commands that never contact the relay. SMTP
// credentials are optional and SMTP_EMAIL falls back to DryRunSender.
func LoadForDryRun() (*AppConfig, error) {
	c, err := load(".env")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.SMTPEmail) == "" {
		c.SMTPEmail = DryRunSender
	}
	if err := c.validateSettings(); err != nil {
		return nil, err
	}
	return c, nil
}

func load(path string) (*AppConfig, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &c, nil
}

// Validate checks the SMTP credentials and every value envconfig cannot
// express as tags.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.SMTPEmail) == "" {
		return errors.New("SMTP_EMAIL must not be blank")
	}
	if c.SMTPPassword == "" {
		return errors.New("SMTP_PASSWORD must not be blank")
	}
	return c.validateSettings()
}

func (c *AppConfig) validateSettings() error {
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT %d out of range", c.SMTPPort)
	}
	switch c.SMTPEncryption {
	case "starttls", "starttls_required", "ssl_tls", "none":
	default:
		return fmt.Errorf("unsupported SMTP_ENCRYPTION %q", c.SMTPEncryption)
	}
	switch c.TracesExporter {
	case "none", "otlp":
	default:
		return fmt.Errorf("unsupported OTEL_TRACES_EXPORTER %q", c.TracesExporter)
	}
	return nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AllowedOrigins splits CORSAllowedOrigins into its entries.
func (c *AppConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
