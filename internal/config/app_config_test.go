package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SMTP_EMAIL", "noreply@example.com")
	t.Setenv("SMTP_PASSWORD", "app-token")
}

func TestAppConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, c.SlogLevel())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadWithDotenv("")
	require.NoError(t, err)
	assert.Equal(t, "noreply@example.com", cfg.SMTPEmail)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "starttls", cfg.SMTPEncryption)
	assert.Equal(t, 30*time.Second, cfg.SMTPTimeout)
	assert.Equal(t, "Admin Support", cfg.FromName)
	assert.Equal(t, "templates", cfg.TemplatesDir)
	assert.Equal(t, "https://serenity-platform.web.app", cfg.PlatformURL)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "none", cfg.TracesExporter)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "mail.internal")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_ENCRYPTION", "none")
	t.Setenv("SMTP_TIMEOUT", "5s")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithDotenv("")
	require.NoError(t, err)
	assert.Equal(t, "mail.internal", cfg.SMTPHost)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, "none", cfg.SMTPEncryption)
	assert.Equal(t, 5*time.Second, cfg.SMTPTimeout)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_MissingCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"no email", "", "secret"},
		{"no password", "noreply@example.com", ""},
		{"blank email", "   ", "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SMTP_EMAIL", tt.email)
			t.Setenv("SMTP_PASSWORD", tt.password)

			_, err := LoadWithDotenv("")
			require.Error(t, err)
		})
	}
}

func TestLoadForDryRun_CredentialsOptional(t *testing.T) {
	t.Setenv("SMTP_EMAIL", "")
	t.Setenv("SMTP_PASSWORD", "")

	cfg, err := LoadForDryRun()
	require.NoError(t, err)
	assert.Equal(t, DryRunSender, cfg.SMTPEmail)
	assert.Empty(t, cfg.SMTPPassword)
}

func TestLoadForDryRun_KeepsConfiguredSender(t *testing.T) {
	t.Setenv("SMTP_EMAIL", "noreply@example.com")
	t.Setenv("SMTP_PASSWORD", "")

	cfg, err := LoadForDryRun()
	require.NoError(t, err)
	assert.Equal(t, "noreply@example.com", cfg.SMTPEmail)
}

func TestLoadForDryRun_StillValidatesSettings(t *testing.T) {
	t.Setenv("SMTP_EMAIL", "")
	t.Setenv("SMTP_PASSWORD", "")
	t.Setenv("SMTP_ENCRYPTION", "tls13")

	_, err := LoadForDryRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_ENCRYPTION")
}

func TestLoad_RejectsUnknownEncryption(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_ENCRYPTION", "tls13")

	_, err := LoadWithDotenv("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_ENCRYPTION")
}

func TestLoad_Dotenv(t *testing.T) {
	// Register cleanup for variables the dotenv file will set.
	t.Setenv("SMTP_EMAIL", "")
	t.Setenv("SMTP_PASSWORD", "")
	require.NoError(t, os.Unsetenv("SMTP_EMAIL"))
	require.NoError(t, os.Unsetenv("SMTP_PASSWORD"))
	t.Setenv("SMTP_HOST", "from-env.example.com")

	path := filepath.Join(t.TempDir(), ".env")
	content := "SMTP_EMAIL=dotenv@example.com\nSMTP_PASSWORD=dotenv-secret\nSMTP_HOST=from-file.example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadWithDotenv(path)
	require.NoError(t, err)
	assert.Equal(t, "dotenv@example.com", cfg.SMTPEmail)
	assert.Equal(t, "dotenv-secret", cfg.SMTPPassword)
	// Existing environment wins over the file.
	assert.Equal(t, "from-env.example.com", cfg.SMTPHost)
}

func TestLoad_MissingDotenvIsIgnored(t *testing.T) {
	setRequiredEnv(t)

	_, err := LoadWithDotenv(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestAppConfig_AllowedOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"wildcard", "*", []string{"*"}},
		{"list", "https://a.example, https://b.example", []string{"https://a.example", "https://b.example"}},
		{"empty falls back to wildcard", " , ", []string{"*"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{CORSAllowedOrigins: tt.raw}
			assert.Equal(t, tt.want, c.AllowedOrigins())
		})
	}
}
