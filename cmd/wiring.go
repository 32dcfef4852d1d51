package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shaharia-lab/notifyd/internal/config"
	"github.com/shaharia-lab/notifyd/internal/notification"
	"github.com/shaharia-lab/notifyd/internal/service"
	"github.com/shaharia-lab/notifyd/internal/telemetry"
)

func smtpConfig(cfg *config.AppConfig) notification.SMTPConfig {
	return notification.SMTPConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Username:   cfg.SMTPEmail,
		Password:   cfg.SMTPPassword,
		Encryption: cfg.SMTPEncryption,
		Timeout:    cfg.SMTPTimeout,
	}
}

// newDispatcher loads every required template from cfg.TemplatesDir and
// builds the dispatch service around provider. A missing template fails here
// rather than on the first request.
func newDispatcher(
	cfg *config.AppConfig,
	provider notification.Provider,
	metrics *telemetry.DispatchMetrics,
	log *slog.Logger,
) (service.DispatchService, error) {
	templates, err := notification.LoadTemplates(os.DirFS(cfg.TemplatesDir), notification.RequiredTemplates...)
	if err != nil {
		return nil, fmt.Errorf("loading templates from %s: %w", cfg.TemplatesDir, err)
	}
	log.Debug("templates loaded", slog.Any("templates", templates.Names()))

	return service.NewDispatchService(service.DispatcherConfig{
		FromName:    cfg.FromName,
		FromAddress: cfg.SMTPEmail,
		PlatformURL: cfg.PlatformURL,
	}, templates, provider, metrics, log), nil
}
