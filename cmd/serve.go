package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/shaharia-lab/notifyd/internal/api"
	"github.com/shaharia-lab/notifyd/internal/build"
	"github.com/shaharia-lab/notifyd/internal/config"
	"github.com/shaharia-lab/notifyd/internal/logger"
	"github.com/shaharia-lab/notifyd/internal/notification"
	"github.com/shaharia-lab/notifyd/internal/server"
	"github.com/shaharia-lab/notifyd/internal/telemetry"
)

var (
	bannerTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	bannerRoute = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  "Start the HTTP server that accepts POST /send-email requests and relays them through SMTP.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 0, "HTTP server port (overrides PORT env var)")
	cmd.Flags().String("templates-dir", "", "Directory containing the email templates (overrides TEMPLATES_DIR env var)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyServeFlags(cmd, cfg)

	log, closer, err := logger.New(cfg.LogFile, cfg.SlogLevel())
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	providers, err := telemetry.Init(ctx, telemetry.Options{
		ServiceName:    build.ServiceName,
		ServiceVersion: build.Version,
		Exporter:       cfg.TracesExporter,
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       cfg.OTLPInsecure,
		Logger:         log,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Warn("telemetry shutdown", slog.String("error", err.Error()))
		}
	}()

	metrics, err := telemetry.NewDispatchMetrics(providers.MeterProvider.Meter(build.ServiceName))
	if err != nil {
		return fmt.Errorf("creating dispatch metrics: %w", err)
	}

	provider := notification.NewSMTPProvider(smtpConfig(cfg))
	dispatchSvc, err := newDispatcher(cfg, provider, metrics, log)
	if err != nil {
		return err
	}

	srv := server.New(api.New(dispatchSvc, log), server.Options{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins(),
		MetricsHandler: providers.MetricsHandler(),
	}, log)

	printBanner(cmd.ErrOrStderr(), cfg)
	log.Info("server starting",
		slog.Int("port", cfg.Port),
		slog.String("smtp_host", cfg.SMTPHost),
		slog.Int("smtp_port", cfg.SMTPPort),
		slog.String("smtp_encryption", cfg.SMTPEncryption),
		slog.String("templates_dir", cfg.TemplatesDir),
	)
	return srv.Run(ctx)
}

// applyServeFlags lets explicitly set flags win over the environment.
func applyServeFlags(cmd *cobra.Command, cfg *config.AppConfig) {
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("templates-dir") {
		cfg.TemplatesDir, _ = cmd.Flags().GetString("templates-dir")
	}
}

func printBanner(w io.Writer, cfg *config.AppConfig) {
	fmt.Fprintln(w, bannerTitle.Render(fmt.Sprintf("%s running on http://localhost:%d", build.String(), cfg.Port)))
	fmt.Fprintln(w, bannerRoute.Render("  POST /send-email  → render and send a notification"))
	fmt.Fprintln(w, bannerRoute.Render("  GET  /health      → health check"))
	fmt.Fprintln(w, bannerRoute.Render("  GET  /metrics     → prometheus metrics"))
}
