package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shaharia-lab/notifyd/internal/config"
	"github.com/shaharia-lab/notifyd/internal/logger"
	"github.com/shaharia-lab/notifyd/internal/notification"
	"github.com/shaharia-lab/notifyd/internal/service"
)

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one notification from a request file",
		Long: `Send one notification described by a JSON or YAML request file.

With --dry-run the rendered MIME message is written to stdout instead of
being relayed through SMTP, and SMTP credentials are not required.`,
		Args: cobra.NoArgs,
		RunE: runSend,
	}
	cmd.Flags().StringP("file", "f", "", "Path to the request file (.json, .yaml or .yml)")
	cmd.Flags().Bool("dry-run", false, "Print the message instead of sending it")
	cmd.Flags().String("templates-dir", "", "Directory containing the email templates (overrides TEMPLATES_DIR env var)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runSend(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	req, err := readRequestFile(path)
	if err != nil {
		return err
	}

	load := config.Load
	if dryRun {
		load = config.LoadForDryRun
	}
	cfg, err := load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("templates-dir") {
		cfg.TemplatesDir, _ = cmd.Flags().GetString("templates-dir")
	}

	log, closer, err := logger.New(cfg.LogFile, cfg.SlogLevel())
	if err != nil {
		return err
	}
	defer closer.Close()

	var provider notification.Provider = notification.NewSMTPProvider(smtpConfig(cfg))
	if dryRun {
		provider = notification.NewWriterProvider(cmd.OutOrStdout())
	}

	dispatchSvc, err := newDispatcher(cfg, provider, nil, log)
	if err != nil {
		return err
	}

	res, err := dispatchSvc.Dispatch(cmd.Context(), req)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return err
}

// readRequestFile decodes a NotificationRequest, choosing YAML or JSON by extension.
func readRequestFile(path string) (*service.NotificationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	return decodeRequest(data, filepath.Ext(path))
}

func decodeRequest(data []byte, ext string) (*service.NotificationRequest, error) {
	var req service.NotificationRequest
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("parsing YAML request: %w", err)
		}
	case ".json", "":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("parsing JSON request: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported request file extension %q", ext)
	}
	return &req, nil
}
