package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shaharia-lab/notifyd/internal/build"
	"github.com/shaharia-lab/notifyd/internal/notification"
	"github.com/shaharia-lab/notifyd/internal/telemetry"
)

// Renderer renders a named HTML template. *notification.TemplateSet implements it.
type Renderer interface {
	Render(name string, data map[string]any) (string, error)
}

// DispatchResult is the outcome of a successful dispatch.
type DispatchResult struct {
	Message   string    `json:"message"`
	Kind      EventKind `json:"-"`
	Recipient string    `json:"-"`
}

// DispatchService turns a notification request into one delivered email.
type DispatchService interface {
	// Dispatch validates req, renders its template and submits the message.
	// Errors are *ValidationError, *InvalidEventKindError, *TemplateRenderError
	// or *TransportError.
	Dispatch(ctx context.Context, req *NotificationRequest) (*DispatchResult, error)
}

// DispatcherConfig is the immutable sender configuration shared by all dispatches.
type DispatcherConfig struct {
	FromName    string
	FromAddress string
	PlatformURL string
}

// dispatcherImpl implements DispatchService.
type dispatcherImpl struct {
	cfg       DispatcherConfig
	templates Renderer
	provider  notification.Provider
	metrics   *telemetry.DispatchMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewDispatchService creates a DispatchService. metrics may be nil.
func NewDispatchService(
	cfg DispatcherConfig,
	templates Renderer,
	provider notification.Provider,
	metrics *telemetry.DispatchMetrics,
	logger *slog.Logger,
) DispatchService {
	return &dispatcherImpl{
		cfg:       cfg,
		templates: templates,
		provider:  provider,
		metrics:   metrics,
		tracer:    otel.Tracer(build.ServiceName),
		logger:    logger,
	}
}

func (d *dispatcherImpl) Dispatch(ctx context.Context, req *NotificationRequest) (*DispatchResult, error) {
	start := time.Now()
	dispatchID := uuid.NewString()
	log := d.logger.With("dispatch_id", dispatchID)

	ctx, span := d.tracer.Start(ctx, "notification.dispatch",
		trace.WithAttributes(attribute.String("dispatch.id", dispatchID)))
	defer span.End()

	res, err := d.dispatch(ctx, span, req)
	kind := "unknown"
	if res != nil {
		kind = string(res.Kind)
	} else if req != nil {
		if k, kerr := ParseEventKind(req.Theme); kerr == nil {
			kind = string(k)
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.metrics.RecordFailed(ctx, kind, failureReason(err), time.Since(start))
		log.Warn("notification dispatch failed",
			slog.String("event_kind", kind),
			slog.String("reason", failureReason(err)),
			slog.String("error", err.Error()))
		return nil, err
	}

	d.metrics.RecordSent(ctx, kind, time.Since(start))
	log.Info("notification dispatched",
		slog.String("event_kind", kind),
		slog.String("provider", d.provider.Name()),
		slog.Duration("duration", time.Since(start)))
	return res, nil
}

func (d *dispatcherImpl) dispatch(ctx context.Context, span trace.Span, req *NotificationRequest) (*DispatchResult, error) {
	if req == nil {
		return nil, &ValidationError{Message: "request body is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	kind, err := ParseEventKind(req.Theme)
	if err != nil {
		return nil, err
	}
	rt := routes[kind]
	span.SetAttributes(attribute.String("notification.event_kind", string(kind)))

	html, err := d.templates.Render(rt.template, rt.vars(req, d.cfg.PlatformURL))
	if err != nil {
		return nil, &TemplateRenderError{Template: rt.template, Err: err}
	}

	msg := notification.Message{
		FromName: d.cfg.FromName,
		From:     d.cfg.FromAddress,
		To:       rt.recipient(req),
		Subject:  req.Subject,
		TextBody: rt.textBody,
		HTMLBody: html,
	}

	sendCtx, sendSpan := d.tracer.Start(ctx, "notification.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("notification.provider", d.provider.Name())))
	err = d.provider.Send(sendCtx, msg)
	if err != nil {
		sendSpan.RecordError(err)
		sendSpan.SetStatus(codes.Error, err.Error())
	}
	sendSpan.End()
	if err != nil {
		return nil, &TransportError{Provider: d.provider.Name(), Err: err}
	}

	return &DispatchResult{
		Message:   kind.ConfirmationMessage(),
		Kind:      kind,
		Recipient: msg.To,
	}, nil
}

// failureReason maps an error to a bounded metric label.
func failureReason(err error) string {
	var (
		ve *ValidationError
		ke *InvalidEventKindError
		re *TemplateRenderError
		te *TransportError
	)
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &ke):
		return "invalid_event_kind"
	case errors.As(err, &re):
		return "template"
	case errors.As(err, &te):
		return "transport"
	default:
		return "internal"
	}
}
