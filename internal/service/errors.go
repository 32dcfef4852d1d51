package service

import "fmt"

// ValidationError is returned when request data fails validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// InvalidEventKindError is returned when the theme names no known event kind.
// It is raised before any template lookup or network I/O.
type InvalidEventKindError struct {
	Kind string
}

func (e *InvalidEventKindError) Error() string {
	return fmt.Sprintf("invalid theme value %q", e.Kind)
}

// TemplateRenderError wraps a missing template or a variable binding failure.
type TemplateRenderError struct {
	Template string
	Err      error
}

func (e *TemplateRenderError) Error() string {
	return e.Err.Error()
}

func (e *TemplateRenderError) Unwrap() error { return e.Err }

// TransportError wraps a connection, authentication or submission failure
// against the mail relay.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }
