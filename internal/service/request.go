package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EventKind selects the template, recipient and plain-text body of a notification.
type EventKind string

// Known event kinds.
const (
	EventRejectUser       EventKind = "reject_user"
	EventConfirmUser      EventKind = "confirm_user"
	EventConfirmTherapist EventKind = "confirm_therapist"
)

// ParseEventKind lower-cases s and matches it exactly against the known kinds.
// Surrounding whitespace is not stripped.
func ParseEventKind(s string) (EventKind, error) {
	k := EventKind(strings.ToLower(s))
	if _, ok := routes[k]; !ok {
		return "", &InvalidEventKindError{Kind: s}
	}
	return k, nil
}

// ConfirmationMessage returns the human-readable success string for k,
// e.g. "Confirm user email sent.".
func (k EventKind) ConfirmationMessage() string {
	words := strings.ReplaceAll(string(k), "_", " ")
	if words == "" {
		return "Email sent."
	}
	return strings.ToUpper(words[:1]) + words[1:] + " email sent."
}

// NotificationRequest describes one notification event. It lives for the
// duration of a single dispatch.
//
// Every field except ReasonRejection must be present in the decoded document;
// an empty string counts as present. Requests built in code are complete.
type NotificationRequest struct {
	Theme           string `json:"theme" yaml:"theme"`
	UserEmail       string `json:"user_email" yaml:"user_email"`
	TherapistEmail  string `json:"therapist_email" yaml:"therapist_email"`
	Subject         string `json:"subject" yaml:"subject"`
	TherapistName   string `json:"therapist_name" yaml:"therapist_name"`
	UserName        string `json:"user_name" yaml:"user_name"`
	UserCondition   string `json:"user_condition" yaml:"user_condition"`
	SessionType     string `json:"session_type" yaml:"session_type"`
	Date            string `json:"date" yaml:"date"`
	Time            string `json:"time" yaml:"time"`
	Duration        string `json:"duration" yaml:"duration"`
	ReasonRejection string `json:"reason_rejection,omitempty" yaml:"reason_rejection,omitempty"`

	// missing lists required keys that were absent or null when decoding.
	missing []string
}

// requestKeys mirrors the required keys as pointers so an absent or null key
// can be told apart from an empty string.
type requestKeys struct {
	Theme          *string `json:"theme" yaml:"theme" validate:"required"`
	UserEmail      *string `json:"user_email" yaml:"user_email" validate:"required"`
	TherapistEmail *string `json:"therapist_email" yaml:"therapist_email" validate:"required"`
	Subject        *string `json:"subject" yaml:"subject" validate:"required"`
	TherapistName  *string `json:"therapist_name" yaml:"therapist_name" validate:"required"`
	UserName       *string `json:"user_name" yaml:"user_name" validate:"required"`
	UserCondition  *string `json:"user_condition" yaml:"user_condition" validate:"required"`
	SessionType    *string `json:"session_type" yaml:"session_type" validate:"required"`
	Date           *string `json:"date" yaml:"date" validate:"required"`
	Time           *string `json:"time" yaml:"time" validate:"required"`
	Duration       *string `json:"duration" yaml:"duration" validate:"required"`
}

// UnmarshalJSON records missing keys and accepts "rejection_reason" as an
// alias of "reason_rejection".
func (r *NotificationRequest) UnmarshalJSON(b []byte) error {
	type plain NotificationRequest
	aux := struct {
		*plain
		RejectionReason *string `json:"rejection_reason"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	var keys requestKeys
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	r.applyDecoded(aux.RejectionReason, &keys)
	return nil
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON.
func (r *NotificationRequest) UnmarshalYAML(value *yaml.Node) error {
	type plain NotificationRequest
	var aux struct {
		plain           `yaml:",inline"`
		RejectionReason *string `yaml:"rejection_reason"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}

	var keys requestKeys
	if err := value.Decode(&keys); err != nil {
		return err
	}
	*r = NotificationRequest(aux.plain)
	r.applyDecoded(aux.RejectionReason, &keys)
	return nil
}

func (r *NotificationRequest) applyDecoded(rejectionReason *string, keys *requestKeys) {
	if r.ReasonRejection == "" && rejectionReason != nil {
		r.ReasonRejection = *rejectionReason
	}
	r.missing = missingKeys(keys)
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so errors match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// missingKeys returns the JSON names of required keys that are nil, in
// declaration order. "required" on a non-nil pointer accepts an empty string.
func missingKeys(keys *requestKeys) []string {
	err := requestValidator.Struct(keys)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

// Validate reports required keys that were absent or null in the decoded document.
func (r *NotificationRequest) Validate() error {
	switch len(r.missing) {
	case 0:
		return nil
	case 1:
		return &ValidationError{Field: r.missing[0], Message: "field is required"}
	default:
		return &ValidationError{Message: fmt.Sprintf("missing required fields: %s", strings.Join(r.missing, ", "))}
	}
}
