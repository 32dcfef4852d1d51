package service

import "github.com/shaharia-lab/notifyd/internal/notification"

// route is the fixed per-kind dispatch decision.
type route struct {
	template  string
	textBody  string
	recipient func(r *NotificationRequest) string
	vars      func(r *NotificationRequest, link string) map[string]any
}

// routes is read-only after package init.
var routes = map[EventKind]route{
	EventRejectUser: {
		template:  notification.TemplateRejectUser,
		textBody:  "Your session has been rejected.",
		recipient: func(r *NotificationRequest) string { return r.UserEmail },
		vars: func(r *NotificationRequest, _ string) map[string]any {
			return map[string]any{
				"Subject":         r.Subject,
				"TherapistName":   r.TherapistName,
				"TherapistEmail":  r.TherapistEmail,
				"SessionType":     r.SessionType,
				"Date":            r.Date,
				"Time":            r.Time,
				"Duration":        r.Duration,
				"ReasonRejection": r.ReasonRejection,
			}
		},
	},
	EventConfirmUser: {
		template:  notification.TemplateConfirmUser,
		textBody:  "Your session is confirmed.",
		recipient: func(r *NotificationRequest) string { return r.UserEmail },
		vars: func(r *NotificationRequest, link string) map[string]any {
			return map[string]any{
				"Subject":        r.Subject,
				"Date":           r.Date,
				"Time":           r.Time,
				"Duration":       r.Duration,
				"Link":           link,
				"TherapistName":  r.TherapistName,
				"TherapistEmail": r.TherapistEmail,
				"SessionType":    r.SessionType,
			}
		},
	},
	EventConfirmTherapist: {
		template:  notification.TemplateConfirmTherapist,
		textBody:  "Session with a user is confirmed.",
		recipient: func(r *NotificationRequest) string { return r.TherapistEmail },
		vars: func(r *NotificationRequest, link string) map[string]any {
			return map[string]any{
				"Subject":       r.Subject,
				"Date":          r.Date,
				"Time":          r.Time,
				"Duration":      r.Duration,
				"TherapistName": r.TherapistName,
				"SessionType":   r.SessionType,
				"Link":          link,
				"UserName":      r.UserName,
				"UserEmail":     r.UserEmail,
				"UserCondition": r.UserCondition,
			}
		},
	},
}
