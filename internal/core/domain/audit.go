package domain

import "time"

// AuditEventType names what happened in a security-relevant event.
type AuditEventType string

const (
	AuditLoginSucceeded AuditEventType = "login_succeeded"
	AuditLoginFailed    AuditEventType = "login_failed"
	AuditLoginThrottled AuditEventType = "login_throttled"
	AuditAccessDenied   AuditEventType = "access_denied"
)

// AuditEvent is one entry of the security audit trail.
type AuditEvent struct {
	Type       AuditEventType `json:"type"`
	Subject    string         `json:"subject"`
	Target     string         `json:"target,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
