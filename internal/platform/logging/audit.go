package logging

import (
	"context"

	"go.uber.org/zap"
)

// Audit results.
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// AuditEvent describes a state-changing action for the audit trail.
type AuditEvent struct {
	Action       string
	UserID       string
	ResourceType string
	ResourceID   string
	Result       string
	Details      map[string]any
}

// Audit logs ev at info level with the request-scoped logger.
func Audit(ctx context.Context, ev AuditEvent) {
	fields := []zap.Field{
		zap.String("audit.action", ev.Action),
		zap.String("audit.user_id", ev.UserID),
		zap.String("audit.resource_type", ev.ResourceType),
		zap.String("audit.resource_id", ev.ResourceID),
		zap.String("audit.result", ev.Result),
	}
	if len(ev.Details) > 0 {
		fields = append(fields, zap.Any("audit.details", ev.Details))
	}
	LoggerFromContext(ctx).Info("audit event", fields...)
}
