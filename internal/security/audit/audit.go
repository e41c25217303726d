package audit

import (
	"context"
	"log/slog"
	"time"
)

type requestIDKey struct{}

// WithRequestID stores the request id used to correlate audit entries.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type Logger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With(slog.String("component", "audit")), now: time.Now}
}

func (al *Logger) LogAction(ctx context.Context, tenantID, actorID, action, resource, resourceID, status, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("tenant_id", tenantID),
		slog.String("actor_id", actorID),
		slog.String("status", status),
		slog.String("details", details),
		slog.String("request_id", RequestID(ctx)),
		slog.Time("timestamp", al.now().UTC()),
	)
}

// LogLogin records a login attempt. Failed attempts carry no actor id.
func (al *Logger) LogLogin(ctx context.Context, tenantID, actorID, role string, ok bool) {
	status := "success"
	if !ok {
		status = "failed"
	}
	al.LogAction(ctx, tenantID, actorID, "login", role, actorID, status, "")
}

func (al *Logger) LogDenied(ctx context.Context, tenantID, actorID, reason string) {
	al.LogAction(ctx, tenantID, actorID, "access_denied", "api", "", "denied", reason)
}
