package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"business-nexus/backend/internal/notify"
)

const notifierScope = "nexus.notify"

// recordEmitter is the subset of otellog.Logger the notifier uses.
type recordEmitter interface {
	Emit(ctx context.Context, record otellog.Record)
}

// NewNotifier returns a Notifier that emits each notification as an OTel log record.
// If provider is nil, returns a no-op notifier.
func NewNotifier(provider *sdklog.LoggerProvider) notify.Notifier {
	if provider == nil {
		return notify.Nop{}
	}
	return &logNotifier{logger: provider.Logger(notifierScope)}
}

// NewNotifierWithEmitter returns a Notifier writing to e. Used by tests to capture records.
func NewNotifierWithEmitter(e recordEmitter) notify.Notifier {
	return &logNotifier{logger: e}
}

type logNotifier struct {
	logger recordEmitter
	now    func() time.Time
}

// Notify converts n to a log record: the message is the body, level maps to severity.
func (l *logNotifier) Notify(ctx context.Context, n notify.Notification) {
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	rec := otellog.Record{}
	rec.SetTimestamp(now().UTC())
	rec.SetBody(otellog.StringValue(n.Message))
	if n.Level == notify.LevelError {
		rec.SetSeverity(otellog.SeverityWarn)
	} else {
		rec.SetSeverity(otellog.SeverityInfo)
	}
	rec.SetSeverityText(string(n.Level))
	if n.ClientID != "" {
		rec.AddAttributes(otellog.String("client_id", n.ClientID))
	}
	if n.UserID != "" {
		rec.AddAttributes(otellog.String("user_id", n.UserID))
	}
	l.logger.Emit(ctx, rec)
}
