// Package audit records security-relevant session and collaboration events.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"business-nexus/backend/internal/audit/domain"
	auditrepo "business-nexus/backend/internal/audit/repository"
)

// Extractor reads a request attribute (client IP, client id) from the context.
type Extractor func(context.Context) string

// AuditLogger writes a single audit event. LogEvent is best-effort: failures are logged and
// do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, resource, metadata string)
}

// Logger implements AuditLogger using the audit repository.
type Logger struct {
	repo     auditrepo.Repository
	log      *zap.Logger
	ipOf     Extractor
	clientOf Extractor
	now      func() time.Time
}

// NewLogger returns an AuditLogger that persists to repo. ipOf and clientOf may be nil;
// the IP is then recorded as "unknown" and the client id left empty.
func NewLogger(repo auditrepo.Repository, log *zap.Logger, ipOf, clientOf Extractor) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{
		repo:     repo,
		log:      log.Named("audit"),
		ipOf:     ipOf,
		clientOf: clientOf,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// LogEvent writes one audit log entry. Errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	if l == nil || l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipOf != nil {
		if v := l.ipOf(ctx); v != "" {
			ip = v
		}
	}
	var clientID string
	if l.clientOf != nil {
		clientID = l.clientOf(ctx)
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: l.now(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.log.Warn("failed to record audit event",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err))
	}
}
