// Package notify delivers fire-and-forget user-facing success and error messages.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Level is the kind of notification shown to the user.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one user-facing message.
type Notification struct {
	Level    Level
	Message  string
	ClientID string
	UserID   string
}

// Notifier delivers notifications. Implementations must not block the caller on delivery failures.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Multi fans a notification out to every notifier.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, x := range m {
		if x != nil {
			x.Notify(ctx, n)
		}
	}
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) {}

// ZapNotifier writes notifications to a zap logger.
type ZapNotifier struct {
	log *zap.Logger
}

// NewZapNotifier returns a notifier that logs at info (success) or warn (error) level.
func NewZapNotifier(log *zap.Logger) *ZapNotifier {
	return &ZapNotifier{log: log.Named("notify")}
}

func (z *ZapNotifier) Notify(ctx context.Context, n Notification) {
	fields := []zap.Field{zap.String("client_id", n.ClientID)}
	if n.UserID != "" {
		fields = append(fields, zap.String("user_id", n.UserID))
	}
	if n.Level == LevelError {
		z.log.Warn(n.Message, fields...)
		return
	}
	z.log.Info(n.Message, fields...)
}

// Recorder keeps every notification in memory. Safe for concurrent use.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(ctx context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Last returns the most recent notification and false if none were recorded.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}
