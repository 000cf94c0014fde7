// Package mail delivers second-factor codes and password-reset tokens to a user's
// email address.
package mail

import (
	"context"

	"go.uber.org/zap"
)

// Sender delivers secrets to an email address. Implementations never log the secret.
type Sender interface {
	SendOTP(ctx context.Context, email, otp string) error
	SendResetToken(ctx context.Context, email, token string) error
}

// LogSender records that a delivery was requested, without the secret. It stands in when
// no mail provider is configured outside production.
type LogSender struct {
	Log *zap.Logger
}

// NewLogSender returns a LogSender writing to log.
func NewLogSender(log *zap.Logger) LogSender {
	if log == nil {
		log = zap.NewNop()
	}
	return LogSender{Log: log.Named("mail")}
}

// SendOTP logs the recipient only.
func (s LogSender) SendOTP(ctx context.Context, email, otp string) error {
	s.Log.Info("verification code not mailed: no provider configured", zap.String("email", email))
	return nil
}

// SendResetToken logs the recipient only.
func (s LogSender) SendResetToken(ctx context.Context, email, token string) error {
	s.Log.Info("reset token not mailed: no provider configured", zap.String("email", email))
	return nil
}
