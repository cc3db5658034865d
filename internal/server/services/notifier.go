package services

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/logging"
)

// ResetNotifier delivers password-reset tokens out of band (mail, chat...).
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, email, token string) error
}

// LogNotifier writes reset tokens to the server log at debug level. It is
// the only notifier shipped; deployments that email users plug in their own.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "reset_notifier")}
}

func (n *LogNotifier) NotifyPasswordReset(ctx context.Context, email, token string) error {
	n.logger.Debug(ctx, "password reset requested", "email", email, "token", token)
	return nil
}
