package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/dishboard/console/internal/upstream"
)

// AuthAPI is the slice of the upstream client the orchestrator needs.
type AuthAPI interface {
	Login(ctx context.Context, creds upstream.Credentials) (upstream.LoginResult, error)
	Logout(ctx context.Context) error
}

// Notifier surfaces flow outcomes to the operator. Implementations stay
// out of this package so the flows remain UI-agnostic.
type Notifier interface {
	Success(title, message string)
	Failure(title, message string)
}

// Navigator moves the operator between the console's views.
type Navigator interface {
	ToDashboard()
	ToLogin()
}

// LogNotifier writes notifications to the application log. It is the
// default when no UI-facing notifier is wired.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Success(title, message string) {
	n.logger().Info("notification", zap.String("title", title), zap.String("message", message))
}

func (n LogNotifier) Failure(title, message string) {
	n.logger().Warn("notification", zap.String("title", title), zap.String("message", message))
}

func (n LogNotifier) logger() *zap.Logger {
	if n.Logger == nil {
		return zap.NewNop()
	}
	return n.Logger
}

// NopNavigator discards navigation requests, for flows driven by callers
// that handle redirects themselves.
type NopNavigator struct{}

func (NopNavigator) ToDashboard() {}
func (NopNavigator) ToLogin()     {}
