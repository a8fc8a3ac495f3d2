package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/dishboard/console/domain"
	"github.com/dishboard/console/internal/session"
	"github.com/dishboard/console/internal/upstream"
	"github.com/dishboard/console/repository"
)

const loginFailedFallback = "Login failed. Please try again."

// UseCase composes the upstream client and the session container into the
// operator-facing login, logout and auth-check flows.
type UseCase struct {
	api       AuthAPI
	sessions  *session.Container
	store     repository.SessionStore
	notifier  Notifier
	navigator Navigator
	logger    *zap.Logger

	// loginGen orders overlapping logins: only the newest call may commit
	// its credentials. commitMu makes the generation check and the commit
	// one step, so a stale result cannot land after a newer one.
	loginGen atomic.Uint64
	commitMu sync.Mutex
}

func New(api AuthAPI, sessions *session.Container, store repository.SessionStore, notifier Notifier, navigator Navigator, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	if navigator == nil {
		navigator = NopNavigator{}
	}
	return &UseCase{
		api:       api,
		sessions:  sessions,
		store:     store,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
	}
}

// Login runs the full sign-in flow. On success the session is committed and
// the operator lands on the dashboard; on failure the server's message is
// surfaced and the error returned. The loading flag drops on every exit
// path, panics included.
func (uc *UseCase) Login(ctx context.Context, creds upstream.Credentials) (*domain.User, error) {
	gen := uc.loginGen.Add(1)

	uc.sessions.SetLoading(true)
	defer uc.sessions.SetLoading(false)

	result, err := uc.api.Login(ctx, creds)
	if err != nil {
		uc.notifier.Failure("Login Failed", failureMessage(err))
		return nil, err
	}

	uc.commitMu.Lock()
	if uc.loginGen.Load() != gen {
		uc.commitMu.Unlock()
		// A newer login started while this one was in flight; its result
		// owns the session.
		uc.logger.Warn("discarding superseded login result", zap.String("email", creds.Email))
		return nil, domain.WrapError(domain.ErrCodeConflict, "login superseded by a newer attempt", nil)
	}
	uc.sessions.SetCredentials(ctx, result.User, result.Token)
	uc.commitMu.Unlock()
	uc.notifier.Success("Login Successful", "Welcome back, "+result.User.Name+"!")
	uc.navigator.ToDashboard()
	return uc.sessions.User(), nil
}

// Logout revokes the session upstream on a best-effort basis and always
// clears the local session.
func (uc *UseCase) Logout(ctx context.Context) {
	uc.sessions.SetLoading(true)
	defer uc.sessions.SetLoading(false)

	if err := uc.api.Logout(ctx); err != nil {
		// Upstream failures never trap the operator in a session.
		uc.logger.Warn("upstream logout failed", zap.Error(err))
	}

	uc.sessions.Logout(ctx)
	uc.notifier.Success("Logged Out", "You have been successfully logged out.")
	uc.navigator.ToLogin()
}

// CheckAuth validates the persisted session without a network round trip.
// Both halves of the pair must be present; a token that parses as a JWT is
// additionally checked for local expiry. Opaque tokens are trusted until a
// protected call rejects them. Any failure forces a local logout.
func (uc *UseCase) CheckAuth(ctx context.Context) bool {
	if uc.store == nil {
		return uc.sessions.IsAuthenticated()
	}

	persisted, err := uc.store.Load(ctx)
	if err != nil {
		uc.logger.Warn("session check failed", zap.Error(err))
		uc.sessions.Logout(ctx)
		return false
	}
	if !persisted.Valid() {
		uc.sessions.Logout(ctx)
		return false
	}
	if tokenExpired(persisted.Token) {
		uc.logger.Info("persisted token expired", zap.String("user_id", persisted.User.ID))
		uc.sessions.Logout(ctx)
		return false
	}
	return true
}

// tokenExpired inspects the exp claim of a JWT-shaped token. The signature
// is not verified; the console holds no verification key and the upstream
// remains the authority.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if err := claims.Valid(); err != nil {
		return errors.Is(err, jwt.ErrTokenExpired)
	}
	return false
}

func failureMessage(err error) string {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return loginFailedFallback
}
