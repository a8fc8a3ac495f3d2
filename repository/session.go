package repository

import (
	"context"

	"github.com/dishboard/console/domain"
)

// SessionStore persists the token/user pair across console restarts.
//
// Load returns (nil, nil) when no session is stored. Implementations must
// never hand back half a session: if only one of the two keys is present,
// or the stored user does not decode, both keys are removed and the session
// is reported as absent.
type SessionStore interface {
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Clear(ctx context.Context) error
}
