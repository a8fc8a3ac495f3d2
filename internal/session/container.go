package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dishboard/console/domain"
	"github.com/dishboard/console/repository"
)

// State is an immutable snapshot of the session fields.
type State struct {
	User            *domain.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

// Container is the in-memory source of truth for the current session.
// It is hydrated once from the store at construction and keeps the store
// in sync on every credential change. Authenticated is never tracked
// independently: it always equals token presence.
type Container struct {
	store  repository.SessionStore
	logger *zap.Logger

	mu      sync.RWMutex
	user    *domain.User
	token   string
	loading bool

	watchMu  sync.Mutex
	watchers map[int]func(State)
	nextID   int
}

// NewContainer builds a container hydrated from the store. A store load
// failure is logged and treated as an anonymous start, not a fatal error.
func NewContainer(ctx context.Context, store repository.SessionStore, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{
		store:    store,
		logger:   logger,
		watchers: make(map[int]func(State)),
	}

	if store != nil {
		session, err := store.Load(ctx)
		if err != nil {
			logger.Warn("session hydration failed", zap.Error(err))
		} else if session.Valid() {
			c.user = session.User
			c.token = session.Token
			logger.Info("session restored", zap.String("user_id", session.User.ID))
		}
	}
	return c
}

// SetCredentials replaces the session wholesale and persists it.
func (c *Container) SetCredentials(ctx context.Context, user domain.User, token string) {
	if token == "" {
		c.logger.Warn("ignoring credentials without token")
		return
	}

	c.mu.Lock()
	u := user
	c.user = &u
	c.token = token
	c.loading = false
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(ctx, &domain.Session{User: &u, Token: token}); err != nil {
			c.logger.Error("session persist failed", zap.Error(err))
		}
	}
	c.notify()
}

// SetLoading toggles the in-flight flag without touching credentials.
func (c *Container) SetLoading(loading bool) {
	c.mu.Lock()
	changed := c.loading != loading
	c.loading = loading
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// UpdateUser merges a partial profile into the current user and re-persists
// it. Without a logged-in user this is a no-op.
func (c *Container) UpdateUser(ctx context.Context, patch domain.UserPatch) {
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return
	}
	merged := c.user.Merge(patch)
	c.user = &merged
	token := c.token
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(ctx, &domain.Session{User: &merged, Token: token}); err != nil {
			c.logger.Error("session persist failed", zap.Error(err))
		}
	}
	c.notify()
}

// Logout clears every field and the persisted session. Safe to call on an
// already-anonymous container.
func (c *Container) Logout(ctx context.Context) {
	c.mu.Lock()
	c.user = nil
	c.token = ""
	c.loading = false
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Error("session clear failed", zap.Error(err))
		}
	}
	c.notify()
}

// User returns a copy of the current profile, or nil when anonymous.
func (c *Container) User() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Token returns the current bearer credential, empty when anonymous.
func (c *Container) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// IsAuthenticated reports token presence.
func (c *Container) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// IsLoading reports whether a login or logout call is in flight.
func (c *Container) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Snapshot returns all session fields as one consistent read.
func (c *Container) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to run after every state change and returns an
// unsubscribe function. Callbacks run synchronously on the mutating
// goroutine and must not call back into the container.
func (c *Container) Subscribe(fn func(State)) func() {
	c.watchMu.Lock()
	id := c.nextID
	c.nextID++
	c.watchers[id] = fn
	c.watchMu.Unlock()

	return func() {
		c.watchMu.Lock()
		delete(c.watchers, id)
		c.watchMu.Unlock()
	}
}

func (c *Container) notify() {
	state := c.Snapshot()

	c.watchMu.Lock()
	fns := make([]func(State), 0, len(c.watchers))
	for _, fn := range c.watchers {
		fns = append(fns, fn)
	}
	c.watchMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func (c *Container) snapshotLocked() State {
	state := State{
		Token:           c.token,
		IsAuthenticated: c.token != "",
		IsLoading:       c.loading,
	}
	if c.user != nil {
		u := *c.user
		state.User = &u
	}
	return state
}
