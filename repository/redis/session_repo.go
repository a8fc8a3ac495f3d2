package redis

import (
	"context"
	"encoding/json"
	"errors"

	redislib "github.com/redis/go-redis/v9"

	"github.com/dishboard/console/domain"
	"github.com/dishboard/console/repository"
)

type sessionStore struct {
	client *redislib.Client
	prefix string
}

// NewSessionStore creates a Redis-backed session store, used when several
// console replicas need to share one operator session.
func NewSessionStore(client *redislib.Client, prefix string) repository.SessionStore {
	if prefix == "" {
		prefix = "console:"
	}
	return &sessionStore{
		client: client,
		prefix: prefix,
	}
}

func (s *sessionStore) Load(ctx context.Context) (*domain.Session, error) {
	token, tokenErr := s.client.Get(ctx, s.tokenKey()).Result()
	rawUser, userErr := s.client.Get(ctx, s.userKey()).Result()

	missing := errors.Is(tokenErr, redislib.Nil) || errors.Is(userErr, redislib.Nil)
	if tokenErr != nil && !errors.Is(tokenErr, redislib.Nil) {
		return nil, tokenErr
	}
	if userErr != nil && !errors.Is(userErr, redislib.Nil) {
		return nil, userErr
	}
	if missing {
		// One half without the other is a broken session; drop both.
		return nil, s.Clear(ctx)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, s.Clear(ctx)
	}

	return &domain.Session{User: &user, Token: token}, nil
}

func (s *sessionStore) Save(ctx context.Context, session *domain.Session) error {
	if !session.Valid() {
		return domain.ErrInvalidPayload
	}

	rawUser, err := json.Marshal(session.User)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(), session.Token, 0)
	pipe.Set(ctx, s.userKey(), rawUser, 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *sessionStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.tokenKey(), s.userKey()).Err()
}

func (s *sessionStore) tokenKey() string {
	return s.prefix + "token"
}

func (s *sessionStore) userKey() string {
	return s.prefix + "user"
}
