package boltdb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/dishboard/console/domain"
	"github.com/dishboard/console/repository"
)

var (
	bucketName = []byte("session")
	keyToken   = []byte("token")
	keyUser    = []byte("user")
)

// Store persists the session pair in a local Bolt file. It is the default
// backend: a single console instance keeping its session across restarts.
type Store struct {
	db *bolt.DB
}

// Open initializes the Bolt file and ensures the session bucket exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Load reads the token/user pair. A missing key or an undecodable user
// clears whatever half is left and reports the session as absent.
func (s *Store) Load(_ context.Context) (*domain.Session, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	var session *domain.Session
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		token := b.Get(keyToken)
		rawUser := b.Get(keyUser)

		if len(token) == 0 || len(rawUser) == 0 {
			return clearBucket(b)
		}

		var user domain.User
		if err := json.Unmarshal(rawUser, &user); err != nil {
			return clearBucket(b)
		}

		session = &domain.Session{
			User:  &user,
			Token: string(token),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Save writes both keys in one transaction.
func (s *Store) Save(_ context.Context, session *domain.Session) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if !session.Valid() {
		return domain.ErrInvalidPayload
	}

	rawUser, err := json.Marshal(session.User)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if err := b.Put(keyToken, []byte(session.Token)); err != nil {
			return err
		}
		return b.Put(keyUser, rawUser)
	})
}

// Clear removes both keys; clearing an empty store is a no-op.
func (s *Store) Clear(_ context.Context) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return clearBucket(tx.Bucket(bucketName))
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func clearBucket(b *bolt.Bucket) error {
	if err := b.Delete(keyToken); err != nil {
		return err
	}
	return b.Delete(keyUser)
}

var _ repository.SessionStore = (*Store)(nil)
