package session

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yashdvishwakarma/tasksaas/logging"
	"github.com/yashdvishwakarma/tasksaas/models"
)

// Persistent store keys. These mirror what the web client kept in browser
// local storage, so a session written by either client shape looks the same.
const (
	KeyToken         = "token"
	KeyRefreshToken  = "refreshToken"
	KeyUser          = "user"
	KeyPermissions   = "permissions"
	KeyThemeMode     = "themeMode"
	KeyRedirectAfter = "redirectAfterLogin"
)

// authKeys are the keys removed on logout. Theme preference survives.
var authKeys = []string{KeyToken, KeyRefreshToken, KeyUser, KeyPermissions}

// Store is the persistent client-side session store, backed by an embedded
// BadgerDB so the session survives process restarts.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the session store at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a non-persistent store. Used by tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value for key, or "" and false when the key is absent.
func (s *Store) Get(key string) (string, bool) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Logger.Warnf("Event ID: SESSION_READ_FAILED, Description: Could not read session key '%s': %v", key, err)
		}
		return "", false
	}
	return string(value), true
}

func (s *Store) Set(key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// SaveLogin records a successful login or registration: the bearer token plus
// the denormalized user blob.
func (s *Store) SaveLogin(token string, user models.User) error {
	blob, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(KeyToken), []byte(token)); err != nil {
			return err
		}
		return txn.Set([]byte(KeyUser), blob)
	})
}

// Token returns the stored bearer token, or "" when logged out. Implements
// the client package's TokenSource.
func (s *Store) Token() string {
	token, _ := s.Get(KeyToken)
	return token
}

// IsAuthenticated reports whether a non-blank token is present.
func (s *Store) IsAuthenticated() bool {
	return strings.TrimSpace(s.Token()) != ""
}

// CurrentUser returns the cached profile blob written at login.
func (s *Store) CurrentUser() (*models.User, bool) {
	raw, ok := s.Get(KeyUser)
	if !ok {
		return nil, false
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logging.Logger.Warnf("Event ID: SESSION_USER_DECODE_FAILED, Description: Cached user blob is not valid JSON: %v", err)
		return nil, false
	}
	return &user, true
}

// TokenExpired inspects the stored JWT's exp claim without verifying the
// signature (the client has no signing key). A missing or unparseable token
// counts as expired.
func (s *Store) TokenExpired(now time.Time) bool {
	tokenStr := s.Token()
	if tokenStr == "" {
		return true
	}
	token, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return true
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(now)
}

// ClearAuth removes every authentication key. UI preferences such as the
// theme mode are deliberately kept.
func (s *Store) ClearAuth() error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range authKeys {
			if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
}
