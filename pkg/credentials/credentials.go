// Package credentials stores login tokens in the OS credential facility.
//
// One token is kept per (API endpoint, account) pair, serialized as JSON
// with an absolute expiry. Expired tokens are treated as absent by every
// caller: Get returns a dedicated error instead of a stale token, so a
// token revoked or expired between commands never reaches the wire.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultAccount is the account label used when none is chosen.
const DefaultAccount = "default"

// entry is the persisted shape of a credential.
type entry struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NotFoundError indicates no credential exists for the account.
type NotFoundError struct {
	Account string
}

func (e *NotFoundError) Error() string {
	if e.Account == "" || e.Account == DefaultAccount {
		return "No account found. Log in with `skiff login USERNAME`."
	}
	return fmt.Sprintf("No account found. Log in with `skiff login USERNAME --account %s`.", e.Account)
}

// ExpiredError indicates the stored credential is past its expiry.
type ExpiredError struct{}

func (e *ExpiredError) Error() string {
	return "Login token is expired. Log in again with `skiff login`."
}

// IsNotFound reports whether err is a missing-credential error.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsExpired reports whether err is an expired-credential error.
func IsExpired(err error) bool {
	var ex *ExpiredError
	return errors.As(err, &ex)
}

// Store reads and writes the credential for one (service, account) pair.
// The service key is the API base URL, so logins against different
// endpoints never collide.
type Store struct {
	service string
	account string
	backend Backend
	now     func() time.Time
}

// Open returns a store for the given API endpoint and account, backed by
// the process-wide backend.
func Open(service, account string) *Store {
	if account == "" {
		account = DefaultAccount
	}
	return &Store{
		service: service,
		account: account,
		backend: activeBackend(),
		now:     time.Now,
	}
}

// Account returns the account label this store is keyed by.
func (s *Store) Account() string {
	return s.account
}

// Set persists a token that expires ttl from now, overwriting any
// previous credential for the same (service, account).
func (s *Store) Set(token string, ttl time.Duration) error {
	data, err := json.Marshal(entry{
		AccessToken: token,
		ExpiresAt:   s.now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := s.backend.Set(s.service, s.account, string(data)); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

// Get returns the stored token. An absent credential yields *NotFoundError,
// an expired one *ExpiredError. Reading never extends the expiry.
func (s *Store) Get() (string, error) {
	secret, err := s.backend.Get(s.service, s.account)
	if errors.Is(err, ErrNotFound) {
		return "", &NotFoundError{Account: s.account}
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}

	var e entry
	if err := json.Unmarshal([]byte(secret), &e); err != nil {
		return "", fmt.Errorf("stored credential for account %q is corrupt: %w", s.account, err)
	}

	if !s.now().Before(e.ExpiresAt) {
		return "", &ExpiredError{}
	}

	return e.AccessToken, nil
}

// Delete removes the credential. A missing credential is surfaced as
// *NotFoundError rather than swallowed.
func (s *Store) Delete() error {
	err := s.backend.Delete(s.service, s.account)
	if errors.Is(err, ErrNotFound) {
		return &NotFoundError{Account: s.account}
	}
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
