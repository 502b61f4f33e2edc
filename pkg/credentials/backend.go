package credentials

import (
	"errors"
	"sync"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned by a Backend when no secret exists for the key.
var ErrNotFound = errors.New("credential not found")

// Backend persists one secret per (service, account) pair.
//
// The default backend is the OS credential facility (keychain on macOS,
// Secret Service on Linux, Credential Manager on Windows). Alternate
// backends exist so tests and constrained environments can swap in
// something that does not touch the host keyring.
type Backend interface {
	Set(service, account, secret string) error
	Get(service, account string) (string, error)
	Delete(service, account string) error
}

var (
	backendMu sync.Mutex
	backend   Backend = systemBackend{}
)

// UseBackend replaces the process-wide backend. Intended for tests,
// mirroring go-keyring's MockInit. Returns the previous backend.
func UseBackend(b Backend) Backend {
	backendMu.Lock()
	defer backendMu.Unlock()
	prev := backend
	backend = b
	return prev
}

func activeBackend() Backend {
	backendMu.Lock()
	defer backendMu.Unlock()
	return backend
}

// systemBackend stores secrets in the OS keyring.
type systemBackend struct{}

func (systemBackend) Set(service, account, secret string) error {
	return keyring.Set(service, account, secret)
}

func (systemBackend) Get(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return secret, err
}

func (systemBackend) Delete(service, account string) error {
	err := keyring.Delete(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// MemBackend is an in-memory Backend for tests.
type MemBackend struct {
	mu      sync.Mutex
	secrets map[string]string
}

// NewMemBackend creates an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{secrets: make(map[string]string)}
}

func (m *MemBackend) key(service, account string) string {
	return service + "\x00" + account
}

func (m *MemBackend) Set(service, account, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[m.key(service, account)] = secret
	return nil
}

func (m *MemBackend) Get(service, account string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	secret, ok := m.secrets[m.key(service, account)]
	if !ok {
		return "", ErrNotFound
	}
	return secret, nil
}

func (m *MemBackend) Delete(service, account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := m.key(service, account)
	if _, ok := m.secrets[key]; !ok {
		return ErrNotFound
	}
	delete(m.secrets, key)
	return nil
}
