package auth

// Package auth contains simple hand-written test doubles for auth and session-state ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	"github.com/farmlytic/farmlytic-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider  = (*MockAuthProvider)(nil)
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
	_ ports.LastUserStore = (*MemoryLastUserStore)(nil)
	_ ports.ScopedCache   = (*MemoryScopedCache)(nil)
)

// ErrNotFound is returned by doubles when an entity is not present.
var ErrNotFound = ports.ErrSessionNotFound

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	DefaultUser domainauth.Identity

	mu        sync.Mutex
	callCount int
	lastBegin ports.BeginInput
}

// NewMockAuthProvider creates a MockAuthProvider that signs everyone in as a farmer.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultUser: domainauth.Identity{
			UserID:    "mock-farmer-1",
			FirstName: "Mock",
			LastName:  "Farmer",
			Email:     "mock.farmer@example.com",
			Groups:    []string{"farmlytic-farmers"},
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastBegin = in
	n := m.callCount
	m.mu.Unlock()

	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	if in.Signup {
		authURL += "?prompt=create"
	}
	return authURL, fmt.Sprintf("state-%d", n), fmt.Sprintf("nonce-%d", n), nil
}

// LastBegin returns the input of the most recent Begin call.
func (m *MockAuthProvider) LastBegin() ports.BeginInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBegin
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	user := m.DefaultUser
	user.ExpiresAt = time.Now().Add(time.Hour)
	return user, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
// GetErr, when set, is returned from Get to simulate a backend outage.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
	GetErr   error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return domainauth.Session{}, m.GetErr
	}
	sess, ok := m.sessions[id]
	if !ok || id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// MemoryLastUserStore is an in-memory LastUserStore.
// Clients listed in Malformed return ports.ErrMalformedRecord; GetErr simulates an outage.
type MemoryLastUserStore struct {
	mu        sync.Mutex
	users     map[string]string
	Malformed map[string]bool
	GetErr    error
}

// NewMemoryLastUserStore creates an empty MemoryLastUserStore.
func NewMemoryLastUserStore() *MemoryLastUserStore {
	return &MemoryLastUserStore{users: map[string]string{}, Malformed: map[string]bool{}}
}

func (m *MemoryLastUserStore) GetLastUserID(_ context.Context, clientID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	if m.Malformed[clientID] {
		return "", ports.ErrMalformedRecord
	}
	return m.users[clientID], nil
}

func (m *MemoryLastUserStore) SetLastUserID(_ context.Context, clientID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Malformed, clientID)
	m.users[clientID] = userID
	return nil
}

// MemoryScopedCache is an in-memory ScopedCache ignoring TTLs.
type MemoryScopedCache struct {
	mu      sync.Mutex
	entries map[string]map[string][]byte
	Purged  []string
}

// NewMemoryScopedCache creates an empty MemoryScopedCache.
func NewMemoryScopedCache() *MemoryScopedCache {
	return &MemoryScopedCache{entries: map[string]map[string][]byte{}}
}

func (m *MemoryScopedCache) Get(_ context.Context, userID, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[userID][key]
	return v, ok, nil
}

func (m *MemoryScopedCache) Set(_ context.Context, userID, key string, val []byte, _ time.Duration) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("user ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[userID] == nil {
		m.entries[userID] = map[string][]byte{}
	}
	m.entries[userID][key] = val
	return nil
}

func (m *MemoryScopedCache) Purge(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries[userID])
	delete(m.entries, userID)
	m.Purged = append(m.Purged, userID)
	return n, nil
}
