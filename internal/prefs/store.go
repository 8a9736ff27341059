// Package prefs persists per-client user preferences such as the pinned
// theme.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ziadkadry99/docview/internal/db"
)

// ErrNoPreference is returned by Get when nothing is stored for the key.
var ErrNoPreference = errors.New("no preference stored")

// Store holds preferences keyed by client and preference name.
type Store interface {
	Get(ctx context.Context, clientID, key string) (string, error)
	Set(ctx context.Context, clientID, key, value string) error
	Delete(ctx context.Context, clientID, key string) error
}

// SQLiteStore keeps preferences in the docview database.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a preference store backed by d.
func NewSQLiteStore(d *db.DB) *SQLiteStore {
	return &SQLiteStore{db: d}
}

// Get returns the stored value or ErrNoPreference.
func (s *SQLiteStore) Get(ctx context.Context, clientID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE client_id = ? AND key = ?`, clientID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoPreference
	}
	if err != nil {
		return "", fmt.Errorf("getting preference %s: %w", key, err)
	}
	return value, nil
}

// Set upserts a preference and records the client as seen.
func (s *SQLiteStore) Set(ctx context.Context, clientID, key, value string) error {
	now := time.Now().UTC()
	if err := s.Touch(ctx, clientID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (client_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(client_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		clientID, key, value, now,
	)
	if err != nil {
		return fmt.Errorf("setting preference %s: %w", key, err)
	}
	return nil
}

// Delete removes a preference. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, clientID, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE client_id = ? AND key = ?`, clientID, key)
	if err != nil {
		return fmt.Errorf("deleting preference %s: %w", key, err)
	}
	return nil
}

// Touch registers the client or bumps its last_seen time.
func (s *SQLiteStore) Touch(ctx context.Context, clientID string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clients (id, created_at, last_seen) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET last_seen = excluded.last_seen`,
		clientID, now, now,
	)
	if err != nil {
		return fmt.Errorf("touching client: %w", err)
	}
	return nil
}

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, clientID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[clientID][key]
	if !ok {
		return "", ErrNoPreference
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, clientID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values[clientID] == nil {
		m.values[clientID] = make(map[string]string)
	}
	m.values[clientID][key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, clientID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values[clientID], key)
	return nil
}

// Client scopes a Store to one client. Its Get/Set methods match the
// key-value capability the theme controller consumes.
type Client struct {
	store    Store
	ctx      context.Context
	clientID string
}

// ForClient returns the preferences of clientID. ctx bounds every store call.
func ForClient(ctx context.Context, s Store, clientID string) *Client {
	return &Client{store: s, ctx: ctx, clientID: clientID}
}

// Get reports ok == false with a nil error when nothing is stored.
func (c *Client) Get(key string) (string, bool, error) {
	v, err := c.store.Get(c.ctx, c.clientID, key)
	if errors.Is(err, ErrNoPreference) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *Client) Set(key, value string) error {
	return c.store.Set(c.ctx, c.clientID, key, value)
}
