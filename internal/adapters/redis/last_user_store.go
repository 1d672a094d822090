package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultLastUserPrefix namespaces per-browser last user records.
const DefaultLastUserPrefix = "farmlytic:client:"

// LastUserRecord is the stored JSON shape of a browser's last user.
type LastUserRecord struct {
	ID     string    `json:"id"`
	SeenAt time.Time `json:"seen_at"`
}

// DecodeLastUserRecord parses a stored record. Records that are not JSON
// objects or carry no user ID return ErrMalformedRecord.
func DecodeLastUserRecord(data []byte) (LastUserRecord, error) {
	var rec LastUserRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return LastUserRecord{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	if rec.ID == "" {
		return LastUserRecord{}, fmt.Errorf("%w: empty user id", ErrMalformedRecord)
	}
	return rec, nil
}

// LastUserStore remembers the last signed-in user per browser client ID.
type LastUserStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// LastUserStoreOptions configures a LastUserStore.
type LastUserStoreOptions struct {
	Prefix string
	// TTL bounds how long a browser is remembered; zero keeps records without expiry.
	TTL time.Duration
	Now func() time.Time
}

// NewLastUserStore creates a Redis-backed LastUserStore.
func NewLastUserStore(client redis.UniversalClient, opts LastUserStoreOptions) *LastUserStore {
	s := &LastUserStore{client: client, prefix: opts.Prefix, ttl: opts.TTL, now: opts.Now}
	if s.prefix == "" {
		s.prefix = DefaultLastUserPrefix
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// GetLastUserID returns the stored user ID, or "" when the client has none.
// Undecodable records return ErrMalformedRecord.
func (s *LastUserStore) GetLastUserID(ctx context.Context, clientID string) (string, error) {
	if clientID == "" {
		return "", nil
	}

	data, err := s.client.Get(ctx, s.prefix+clientID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get: %w", err)
	}

	rec, err := DecodeLastUserRecord(data)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// SetLastUserID records userID as the current user of clientID.
func (s *LastUserStore) SetLastUserID(ctx context.Context, clientID, userID string) error {
	if clientID == "" {
		return errors.New("client ID cannot be empty")
	}
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}

	data, err := json.Marshal(LastUserRecord{ID: userID, SeenAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal last user: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+clientID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Forget drops the record for clientID. A missing record is not an error.
func (s *LastUserStore) Forget(ctx context.Context, clientID string) error {
	if clientID == "" {
		return errors.New("client ID cannot be empty")
	}
	if err := s.client.Del(ctx, s.prefix+clientID).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
