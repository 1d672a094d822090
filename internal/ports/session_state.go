package ports

import (
	"context"
	"time"
)

// LastUserStore remembers which user a browser client was last signed in as.
// An empty ID with a nil error means the client has no prior session.
type LastUserStore interface {
	GetLastUserID(ctx context.Context, clientID string) (string, error)
	SetLastUserID(ctx context.Context, clientID, userID string) error
}

// ScopedCache holds derived state keyed by user ID so it can be dropped when the identity changes.
// Get returns found=false on a miss.
type ScopedCache interface {
	Get(ctx context.Context, userID, key string) (val []byte, found bool, err error)
	Set(ctx context.Context, userID, key string, val []byte, ttl time.Duration) error
	Purge(ctx context.Context, userID string) (int, error)
}
