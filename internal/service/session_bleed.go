package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/farmlytic/farmlytic-web/internal/ports"
	"golang.org/x/sync/errgroup"
)

// SessionBleedGuardOptions groups dependencies for SessionBleedGuard.
type SessionBleedGuardOptions struct {
	LastUsers ports.LastUserStore // Required
	Caches    []ports.ScopedCache // Session-scoped state dropped on an identity switch
	Logger    *slog.Logger        // Optional
}

// SessionBleedGuard detects a browser switching from one signed-in user to another
// and drops everything cached for the previous user.
type SessionBleedGuard struct {
	lastUsers ports.LastUserStore
	caches    []ports.ScopedCache
	logger    *slog.Logger
}

// NewSessionBleedGuard constructs a SessionBleedGuard.
func NewSessionBleedGuard(opts SessionBleedGuardOptions) *SessionBleedGuard {
	if opts.LastUsers == nil {
		panic("service: SessionBleedGuard requires a LastUserStore")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionBleedGuard{
		lastUsers: opts.LastUsers,
		caches:    opts.Caches,
		logger:    logger.With("component", "session_bleed_guard"),
	}
}

// BleedResult reports what Observe found.
type BleedResult struct {
	// Switched is true when the client was last seen as a different user.
	Switched bool
	// PreviousUserID is the user whose state was purged.
	PreviousUserID string
	// Purged counts cache entries removed.
	Purged int
}

// Observe compares the last user recorded for clientID with userID.
// On a mismatch the previous user's scoped state is purged before the new ID is recorded,
// so a failed purge is retried on the next request. A malformed record counts as no prior session.
func (g *SessionBleedGuard) Observe(ctx context.Context, clientID, userID string) (BleedResult, error) {
	if clientID == "" || userID == "" {
		return BleedResult{}, nil
	}

	prev, err := g.lastUsers.GetLastUserID(ctx, clientID)
	if err != nil {
		if !errors.Is(err, ports.ErrMalformedRecord) {
			return BleedResult{}, fmt.Errorf("get last user: %w", err)
		}
		g.logger.WarnContext(ctx, "discarding malformed last user record", "client_id", clientID, "error", err)
		prev = ""
	}

	if prev == userID {
		return BleedResult{}, nil
	}

	res := BleedResult{}
	if prev != "" {
		n, purgeErr := g.purge(ctx, prev)
		if purgeErr != nil {
			return BleedResult{}, fmt.Errorf("purge previous user state: %w", purgeErr)
		}
		res = BleedResult{Switched: true, PreviousUserID: prev, Purged: n}
		g.logger.InfoContext(ctx, "identity switch on client",
			"client_id", clientID,
			"previous_user_id", prev,
			"user_id", userID,
			"purged", n,
		)
	}

	if setErr := g.lastUsers.SetLastUserID(ctx, clientID, userID); setErr != nil {
		return res, fmt.Errorf("set last user: %w", setErr)
	}
	return res, nil
}

func (g *SessionBleedGuard) purge(ctx context.Context, userID string) (int, error) {
	counts := make([]int, len(g.caches))
	eg, ctx := errgroup.WithContext(ctx)
	for i, c := range g.caches {
		eg.Go(func() error {
			n, err := c.Purge(ctx, userID)
			counts[i] = n
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}
