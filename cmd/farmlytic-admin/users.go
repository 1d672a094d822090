package main

import (
	"errors"
	"fmt"

	redisadapter "github.com/farmlytic/farmlytic-web/internal/adapters/redis"
)

type purgeUserOptions struct {
	UserID string
	Yes    bool
}

func parsePurgeUserFlags(args []string) (purgeUserOptions, error) {
	var opts purgeUserOptions
	fs := newFlagSet("purge-user")
	fs.StringVar(&opts.UserID, "user", "", "user ID whose cached data is dropped")
	fs.BoolVar(&opts.Yes, "yes", false, "skip the confirmation guard")
	if err := fs.Parse(args); err != nil {
		return opts, fmt.Errorf("parse flags: %w", err)
	}
	if opts.UserID == "" {
		return opts, errors.New("--user is required")
	}
	if !opts.Yes {
		return opts, errors.New("refusing to purge without --yes")
	}
	return opts, nil
}

func runPurgeUser(cmdCtx *commandContext, args []string) error {
	opts, err := parsePurgeUserFlags(args)
	if err != nil {
		return err
	}

	cache := redisadapter.NewScopedCache(cmdCtx.Redis, "")
	n, err := cache.Purge(cmdCtx.Ctx, opts.UserID)
	if err != nil {
		return fmt.Errorf("purge user %s: %w", opts.UserID, err)
	}
	return writef(cmdCtx.Out, "Purged %d cached entries for user %s\n", n, opts.UserID)
}

func runRevokeSession(cmdCtx *commandContext, args []string) error {
	var sessionID string
	fs := newFlagSet("revoke-session")
	fs.StringVar(&sessionID, "id", "", "session ID (the session_id cookie value)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if sessionID == "" {
		return errors.New("--id is required")
	}

	store := redisadapter.NewSessionStore(cmdCtx.Redis)
	if err := store.Delete(cmdCtx.Ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	cmdCtx.Logger.Info("session revoked", "session_id", sessionID)
	return nil
}
