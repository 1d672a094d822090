package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	redisadapter "github.com/farmlytic/farmlytic-web/internal/adapters/redis"
	"github.com/redis/go-redis/v9"
)

type listClientsOptions struct {
	Limit int
	User  string
}

func parseListClientsFlags(args []string) (listClientsOptions, error) {
	var opts listClientsOptions
	fs := newFlagSet("list-clients")
	fs.IntVar(&opts.Limit, "limit", 100, "maximum number of clients to print")
	fs.StringVar(&opts.User, "user", "", "only show browsers last used by this user ID")
	if err := fs.Parse(args); err != nil {
		return opts, fmt.Errorf("parse flags: %w", err)
	}
	if opts.Limit <= 0 {
		return opts, errors.New("--limit must be positive")
	}
	return opts, nil
}

// clientRow is one last-user record as printed by list-clients.
type clientRow struct {
	ClientID string
	UserID   string
	SeenAt   time.Time
	TTL      time.Duration
	Err      error
}

func runListClients(cmdCtx *commandContext, args []string) error {
	opts, err := parseListClientsFlags(args)
	if err != nil {
		return err
	}
	rows, err := scanClients(cmdCtx.Ctx, cmdCtx.Redis, opts)
	if err != nil {
		return err
	}
	return renderClients(cmdCtx.Out, rows)
}

func scanClients(ctx context.Context, client redis.UniversalClient, opts listClientsOptions) ([]clientRow, error) {
	iter := client.Scan(ctx, 0, redisadapter.DefaultLastUserPrefix+"*", 100).Iterator()

	var rows []clientRow
	for iter.Next(ctx) && len(rows) < opts.Limit {
		key := iter.Val()
		row := readClient(ctx, client, key)
		if opts.User != "" && row.UserID != opts.User {
			continue
		}
		rows = append(rows, row)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return rows, nil
}

func readClient(ctx context.Context, client redis.UniversalClient, key string) clientRow {
	row := clientRow{ClientID: strings.TrimPrefix(key, redisadapter.DefaultLastUserPrefix)}

	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		row.Err = err
		return row
	}
	rec, err := redisadapter.DecodeLastUserRecord(data)
	if err != nil {
		row.Err = err
		return row
	}
	row.UserID = rec.ID
	row.SeenAt = rec.SeenAt
	row.TTL, row.Err = client.TTL(ctx, key).Result()
	return row
}

func renderClients(w io.Writer, rows []clientRow) error {
	if len(rows) == 0 {
		return writef(w, "(no clients found)\n")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "CLIENT\tUSER\tSEEN\tTTL\n"); err != nil {
		return err
	}
	for _, row := range rows {
		if row.Err != nil {
			if err := writef(tw, "%s\t-\t-\terror: %v\n", row.ClientID, row.Err); err != nil {
				return err
			}
			continue
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\n",
			row.ClientID, row.UserID, row.SeenAt.Format(time.RFC3339), formatTTL(row.TTL)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return writef(w, "\nTotal clients: %d\n", len(rows))
}

// formatTTL renders the go-redis TTL sentinels readably.
func formatTTL(ttl time.Duration) string {
	switch {
	case ttl == -1:
		return "none"
	case ttl < 0:
		return "expired"
	default:
		return ttl.Round(time.Second).String()
	}
}

func runForgetClient(cmdCtx *commandContext, args []string) error {
	var clientID string
	fs := newFlagSet("forget-client")
	fs.StringVar(&clientID, "client", "", "browser client ID")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if clientID == "" {
		return errors.New("--client is required")
	}

	store := redisadapter.NewLastUserStore(cmdCtx.Redis, redisadapter.LastUserStoreOptions{})
	if err := store.Forget(cmdCtx.Ctx, clientID); err != nil {
		return err
	}
	cmdCtx.Logger.Info("client forgotten", "client_id", clientID)
	return nil
}
