package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/farmlytic/farmlytic-web/config"
	"github.com/farmlytic/farmlytic-web/internal/bootstrap"
	"github.com/redis/go-redis/v9"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Redis  redis.UniversalClient
	Out    io.Writer
}

const commandTimeout = 2 * time.Minute

func main() {
	logger := bootstrap.InitLogger(config.LogConfig{Level: "info", Format: "text"})

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	if err := run(cmd, os.Args[2:], logger); err != nil {
		logger.Error("command failed", "command", cmdName, "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func run(cmd command, args []string, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	client, err := bootstrap.ConnectRedis(ctx, bootstrap.RedisConnectConfig{Redis: cfg.Redis, Logger: logger})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	return cmd.run(&commandContext{Ctx: ctx, Logger: logger, Redis: client, Out: os.Stdout}, args)
}

func commands() map[string]command {
	return map[string]command{
		"list-clients": {
			name:        "list-clients",
			description: "List browsers and the last user signed in on each",
			run:         runListClients,
		},
		"forget-client": {
			name:        "forget-client",
			description: "Drop a browser's last-user record",
			run:         runForgetClient,
		},
		"purge-user": {
			name:        "purge-user",
			description: "Drop all session-scoped cache entries of a user",
			run:         runPurgeUser,
		},
		"revoke-session": {
			name:        "revoke-session",
			description: "Delete a session so its cookie stops working",
			run:         runRevokeSession,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: farmlytic-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-16s %s\n", name, commands()[name].description); err != nil {
			return err
		}
	}
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
