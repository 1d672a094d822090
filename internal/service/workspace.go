package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/farmlytic/farmlytic-web/internal/domain/access"
	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	"github.com/farmlytic/farmlytic-web/internal/ports"
)

const (
	workspaceCacheKey = "workspace"

	// DefaultWorkspaceTTL is how long a built workspace stays cached.
	DefaultWorkspaceTTL = 5 * time.Minute
)

// NavLink is one entry of the signed-in navigation bar.
type NavLink struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Workspace is the per-user page data shared by every signed-in page.
type Workspace struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	RoleLabel   string    `json:"role_label"`
	Home        string    `json:"home"`
	Nav         []NavLink `json:"nav"`
	BuiltAt     time.Time `json:"built_at"`
}

// WorkspaceServiceOptions groups dependencies for WorkspaceService.
type WorkspaceServiceOptions struct {
	Cache  ports.ScopedCache // Optional: without it every call rebuilds
	TTL    time.Duration
	Logger *slog.Logger
}

// WorkspaceService builds and caches Workspace values keyed by user ID.
type WorkspaceService struct {
	cache  ports.ScopedCache
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewWorkspaceService constructs a WorkspaceService.
func NewWorkspaceService(opts WorkspaceServiceOptions) *WorkspaceService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultWorkspaceTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkspaceService{
		cache:  opts.Cache,
		ttl:    ttl,
		logger: logger.With("component", "workspace_service"),
		now:    time.Now,
	}
}

// Workspace returns the cached workspace for sess, building it on a miss.
// Cache failures are logged and never fail the page.
func (s *WorkspaceService) Workspace(ctx context.Context, sess domainauth.Session) Workspace {
	if s.cache != nil && sess.UserID != "" {
		if ws, ok := s.cached(ctx, sess); ok {
			return ws
		}
	}

	ws := s.build(sess)
	s.store(ctx, ws)
	return ws
}

func (s *WorkspaceService) cached(ctx context.Context, sess domainauth.Session) (Workspace, bool) {
	raw, found, err := s.cache.Get(ctx, sess.UserID, workspaceCacheKey)
	if err != nil {
		s.logger.WarnContext(ctx, "workspace cache read failed", "user_id", sess.UserID, "error", err)
		return Workspace{}, false
	}
	if !found {
		return Workspace{}, false
	}

	var ws Workspace
	if err := json.Unmarshal(raw, &ws); err != nil {
		s.logger.WarnContext(ctx, "discarding undecodable workspace", "user_id", sess.UserID, "error", err)
		return Workspace{}, false
	}
	// A role change invalidates the cached nav.
	if ws.UserID != sess.UserID || ws.Role != string(sess.Role) {
		return Workspace{}, false
	}
	return ws, true
}

func (s *WorkspaceService) store(ctx context.Context, ws Workspace) {
	if s.cache == nil || ws.UserID == "" {
		return
	}
	raw, err := json.Marshal(ws)
	if err != nil {
		s.logger.ErrorContext(ctx, "encode workspace", "error", err)
		return
	}
	if err := s.cache.Set(ctx, ws.UserID, workspaceCacheKey, raw, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "workspace cache write failed", "user_id", ws.UserID, "error", err)
	}
}

func (s *WorkspaceService) build(sess domainauth.Session) Workspace {
	routes := access.NavFor(sess.Role)
	nav := make([]NavLink, 0, len(routes))
	for _, r := range routes {
		nav = append(nav, NavLink{Path: r.Path, Title: r.Title})
	}
	return Workspace{
		UserID:      sess.UserID,
		DisplayName: sess.DisplayName(),
		Role:        string(sess.Role),
		RoleLabel:   sess.Role.Label(),
		Home:        access.HomePath(sess.Role),
		Nav:         nav,
		BuiltAt:     s.now().UTC(),
	}
}
