package service

import (
	"context"
	"errors"
	"testing"
	"time"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	"github.com/farmlytic/farmlytic-web/internal/mocks"
	authmocks "github.com/farmlytic/farmlytic-web/internal/mocks/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func farmerSession(userID string) domainauth.Session {
	return domainauth.Session{
		ID:        "sess-" + userID,
		UserID:    userID,
		FirstName: "Ada",
		LastName:  "Field",
		Role:      domainauth.RoleFarmer,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestWorkspaceService_BuildsForRole(t *testing.T) {
	svc := NewWorkspaceService(WorkspaceServiceOptions{})
	ws := svc.Workspace(context.Background(), farmerSession("alice"))

	assert.Equal(t, "alice", ws.UserID)
	assert.Equal(t, "Ada Field", ws.DisplayName)
	assert.Equal(t, "Farmer", ws.RoleLabel)
	assert.Equal(t, "/farmer", ws.Home)
	require.Len(t, ws.Nav, 4)
	assert.Equal(t, NavLink{Path: "/fields", Title: "Fields"}, ws.Nav[0])

	supplier := farmerSession("bob")
	supplier.Role = domainauth.RoleSupplier
	ws = svc.Workspace(context.Background(), supplier)
	assert.Equal(t, "/supplier", ws.Home)
	assert.Equal(t, []NavLink{{Path: "/weather", Title: "Weather"}, {Path: "/analytics", Title: "Analytics"}}, ws.Nav)
}

func TestWorkspaceService_UsesCache(t *testing.T) {
	cache := authmocks.NewMemoryScopedCache()
	svc := NewWorkspaceService(WorkspaceServiceOptions{Cache: cache})
	ctx := context.Background()

	first := svc.Workspace(ctx, farmerSession("alice"))
	svc.now = func() time.Time { return first.BuiltAt.Add(time.Hour) }
	second := svc.Workspace(ctx, farmerSession("alice"))
	assert.Equal(t, first.BuiltAt, second.BuiltAt)

	// A role change rebuilds.
	sess := farmerSession("alice")
	sess.Role = domainauth.RoleSpecialist
	third := svc.Workspace(ctx, sess)
	assert.Equal(t, "/specialist", third.Home)
	assert.NotEqual(t, first.BuiltAt, third.BuiltAt)
}

func TestWorkspaceService_CacheErrorsDegrade(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockScopedCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), "alice", workspaceCacheKey).Return(nil, false, errors.New("down"))
	cache.EXPECT().Set(gomock.Any(), "alice", workspaceCacheKey, gomock.Any(), 30*time.Second).Return(errors.New("down"))

	svc := NewWorkspaceService(WorkspaceServiceOptions{Cache: cache, TTL: 30 * time.Second})
	ws := svc.Workspace(context.Background(), farmerSession("alice"))
	assert.Equal(t, "/farmer", ws.Home)
}

func TestWorkspaceService_UndecodableEntryRebuilt(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockScopedCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), "alice", workspaceCacheKey).Return([]byte("{"), true, nil)
	cache.EXPECT().Set(gomock.Any(), "alice", workspaceCacheKey, gomock.Any(), DefaultWorkspaceTTL).Return(nil)

	svc := NewWorkspaceService(WorkspaceServiceOptions{Cache: cache})
	ws := svc.Workspace(context.Background(), farmerSession("alice"))
	assert.Equal(t, "alice", ws.UserID)
}
