// Package mocks provides gomock implementations of the session-state ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockLastUserStore(ctrl)
//	store.EXPECT().GetLastUserID(gomock.Any(), "client-1").Return("user-a", nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=last_user_store_mock.go github.com/farmlytic/farmlytic-web/internal/ports LastUserStore

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=scoped_cache_mock.go github.com/farmlytic/farmlytic-web/internal/ports ScopedCache
