package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/farmlytic/farmlytic-web/internal/domain/access"
	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	"github.com/farmlytic/farmlytic-web/internal/service"
)

// WorkspaceProvider returns the per-user page data for a signed-in session.
type WorkspaceProvider interface {
	Workspace(ctx context.Context, sess domainauth.Session) service.Workspace
}

// PageHandlers renders the pages of the route table.
type PageHandlers struct {
	T          *TemplateRenderer
	Workspaces WorkspaceProvider // Optional
	Logger     *slog.Logger

	cookies cookieJar
}

func (h *PageHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Page renders the page declared by route.
func (h *PageHandlers) Page(route access.Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, pageView{Route: route, Status: http.StatusOK})
	})
}

// NotFound renders the catch-all page with 404, or a JSON 404 for API clients.
func (h *PageHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("the requested resource was not found"),
		})
		return
	}
	h.render(w, r, pageView{Route: access.Match(access.CatchAllPath), Status: http.StatusNotFound})
}

// Loading renders the placeholder shown while auth state cannot be resolved.
// The caller sets the retry headers.
func (h *PageHandlers) Loading(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Loading", Path: r.URL.Path, Theme: ThemeFromContext(r.Context())}
	if err := h.T.RenderLoading(w, http.StatusServiceUnavailable, data); err != nil {
		http.Error(w, "Loading, please retry", http.StatusServiceUnavailable)
	}
}

type pageView struct {
	Route  access.Route
	Status int
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, view pageView) {
	ctx := r.Context()
	data := PageData{
		Title:       view.Route.Title,
		CurrentPage: view.Route.Page,
		Path:        r.URL.Path,
		Theme:       ThemeFromContext(ctx),
		CSRFToken:   GetCSRFToken(r),
		Toast:       h.cookies.popToast(w, r),
	}

	if sess := GetSessionFromContext(ctx); sess != nil && h.Workspaces != nil {
		ws := h.Workspaces.Workspace(ctx, *sess)
		data.Workspace = &ws
	}
	if view.Route.Page == access.PageLogin || view.Route.Page == access.PageRegister {
		data.From = access.SafeOrigin(r.URL.Query().Get("from"))
	}

	var err error
	if WantsPartial(r) {
		err = h.T.RenderPartial(w, view.Status, data)
	} else {
		err = h.T.RenderFull(w, view.Status, data)
	}
	if err != nil {
		h.logger().ErrorContext(ctx, "render page failed",
			slog.String("page", string(view.Route.Page)),
			slog.Any("error", err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
