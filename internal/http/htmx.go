package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsHistoryRestore reports true when htmx is restoring history (Hx-History-Restore-Request: true).
func IsHistoryRestore(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-History-Restore-Request"), "true")
}

// WantsPartial reports whether only the main fragment should be rendered.
// History restores need the full layout.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsHistoryRestore(r)
}

// SetHXRedirect instructs htmx to redirect the browser to the given URL.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// SetHXRefresh forces a full page refresh.
func SetHXRefresh(w http.ResponseWriter) { w.Header().Set("Hx-Refresh", "true") }

// SetHXTrigger sets the Hx-Trigger response header to {"<event>": <payload>}.
// A nil payload triggers the event with the value true.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	var value any = true
	if payload != nil {
		value = payload
	}
	b, err := json.Marshal(map[string]any{event: value})
	if err != nil {
		w.Header().Set("Hx-Trigger", "{\""+event+"\":true}")
		return
	}
	w.Header().Set("Hx-Trigger", string(b))
}

// htmxRedirect sends the browser to url through htmx and ends the response with 204.
func htmxRedirect(w http.ResponseWriter, url string) {
	SetHXRedirect(w, url)
	w.WriteHeader(http.StatusNoContent)
}

// redirect navigates the browser to url, using Hx-Redirect for htmx requests.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHTMX(r) {
		htmxRedirect(w, url)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
