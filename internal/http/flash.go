package httpx

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// ToastEvent is the client-side event htmx dispatches to show a toast.
const ToastEvent = "showToast"

// ToastLevel controls how a toast is styled.
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastWarning ToastLevel = "warning"
)

// Toast is a one-shot message shown in the layout's toaster region.
type Toast struct {
	Level   ToastLevel `json:"level"`
	Message string     `json:"message"`
}

// Flash stores t for the next full page load and, for htmx requests, triggers it immediately.
func (c cookieJar) Flash(w http.ResponseWriter, r *http.Request, t Toast) {
	b, err := json.Marshal(t)
	if err != nil {
		return
	}
	c.set(w, r, cookieParams{
		Name:   FlashCookieName,
		Value:  base64.RawURLEncoding.EncodeToString(b),
		MaxAge: flashCookieMaxAge,
	})
	if IsHTMX(r) {
		SetHXTrigger(w, ToastEvent, t)
	}
}

// withToast attaches t to the current request so the page being rendered shows it.
func withToast(w http.ResponseWriter, r *http.Request, t Toast) *http.Request {
	if IsHTMX(r) {
		SetHXTrigger(w, ToastEvent, t)
	}
	return r.WithContext(setToastInContext(r.Context(), t))
}

// popToast returns the toast raised during this request, or the one carried by the flash cookie.
// A consumed flash cookie is cleared.
func (c cookieJar) popToast(w http.ResponseWriter, r *http.Request) *Toast {
	if t, ok := pendingToast(r.Context()); ok {
		return &t
	}
	raw := cookieValue(r, FlashCookieName)
	if raw == "" {
		return nil
	}
	c.clear(w, r, FlashCookieName)

	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var t Toast
	if err := json.Unmarshal(b, &t); err != nil || t.Message == "" {
		return nil
	}
	return &t
}
