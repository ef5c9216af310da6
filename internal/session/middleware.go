package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bot-console/internal/apiclient"
	"bot-console/internal/model"
)

type contextKey string

const (
	sessionContextKey contextKey = "backend_session"
	userContextKey    contextKey = "session_user"
)

// Middleware enforces the session gate in front of every console page.
// Unauthenticated page requests are redirected to the login route; fragment,
// action and websocket requests get a 401 body instead so the page script can
// run the redirect itself exactly once.
type Middleware struct {
	guard *Guard
}

func NewMiddleware(guard *Guard) *Middleware {
	return &Middleware{guard: guard}
}

func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		message := "session invalid or expired"
		sess, ok := m.guard.FromRequest(r)
		if ok {
			user, err := m.guard.Verify(r.Context(), sess)
			if err == nil {
				ctx := context.WithValue(r.Context(), sessionContextKey, sess)
				ctx = context.WithValue(ctx, userContextKey, user)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			if errors.Is(err, model.ErrSessionExpired) {
				message = "session expired"
			}
		}

		m.guard.ClearCookie(w)
		if wantsHTML(r) {
			http.Redirect(w, r, LoginRoute, http.StatusFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(model.APIResponse{
			Success: false,
			Error: &model.APIError{
				Code:    "UNAUTHORIZED",
				Message: message,
			},
		})
	})
}

// FromContext returns the backend session attached by RequireSession.
func FromContext(ctx context.Context) (apiclient.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(apiclient.Session)
	return sess, ok
}

// UserFromContext returns the authenticated operator identity.
func UserFromContext(ctx context.Context) (model.SessionUser, bool) {
	user, ok := ctx.Value(userContextKey).(model.SessionUser)
	return user, ok
}

func wantsHTML(r *http.Request) bool {
	path := r.URL.Path
	if strings.HasPrefix(path, "/fragments/") || strings.HasPrefix(path, "/actions/") || path == "/ws" {
		return false
	}

	return true
}
