package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bot-console/internal/session"
)

type loginPageData struct {
	Error string
}

// sessionTTL is how long the relayed cookie lives in the browser. The
// backend remains the authority: an invalidated session fails whoami no
// matter what the cookie says.
const sessionTTL = 24 * time.Hour

type AuthHandler struct {
	console *Console
	guard   *session.Guard
}

func NewAuthHandler(console *Console, guard *session.Guard) *AuthHandler {
	return &AuthHandler{console: console, guard: guard}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	// An already authenticated operator has no business on the login page.
	if sess, ok := h.guard.FromRequest(r); ok {
		if _, valid := h.guard.Check(r.Context(), sess); valid {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
	}

	h.renderLogin(w, "")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, "invalid form submission")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.renderLogin(w, "username and password are required")
		return
	}

	result, err := h.console.client.Login(r.Context(), username, password)
	if err != nil {
		slog.Warn("login request failed", "error", err)
		h.renderLogin(w, "could not reach the backend, try again")
		return
	}
	if !result.Success {
		message := result.Message
		if message == "" {
			message = "invalid username or password"
		}
		h.renderLogin(w, message)
		return
	}

	h.guard.SetCookie(w, result.Token, sessionTTL)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok {
		if err := h.console.client.Logout(r.Context(), sess); err != nil {
			slog.Warn("backend logout failed", "error", err)
		}
	}

	h.guard.ClearCookie(w)
	http.Redirect(w, r, session.LoginRoute, http.StatusFound)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, errText string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.console.renderer.Render(w, "login", loginPageData{Error: errText}); err != nil {
		slog.Error("render login page", "error", err)
	}
}
