// Package session gates every console page behind the backend's ambient
// session credential. The console issues no sessions of its own: it forwards
// the backend cookie and treats any 401 or failed whoami as "not
// authenticated".
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bot-console/internal/apiclient"
	"bot-console/internal/model"
)

const LoginRoute = "/login"

type whoAmIClient interface {
	WhoAmI(ctx context.Context, sess apiclient.Session) (model.SessionUser, error)
	CookieName() string
}

type Guard struct {
	client whoAmIClient
}

func NewGuard(client whoAmIClient) *Guard {
	return &Guard{client: client}
}

// FromRequest extracts the backend session cookie, if any.
func (g *Guard) FromRequest(r *http.Request) (apiclient.Session, bool) {
	cookie, err := r.Cookie(g.client.CookieName())
	if err != nil || cookie.Value == "" {
		return apiclient.Session{}, false
	}

	return apiclient.Session{Token: cookie.Value}, true
}

// Verify checks the session against the backend. Tokens that are well-formed
// JWTs with an elapsed expiry fail fast as ErrSessionExpired without the
// whoami round-trip; a missing token or a backend rejection (network failure
// included) is ErrUnauthorized.
func (g *Guard) Verify(ctx context.Context, sess apiclient.Session) (model.SessionUser, error) {
	if sess.Token == "" {
		return model.SessionUser{}, model.ErrUnauthorized
	}
	if tokenExpired(sess.Token) {
		return model.SessionUser{}, model.ErrSessionExpired
	}

	user, err := g.client.WhoAmI(ctx, sess)
	if err != nil {
		return model.SessionUser{}, fmt.Errorf("whoami: %w: %w", model.ErrUnauthorized, err)
	}

	return user, nil
}

// Check is Verify with the reason collapsed to a bool, for callers that only
// branch on authenticated-or-not.
func (g *Guard) Check(ctx context.Context, sess apiclient.Session) (model.SessionUser, bool) {
	user, err := g.Verify(ctx, sess)
	return user, err == nil
}

// ClearCookie expires the session cookie on the console's own domain, the
// global session-invalidation step of the 401 path.
func (g *Guard) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.client.CookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// SetCookie relays a backend-issued session token to the browser.
func (g *Guard) SetCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.client.CookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// tokenExpired reports whether the token is a JWT whose exp claim already
// elapsed. Opaque (non-JWT) session ids always return false and are left to
// the backend to judge.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}

	return expiry.Before(time.Now())
}
