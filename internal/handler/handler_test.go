package handler_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bot-console/internal/apiclient"
	"bot-console/internal/config"
	"bot-console/internal/console"
	"bot-console/internal/event"
	"bot-console/internal/handler"
	"bot-console/internal/notify"
	"bot-console/internal/router"
	"bot-console/internal/session"
	"bot-console/internal/view"
	"bot-console/internal/websocket"
)

// fakeBackend mimics the bot management API for end-to-end handler tests.
type fakeBackend struct {
	validToken string
	mutations  []string

	mu       sync.Mutex
	gets     map[string]int
	lastLogQ url.Values
}

// getCount reports how many authed GETs hit the given backend path.
func (b *fakeBackend) getCount(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gets[path]
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("access_token")
			if err != nil || cookie.Value != b.validToken {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if r.Method == http.MethodGet {
				b.mu.Lock()
				if b.gets == nil {
					b.gets = map[string]int{}
				}
				b.gets[r.URL.Path]++
				b.mu.Unlock()
			}
			next(w, r)
		}
	}

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		w.Header().Set("Content-Type", "application/json")
		if creds["username"] == "admin" && creds["password"] == "secret" {
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: b.validToken})
			_, _ = w.Write([]byte(`{"success":true,"username":"admin"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":false,"message":"bad credentials"}`))
	})

	mux.HandleFunc("GET /api/auth/me", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"username":"admin","role":"admin"}`))
	}))

	mux.HandleFunc("GET /api/groups", authed(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"groups":[{"group_id":"g%s","group_name":"Group %s","is_enabled":true,"current_users":3,"max_users":100}],"total":45,"page":%s,"page_size":20}`, page, page, page)
	}))

	mux.HandleFunc("GET /api/groups/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"group_id":%q,"group_name":"Ops Crew","is_enabled":true,"current_users":3,"max_users":100}`, r.PathValue("id"))
	}))

	mux.HandleFunc("GET /api/groups/{id}/users", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[{"user_id":"u1","user_name":"Sam","role":"member","message_count":12}],"total":1,"page":1,"page_size":20}`))
	}))

	mux.HandleFunc("GET /api/plugins", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"plugins":[{"plugin_name":"echo_plugin","display_name":"Echo","version":"1.0.0","is_global_enabled":true,"usage_count":9}],"total":1,"page":1,"page_size":100}`))
	}))

	mux.HandleFunc("GET /api/plugins/groups/{id}/settings", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"settings":[{"plugin_name":"echo_plugin","group_id":%q,"is_enabled":false,"usage_count":4}]}`, r.PathValue("id"))
	}))

	mux.HandleFunc("GET /api/users/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"user_id":%q,"nickname":"Sam","message_count":12,"group_count":2,"permissions":[{"permission_key":"broadcast","permission_value":"daily","granted_by":"root"}],"groups":[{"group_id":"g1","group_name":"Ops Crew","is_enabled":true}]}`, r.PathValue("id"))
	}))

	mux.HandleFunc("GET /api/logs/messages", authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.lastLogQ = r.URL.Query()
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"logs":[{"id":7,"group_id":"g1","user_id":"u1","content":"morning all"}],"total":1,"page":1,"page_size":20}`))
	}))

	mux.HandleFunc("GET /api/system/status", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bot":{"is_running":true,"version":"1.4.2","platform":"linux"}}`))
	}))

	mux.HandleFunc("GET /api/system/dashboard/stats", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"user_stats":{"total_users":7},"group_stats":{"total_groups":45},"plugin_stats":{},"log_stats":{}}}`))
	}))

	mux.HandleFunc("POST /", authed(func(w http.ResponseWriter, r *http.Request) {
		b.mutations = append(b.mutations, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"done"}`))
	}))

	return mux
}

func newConsoleServer(t *testing.T) (*httptest.Server, *fakeBackend) {
	t.Helper()

	backend := &fakeBackend{validToken: "valid-token"}
	backendSrv := httptest.NewServer(backend.handler())
	t.Cleanup(backendSrv.Close)

	cfg := &config.Config{
		ServerPort:         "0",
		APIBaseURL:         backendSrv.URL,
		APITimeout:         5 * time.Second,
		SessionCookie:      "access_token",
		PageSize:           20,
		RefreshInterval:    time.Hour,
		NotifyTTL:          4 * time.Second,
		PollInterval:       10 * time.Millisecond,
		PollMaxAttempts:    3,
		RequestTimeout:     5 * time.Second,
		RateLimitRPM:       10000,
		ActionRateLimitRPM: 10000,
	}

	client := apiclient.New(cfg.APIBaseURL, cfg.SessionCookie, cfg.APITimeout)

	registry, err := console.LoadRegistry()
	require.NoError(t, err)
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	center := notify.NewCenter(cfg.NotifyTTL, bus)
	t.Cleanup(center.Close)

	dispatcher := console.NewDispatcher(client, registry, center)
	poller := console.NewPoller(cfg.PollInterval, cfg.PollMaxAttempts)
	guard := session.NewGuard(client)

	shared := handler.NewConsole(cfg, client, registry, renderer, center, dispatcher, poller, bus, hub)
	mux := router.New(cfg, session.NewMiddleware(guard), router.Handlers{
		Auth:     handler.NewAuthHandler(shared, guard),
		Pages:    handler.NewPageHandler(shared),
		Fragment: handler.NewFragmentHandler(shared),
		Action:   handler.NewActionHandler(shared),
		WS:       handler.NewWSHandler(shared),
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, backend
}

func get(t *testing.T, srv *httptest.Server, path string, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func postForm(t *testing.T, srv *httptest.Server, path string, token string, form url.Values) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestUnauthenticatedPageRedirectsToLogin(t *testing.T) {
	t.Parallel()

	srv, _ := newConsoleServer(t)

	resp := get(t, srv, "/groups", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = get(t, srv, "/groups", "wrong-token")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestUnauthenticatedFragmentGets401(t *testing.T) {
	t.Parallel()

	srv, _ := newConsoleServer(t)

	resp := get(t, srv, "/fragments/tables/groups", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body(t, resp), "UNAUTHORIZED")
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()

	srv, _ := newConsoleServer(t)

	t.Run("good credentials set cookie and redirect", func(t *testing.T) {
		resp := postForm(t, srv, "/login", "", url.Values{
			"username": {"admin"},
			"password": {"secret"},
		})
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))

		var sessionCookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == "access_token" {
				sessionCookie = c
			}
		}
		require.NotNil(t, sessionCookie)
		assert.Equal(t, "valid-token", sessionCookie.Value)
		assert.True(t, sessionCookie.HttpOnly)
	})

	t.Run("bad credentials re-render the form", func(t *testing.T) {
		resp := postForm(t, srv, "/login", "", url.Values{
			"username": {"admin"},
			"password": {"nope"},
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body(t, resp), "bad credentials")
	})
}

func TestGroupsPageRendersTable(t *testing.T) {
	t.Parallel()

	srv, _ := newConsoleServer(t)

	resp := get(t, srv, "/groups", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	html := body(t, resp)
	assert.Contains(t, html, "Group 1")
	assert.Contains(t, html, "badge badge-success")
	assert.Contains(t, html, `data-view="groups"`)
	assert.Contains(t, html, "45 total")
	assert.Contains(t, html, "admin", "operator name appears in the top bar")
}

func TestTableFragmentPagination(t *testing.T) {
	t.Parallel()

	srv, _ := newConsoleServer(t)

	// Prime the controller so page 2 is within range.
	resp := get(t, srv, "/groups", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = body(t, resp)

	resp = get(t, srv, "/fragments/tables/groups?page=2", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Group 2")

	// 45 records at 20 per page means page 4 does not exist.
	resp = get(t, srv, "/fragments/tables/groups?page=4", "valid-token")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body(t, resp), "PAGE_OUT_OF_RANGE")
}

func TestActionConfirmationGate(t *testing.T) {
	t.Parallel()

	srv, backend := newConsoleServer(t)

	resp := postForm(t, srv, "/actions/group.disable", "valid-token", url.Values{
		"target": {"g1"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body(t, resp), "CONFIRMATION_REQUIRED")
	assert.Empty(t, backend.mutations, "no backend call before confirmation")

	resp = postForm(t, srv, "/actions/group.disable", "valid-token", url.Values{
		"target":    {"g1"},
		"confirmed": {"true"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"success":true`)
	require.Len(t, backend.mutations, 1)
	assert.Equal(t, "/api/groups/g1/disable", backend.mutations[0])
}

func del(t *testing.T, srv *httptest.Server, path string, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestGroupRowsLinkToDetail(t *testing.T) {
	t.Parallel()

	srv, _ := newConsoleServer(t)

	resp := get(t, srv, "/groups", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	html := body(t, resp)
	assert.Contains(t, html, `class="detail-link"`)
	assert.Contains(t, html, `href="/fragments/details/groups/g1"`)
}

func TestGroupDetailModal(t *testing.T) {
	t.Parallel()

	srv, _ := newConsoleServer(t)

	resp := get(t, srv, "/fragments/details/groups/g1", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	html := body(t, resp)
	assert.Contains(t, html, `data-kind="groups"`)
	assert.Contains(t, html, "Ops Crew")
	assert.Contains(t, html, "3 / 100")

	// Member list rides along in the open response.
	assert.Contains(t, html, `data-tab="members"`)
	assert.Contains(t, html, "Sam")

	// The plugins tab shows the merged per-group list: a globally enabled
	// plugin with a disabling override renders as overridden-off with an
	// enable action.
	assert.Contains(t, html, `data-tab="plugins"`)
	assert.Contains(t, html, "Echo")
	assert.Contains(t, html, "override")
	assert.Contains(t, html, "/actions/plugin.group.enable")
	assert.Contains(t, html, `value="g1/echo_plugin"`)
}

func TestGroupDetailTabsCacheUntilReopen(t *testing.T) {
	t.Parallel()

	srv, backend := newConsoleServer(t)

	resp := get(t, srv, "/fragments/details/groups/g1", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = body(t, resp)
	require.Equal(t, 1, backend.getCount("/api/plugins/groups/g1/settings"))

	// Tab requests against an open modal are served from its cache.
	resp = get(t, srv, "/fragments/details/groups/g1/tabs/plugins", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Echo")
	assert.Equal(t, 1, backend.getCount("/api/plugins/groups/g1/settings"))

	// Re-opening starts a fresh fetch.
	resp = get(t, srv, "/fragments/details/groups/g1", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = body(t, resp)
	assert.Equal(t, 2, backend.getCount("/api/plugins/groups/g1/settings"))
}

func TestGroupDetailUnknownTab(t *testing.T) {
	t.Parallel()

	srv, _ := newConsoleServer(t)

	resp := get(t, srv, "/fragments/details/groups/g1/tabs/nonsense", "valid-token")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCloseGroupDetailDropsCache(t *testing.T) {
	t.Parallel()

	srv, backend := newConsoleServer(t)

	resp := get(t, srv, "/fragments/details/groups/g1", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = body(t, resp)
	require.Equal(t, 1, backend.getCount("/api/plugins/groups/g1/settings"))

	resp = del(t, srv, "/fragments/details/groups/g1", "valid-token")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The next tab request finds no open modal and fetches anew.
	resp = get(t, srv, "/fragments/details/groups/g1/tabs/plugins", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, backend.getCount("/api/plugins/groups/g1/settings"))
}

func TestUserDetailModal(t *testing.T) {
	t.Parallel()

	srv, backend := newConsoleServer(t)

	resp := get(t, srv, "/fragments/details/users/u1", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	html := body(t, resp)
	assert.Contains(t, html, `data-kind="users"`)
	assert.Contains(t, html, "Sam")

	// Permissions and memberships render from the one detail response.
	assert.Contains(t, html, `data-tab="permissions"`)
	assert.Contains(t, html, "broadcast")
	assert.Contains(t, html, `data-tab="groups"`)
	assert.Contains(t, html, "Ops Crew")

	// Recent messages wait for the tab to be visited.
	assert.Contains(t, html, `data-tab="messages" data-lazy="true"`)
	assert.NotContains(t, html, "morning all")
	assert.Equal(t, 0, backend.getCount("/api/logs/messages"))
}

func TestUserRecentMessagesTab(t *testing.T) {
	t.Parallel()

	srv, backend := newConsoleServer(t)

	resp := get(t, srv, "/fragments/details/users/u1", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = body(t, resp)

	resp = get(t, srv, "/fragments/details/users/u1/tabs/messages", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "morning all")

	backend.mu.Lock()
	logQuery := backend.lastLogQ
	backend.mu.Unlock()
	assert.Equal(t, "u1", logQuery.Get("user_id"), "messages are scoped to the user")

	// A revisit reuses the cached page.
	resp = get(t, srv, "/fragments/details/users/u1/tabs/messages", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, backend.getCount("/api/logs/messages"))
}

func TestDashboardPage(t *testing.T) {
	t.Parallel()

	srv, _ := newConsoleServer(t)

	resp := get(t, srv, "/", "valid-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	html := body(t, resp)
	assert.Contains(t, html, "running")
	assert.Contains(t, html, "1.4.2")
	assert.Contains(t, html, "45")
}

func TestHealthIsPublic(t *testing.T) {
	t.Parallel()

	srv, _ := newConsoleServer(t)

	resp := get(t, srv, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body(t, resp))
}
