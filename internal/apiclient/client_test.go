package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bot-console/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)
	return New(backend.URL, "access_token", 5*time.Second)
}

func TestClientForwardsSessionCookie(t *testing.T) {
	t.Parallel()

	var gotCookie string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("access_token"); err == nil {
			gotCookie = c.Value
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.SessionUser{Username: "admin"})
	})

	user, err := client.WhoAmI(context.Background(), Session{Token: "tok-9"})
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, "tok-9", gotCookie)
}

func TestClientStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "401 is unauthorized", status: http.StatusUnauthorized, want: model.ErrUnauthorized},
		{name: "404 is not found", status: http.StatusNotFound, want: model.ErrNotFound},
		{name: "500 is request failed", status: http.StatusInternalServerError, want: model.ErrRequestFailed},
		{name: "503 is request failed", status: http.StatusServiceUnavailable, want: model.ErrRequestFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			})

			_, err := client.WhoAmI(context.Background(), Session{Token: "tok"})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClientListQueryEncoding(t *testing.T) {
	t.Parallel()

	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[],"total":0,"page":1,"page_size":20}`))
	})

	query := model.NewListQuery(20).WithFilters(map[string]string{"search": "alice"})
	page, err := client.ListUsers(context.Background(), Session{Token: "tok"}, query)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Contains(t, gotQuery, "search=alice")
	assert.Contains(t, gotQuery, "page=1")
	assert.Contains(t, gotQuery, "page_size=20")
}

func TestMutateNormalizesFailures(t *testing.T) {
	t.Parallel()

	t.Run("backend failure message passes through", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":false,"message":"group is protected"}`))
		})

		result, err := client.DisableGroup(context.Background(), Session{Token: "tok"}, "g1")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "group is protected", result.Message)
	})

	t.Run("non-2xx becomes generic failure", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		result, err := client.DisableGroup(context.Background(), Session{Token: "tok"}, "g1")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "operation failed", result.Message)
	})

	t.Run("401 bubbles for the redirect path", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.DisableGroup(context.Background(), Session{Token: "tok"}, "g1")
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})
}

func TestLoginLiftsSessionCookie(t *testing.T) {
	t.Parallel()

	t.Run("success issues cookie", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "admin", creds["username"])

			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "fresh-token"})
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"username":"admin"}`))
		})

		result, err := client.Login(context.Background(), "admin", "secret")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "fresh-token", result.Token)
	})

	t.Run("rejected credentials carry no cookie", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":false,"message":"bad credentials"}`))
		})

		result, err := client.Login(context.Background(), "admin", "wrong")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Empty(t, result.Token)
	})

	t.Run("success without cookie is an error", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true}`))
		})

		_, err := client.Login(context.Background(), "admin", "secret")
		assert.Error(t, err)
	})
}
