package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"bot-console/internal/model"
)

type LoginResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Username string `json:"username"`
	Token    string `json:"-"`
}

// Login exchanges credentials for a backend session. The backend issues the
// session as a Set-Cookie; the token is lifted out so the console can relay
// it to the browser on its own domain.
func (c *Client) Login(ctx context.Context, username string, password string) (LoginResult, error) {
	payload := map[string]string{"username": username, "password": password}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return LoginResult{}, fmt.Errorf("encode login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(encoded))
	if err != nil {
		return LoginResult{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w: %w", model.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return LoginResult{}, fmt.Errorf("login: status %d: %w", resp.StatusCode, model.ErrRequestFailed)
	}

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return LoginResult{}, fmt.Errorf("login: decode response: %w", err)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == c.cookieName {
			result.Token = cookie.Value
			break
		}
	}
	if result.Success && result.Token == "" {
		return LoginResult{}, fmt.Errorf("login: backend did not issue a %s cookie", c.cookieName)
	}

	return result, nil
}

// Logout invalidates the backend session. Failures are reported but the
// caller clears the browser cookie regardless.
func (c *Client) Logout(ctx context.Context, sess Session) error {
	return c.post(ctx, sess, "/api/auth/logout", nil, nil, nil)
}

// WhoAmI is the lightweight session check behind every page load.
func (c *Client) WhoAmI(ctx context.Context, sess Session) (model.SessionUser, error) {
	var user model.SessionUser
	if err := c.get(ctx, sess, "/api/auth/me", nil, &user); err != nil {
		return model.SessionUser{}, err
	}

	return user, nil
}
