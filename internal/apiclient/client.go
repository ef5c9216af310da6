// Package apiclient is the HTTP JSON client for the chat-bot management
// backend. Every call forwards the operator's ambient session cookie; a 401
// maps to model.ErrUnauthorized so callers can trigger the global
// session-invalidation path, any other non-2xx maps to model.ErrRequestFailed.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bot-console/internal/model"
)

type Client struct {
	baseURL    string
	cookieName string
	httpClient *http.Client
}

// Session carries the opaque credential the browser presented to the console.
type Session struct {
	Token string
}

func New(baseURL string, cookieName string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cookieName: cookieName,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CookieName is the name of the backend session cookie the client forwards.
func (c *Client) CookieName() string {
	return c.cookieName
}

func (c *Client) get(ctx context.Context, sess Session, path string, query url.Values, out any) error {
	return c.do(ctx, sess, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, sess Session, path string, query url.Values, body any, out any) error {
	return c.do(ctx, sess, http.MethodPost, path, query, body, out)
}

func (c *Client) put(ctx context.Context, sess Session, path string, body any, out any) error {
	return c.do(ctx, sess, http.MethodPut, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, sess Session, method string, path string, query url.Values, body any, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if sess.Token != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: sess.Token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, model.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, model.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, model.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, model.ErrRequestFailed)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}

	return nil
}

// mutate posts an action endpoint and normalizes the outcome. Backend
// failures never surface as errors here: per the error taxonomy a non-2xx
// on a mutation is an ActionFailure, reported as success=false with a
// generic message, except for 401 which must bubble for the global
// redirect. Network failures likewise degrade to success=false.
func (c *Client) mutate(ctx context.Context, sess Session, path string, query url.Values) (model.MutationResult, error) {
	var result model.MutationResult
	err := c.post(ctx, sess, path, query, nil, &result)
	if err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			return model.MutationResult{}, err
		}
		return model.MutationResult{Success: false, Message: genericFailureMessage}, nil
	}
	if !result.Success && result.Message == "" {
		result.Message = genericFailureMessage
	}

	return result, nil
}

const genericFailureMessage = "operation failed"
