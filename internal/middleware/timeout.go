package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"bot-console/internal/model"
)

// Timeout bounds fragment and action handling. Never mount it on the
// websocket route: http.TimeoutHandler buffers responses and breaks the
// upgrade hijack.
func Timeout(limit time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = 30 * time.Second
	}

	body, _ := json.Marshal(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "REQUEST_TIMEOUT",
			Message: "request timed out",
		},
	})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, limit, string(body))
	}
}
