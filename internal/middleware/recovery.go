package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"bot-console/internal/model"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				slog.Error("panic recovered", "error", fmt.Sprintf("%v", recovered), "stack", string(debug.Stack()))

				// Page routes get a plain error page; fragment and action
				// routes get the JSON envelope their callers expect.
				if wantsJSON(r.URL.Path) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(model.APIResponse{
						Success: false,
						Error: &model.APIError{
							Code:    "INTERNAL_ERROR",
							Message: "Unexpected server error",
						},
					})
					return
				}

				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func wantsJSON(path string) bool {
	return strings.HasPrefix(path, "/fragments/") || strings.HasPrefix(path, "/actions/")
}
