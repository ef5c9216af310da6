package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"bot-console/internal/apiclient"
	"bot-console/internal/console"
	"bot-console/internal/event"
	"bot-console/internal/model"
	"bot-console/internal/session"
)

// ActionHandler executes mutations. Plain form posts are redirected back to
// the page they came from; fetch-based posts (Accept: application/json) get
// the JSON envelope so the page script can refresh just the affected table.
type ActionHandler struct {
	console *Console
}

func NewActionHandler(console *Console) *ActionHandler {
	return &ActionHandler{console: console}
}

func (h *ActionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		writeError(w, model.ErrInvalidInput)
		return
	}

	name := chi.URLParam(r, "action")
	req := console.ActionRequest{
		Action:    name,
		Target:    strings.TrimSpace(r.PostFormValue("target")),
		Confirmed: r.PostFormValue("confirmed") == "true",
		Params:    map[string]string{},
	}
	for _, key := range []string{"reason", "duration_days"} {
		if v := strings.TrimSpace(r.PostFormValue(key)); v != "" {
			req.Params[key] = v
		}
	}

	result, err := h.console.dispatcher.Execute(r.Context(), sess, req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.console.bus.Publish(event.New(event.TypeActionCompleted, map[string]any{
		"action":  name,
		"target":  req.Target,
		"success": result.Success,
	}))

	if result.Success {
		h.afterSuccess(sess, name)
	}

	if wantsJSONResponse(r) {
		writeSuccess(w, http.StatusOK, result, nil)
		return
	}

	back := r.Referer()
	if back == "" {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// afterSuccess refreshes whatever the mutation touched. Bot lifecycle
// actions also watch the reported status until it settles, since the
// backend acknowledges before the process actually flips.
func (h *ActionHandler) afterSuccess(sess apiclient.Session, action string) {
	ws := h.console.workspace(sess)

	switch {
	case strings.HasPrefix(action, "system."):
		go h.watchBotState(sess, action)
	case strings.HasPrefix(action, "group."), strings.HasPrefix(action, "user."), strings.HasPrefix(action, "plugin."):
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = ws.RefreshAll(ctx, sess)
			h.console.bus.Publish(event.New(event.TypeViewRefreshed, nil))
		}()
	}
}

func (h *ActionHandler) watchBotState(sess apiclient.Session, action string) {
	wantRunning := action != "system.stop"

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	h.console.poller.Until(ctx, func(ctx context.Context) (bool, error) {
		status, err := h.console.client.SystemStatus(ctx, sess)
		if err != nil {
			return false, err
		}
		if status.IsRunning == wantRunning {
			h.console.bus.Publish(event.New(event.TypeBotStateChanged, status))
			return true, nil
		}
		return false, nil
	})
}

func wantsJSONResponse(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
