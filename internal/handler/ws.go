package handler

import (
	"context"
	"net/http"
	"time"

	"bot-console/internal/event"
	"bot-console/internal/session"
)

// WSHandler attaches a console page to the live event stream. The page's
// auto-refresh timer is tied to the connection: each tick reloads the views
// the operator has open and announces the refresh, and a dropped connection
// stops the timer with it.
type WSHandler struct {
	console *Console
}

func NewWSHandler(console *Console) *WSHandler {
	return &WSHandler{console: console}
}

func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	ws := h.console.workspace(sess)
	onTick := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := ws.RefreshAll(ctx, sess); err != nil {
			return err
		}
		h.console.bus.Publish(event.New(event.TypeViewRefreshed, nil))
		return nil
	}

	h.console.hub.Serve(w, r, h.console.cfg.RefreshInterval, onTick)
}
