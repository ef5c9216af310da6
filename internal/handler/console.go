// Package handler serves the console's pages, HTML fragments and action
// endpoints.
package handler

import (
	"sync"
	"time"

	"bot-console/internal/apiclient"
	"bot-console/internal/config"
	"bot-console/internal/console"
	"bot-console/internal/event"
	"bot-console/internal/notify"
	"bot-console/internal/view"
	"bot-console/internal/websocket"
)

// Console bundles the shared pieces every handler needs. Workspaces are
// per-session: each authenticated operator gets their own set of list
// controllers so one operator's filters never leak into another's page.
type Console struct {
	cfg        *config.Config
	client     *apiclient.Client
	registry   *console.Registry
	renderer   *view.Renderer
	center     *notify.Center
	dispatcher *console.Dispatcher
	poller     *console.Poller
	bus        event.Bus
	hub        *websocket.Hub

	mu         sync.Mutex
	workspaces map[string]*workspaceEntry
}

type workspaceEntry struct {
	ws       *console.Workspace
	lastSeen time.Time
}

func NewConsole(
	cfg *config.Config,
	client *apiclient.Client,
	registry *console.Registry,
	renderer *view.Renderer,
	center *notify.Center,
	dispatcher *console.Dispatcher,
	poller *console.Poller,
	bus event.Bus,
	hub *websocket.Hub,
) *Console {
	return &Console{
		cfg:        cfg,
		client:     client,
		registry:   registry,
		renderer:   renderer,
		center:     center,
		dispatcher: dispatcher,
		poller:     poller,
		bus:        bus,
		hub:        hub,
		workspaces: map[string]*workspaceEntry{},
	}
}

func (c *Console) workspace(sess apiclient.Session) *console.Workspace {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.workspaces[sess.Token]; ok {
		entry.lastSeen = time.Now()
		return entry.ws
	}

	ws := console.NewWorkspace(c.client, c.registry, c.center, c.cfg.PageSize)
	c.workspaces[sess.Token] = &workspaceEntry{ws: ws, lastSeen: time.Now()}
	c.gcWorkspacesLocked()
	return ws
}

// Workspaces for sessions idle past an hour are dropped; the next request
// from that session starts fresh at page 1 with no filters.
func (c *Console) gcWorkspacesLocked() {
	if len(c.workspaces) < 100 {
		return
	}

	cutoff := time.Now().Add(-time.Hour)
	for token, entry := range c.workspaces {
		if entry.lastSeen.Before(cutoff) {
			delete(c.workspaces, token)
		}
	}
}
