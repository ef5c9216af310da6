package console

import (
	"context"
	"fmt"
	"sync"

	"bot-console/internal/apiclient"
	"bot-console/internal/model"
	"bot-console/internal/view"
)

// ListView is the non-generic surface of a ListController, so the HTTP
// layer can hold controllers for different entity types in one map.
type ListView interface {
	Load(ctx context.Context, sess apiclient.Session, page int) (view.Table, error)
	ApplyFilters(ctx context.Context, sess apiclient.Session, filters map[string]string) (view.Table, error)
	ChangePage(ctx context.Context, sess apiclient.Session, page int) (view.Table, error)
	Reload(ctx context.Context, sess apiclient.Session) (view.Table, error)
	Snapshot() view.Table
	Query() model.ListQuery
}

// Workspace is one operator's console state: the list controller per view,
// lazily built on first use. Controllers keep their query and last render,
// so filters and page position survive across fragment requests.
type Workspace struct {
	client   *apiclient.Client
	registry *Registry
	notifier Notifier
	pageSize int

	mu      sync.Mutex
	lists   map[string]ListView
	details map[string]*DetailView
}

func NewWorkspace(client *apiclient.Client, registry *Registry, notifier Notifier, pageSize int) *Workspace {
	return &Workspace{
		client:   client,
		registry: registry,
		notifier: notifier,
		pageSize: pageSize,
		lists:    map[string]ListView{},
		details:  map[string]*DetailView{},
	}
}

// List returns the controller for a named view, creating it on first use.
func (w *Workspace) List(name string) (ListView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if lv, ok := w.lists[name]; ok {
		return lv, nil
	}

	lv, err := w.build(name)
	if err != nil {
		return nil, err
	}
	w.lists[name] = lv
	return lv, nil
}

func (w *Workspace) build(name string) (ListView, error) {
	def, err := w.registry.View(name)
	if err != nil {
		return nil, err
	}

	switch name {
	case "groups":
		return NewListController(def, w.pageSize, w.client.ListGroups, GroupRow(def), w.notifier), nil
	case "users":
		return NewListController(def, w.pageSize, w.client.ListUsers, UserRow(def), w.notifier), nil
	case "plugins":
		return NewListController(def, w.pageSize, w.client.ListPlugins, PluginRow(def), w.notifier), nil
	case "logs.messages":
		return NewListController(def, w.pageSize, w.client.MessageLogs, RowFunc[model.MessageLog](MessageLogRow), w.notifier), nil
	case "logs.system":
		return NewListController(def, w.pageSize, w.client.SystemLogs, RowFunc[model.SystemLog](SystemLogRow), w.notifier), nil
	case "logs.operations":
		return NewListController(def, w.pageSize, w.client.OperationLogs, RowFunc[model.OperationLog](OperationLogRow), w.notifier), nil
	default:
		return nil, fmt.Errorf("view %q: %w", name, model.ErrUnknownView)
	}
}

// GroupUsers builds a controller for one group's member list. Members are
// scoped to a single detail view, so the controller is not cached.
func (w *Workspace) GroupUsers(groupID string) (ListView, error) {
	def, err := w.registry.View("group.users")
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, sess apiclient.Session, query model.ListQuery) (model.Page[model.GroupUser], error) {
		return w.client.GroupUsers(ctx, sess, groupID, query)
	}
	return NewListController(def, w.pageSize, fetch, GroupUserRow(def, groupID), w.notifier), nil
}

// OpenDetail builds the detail view for key, replacing and closing any view
// already open under it, so re-opening always starts from an empty tab cache.
func (w *Workspace) OpenDetail(key string, build func() *DetailView) *DetailView {
	w.mu.Lock()
	defer w.mu.Unlock()

	if prev, ok := w.details[key]; ok {
		prev.Close()
	}
	dv := build()
	w.details[key] = dv
	return dv
}

// Detail returns the detail view open under key, if any. Tab requests go
// through here so cached tab data lives as long as the open view.
func (w *Workspace) Detail(key string) (*DetailView, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	dv, ok := w.details[key]
	return dv, ok
}

// CloseDetail drops an open detail view and its tab cache.
func (w *Workspace) CloseDetail(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dv, ok := w.details[key]; ok {
		dv.Close()
		delete(w.details, key)
	}
}

// RefreshAll reloads every controller the operator has touched. Used by the
// auto-refresh tick; a failed reload keeps that view's previous render. Only
// a dead session is reported, so the caller can cut the refresh loop.
func (w *Workspace) RefreshAll(ctx context.Context, sess apiclient.Session) error {
	w.mu.Lock()
	lists := make([]ListView, 0, len(w.lists))
	for _, lv := range w.lists {
		lists = append(lists, lv)
	}
	w.mu.Unlock()

	for _, lv := range lists {
		if _, err := lv.Reload(ctx, sess); err != nil && isUnauthorizedErr(err) {
			return err
		}
	}
	return nil
}
