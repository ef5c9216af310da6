package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bot-console/internal/apiclient"
	"bot-console/internal/console"
	"bot-console/internal/model"
	"bot-console/internal/session"
	"bot-console/internal/view"
	"bot-console/pkg/apierror"
)

// Sub-collections inside a detail modal fetch one bounded slice instead of
// paginating.
const (
	detailPluginsFetchSize  = 100
	detailMessagesFetchSize = 20
)

// FragmentHandler serves the HTML partials the console page swaps in place:
// table bodies on page changes and refreshes, detail modals and their tab
// panes, the toast stack.
type FragmentHandler struct {
	console *Console
}

func NewFragmentHandler(console *Console) *FragmentHandler {
	return &FragmentHandler{console: console}
}

// Table re-renders one view's table. A page parameter changes pages within
// the active filters; filter parameters replace the filter set and reset to
// page one.
func (h *FragmentHandler) Table(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	viewName := chi.URLParam(r, "view")

	def, err := h.console.registry.View(viewName)
	if err != nil {
		writeError(w, err)
		return
	}

	ws := h.console.workspace(sess)
	lv, err := ws.List(viewName)
	if err != nil {
		writeError(w, err)
		return
	}

	var table view.Table
	if page, ok := pageParam(r); ok {
		table, err = lv.ChangePage(r.Context(), sess, page)
	} else if len(r.URL.Query()) > 0 {
		table, err = lv.ApplyFilters(r.Context(), sess, collectFilters(r, def))
	} else {
		table, err = lv.Reload(r.Context(), sess)
	}

	if err != nil {
		switch {
		case errors.Is(err, model.ErrUnauthorized):
			writeError(w, apierror.Unauthorized())
			return
		case errors.Is(err, model.ErrPageOutOfRange):
			writeError(w, err)
			return
		case console.IsStale(err):
			// A newer load already rendered; tell the caller to keep it.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		// Failed loads fall through and re-render the last good table.
	}

	h.renderFragment(w, "table", table)
}

// GroupDetail opens the group modal: the record, the member list, and the
// merged per-group plugin table, fetched together. The view stays open on
// the workspace so tab requests hit its cache until it is closed or
// re-opened.
func (h *FragmentHandler) GroupDetail(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	groupID := chi.URLParam(r, "id")

	ws := h.console.workspace(sess)
	dv := ws.OpenDetail("groups/"+groupID, func() *console.DetailView {
		return h.buildGroupDetail(ws, groupID)
	})

	tabs, err := dv.Open(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}

	group, _ := tabs["info"].(model.Group)
	h.renderFragment(w, "detail", detailData{
		Kind:      "groups",
		ID:        groupID,
		Title:     group.DisplayName(),
		ActiveTab: "info",
		Tabs: []detailTab{
			{Name: "info", Label: "Info"},
			{Name: "members", Label: "Members"},
			{Name: "plugins", Label: "Plugins"},
		},
		Panes: []detailPane{
			{Name: "info", Fields: groupFields(group)},
			{Name: "members", Table: tableOf(tabs["members"])},
			{Name: "plugins", Table: tableOf(tabs["plugins"])},
		},
	})
}

// UserDetail opens the user modal. The backend returns the record with its
// permissions and group memberships in one response; recent messages load
// lazily on first tab switch.
func (h *FragmentHandler) UserDetail(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	userID := chi.URLParam(r, "id")

	ws := h.console.workspace(sess)
	dv := ws.OpenDetail("users/"+userID, func() *console.DetailView {
		return h.buildUserDetail(userID)
	})

	tabs, err := dv.Open(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}

	user, _ := tabs["info"].(model.UserDetail)
	permissions := console.PermissionTable(user.Permissions)
	memberships := console.MembershipTable(user.Groups)
	h.renderFragment(w, "detail", detailData{
		Kind:      "users",
		ID:        userID,
		Title:     userTitle(user),
		ActiveTab: "info",
		Tabs:      userDetailTabs(),
		Panes: []detailPane{
			{Name: "info", Fields: userFields(user)},
			{Name: "permissions", Table: &permissions},
			{Name: "groups", Table: &memberships},
			{Name: "messages", Lazy: true},
		},
	})
}

// GroupDetailTab serves one tab pane of an open group modal.
func (h *FragmentHandler) GroupDetailTab(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	groupID := chi.URLParam(r, "id")
	tab := chi.URLParam(r, "tab")

	ws := h.console.workspace(sess)
	dv, ok := ws.Detail("groups/" + groupID)
	if !ok {
		// The open view was lost (workspace recycled); rebuild it so the
		// tab request still resolves, starting a fresh cache.
		dv = ws.OpenDetail("groups/"+groupID, func() *console.DetailView {
			return h.buildGroupDetail(ws, groupID)
		})
	}

	pane, err := h.groupPane(r.Context(), sess, dv, tab)
	if err != nil {
		writeError(w, err)
		return
	}
	h.renderFragment(w, "detailpane", pane)
}

// UserDetailTab serves one tab pane of an open user modal.
func (h *FragmentHandler) UserDetailTab(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	userID := chi.URLParam(r, "id")
	tab := chi.URLParam(r, "tab")

	ws := h.console.workspace(sess)
	dv, ok := ws.Detail("users/" + userID)
	if !ok {
		dv = ws.OpenDetail("users/"+userID, func() *console.DetailView {
			return h.buildUserDetail(userID)
		})
	}

	pane, err := h.userPane(r.Context(), sess, dv, tab)
	if err != nil {
		writeError(w, err)
		return
	}
	h.renderFragment(w, "detailpane", pane)
}

// CloseGroupDetail drops the open group modal's tab cache.
func (h *FragmentHandler) CloseGroupDetail(w http.ResponseWriter, r *http.Request) {
	h.closeDetail(w, r, "groups")
}

// CloseUserDetail drops the open user modal's tab cache.
func (h *FragmentHandler) CloseUserDetail(w http.ResponseWriter, r *http.Request) {
	h.closeDetail(w, r, "users")
}

func (h *FragmentHandler) closeDetail(w http.ResponseWriter, r *http.Request, kind string) {
	sess, _ := session.FromContext(r.Context())
	h.console.workspace(sess).CloseDetail(kind + "/" + chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// Toasts re-renders the notification stack.
func (h *FragmentHandler) Toasts(w http.ResponseWriter, r *http.Request) {
	h.renderFragment(w, "toasts", h.console.center.Active())
}

// DismissToast removes one notification ahead of its expiry.
func (h *FragmentHandler) DismissToast(w http.ResponseWriter, r *http.Request) {
	h.console.center.Dismiss(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *FragmentHandler) buildGroupDetail(ws *console.Workspace, groupID string) *console.DetailView {
	dv := console.NewDetailView("group detail", h.console.center)
	dv.AddTab("info", func(ctx context.Context, s apiclient.Session) (any, error) {
		return h.console.client.GroupDetail(ctx, s, groupID)
	})
	dv.AddTab("members", func(ctx context.Context, s apiclient.Session) (any, error) {
		lv, err := ws.GroupUsers(groupID)
		if err != nil {
			return nil, err
		}
		return lv.Load(ctx, s, 1)
	})
	dv.AddTab("plugins", func(ctx context.Context, s apiclient.Session) (any, error) {
		plugins, err := h.console.client.ListPlugins(ctx, s, model.NewListQuery(detailPluginsFetchSize))
		if err != nil {
			return nil, err
		}
		settings, err := h.console.client.GroupPluginSettings(ctx, s, groupID)
		if err != nil {
			return nil, err
		}
		return console.GroupPluginTable(groupID, console.MergeGroupPlugins(plugins.Items, settings)), nil
	})
	return dv
}

func (h *FragmentHandler) buildUserDetail(userID string) *console.DetailView {
	dv := console.NewDetailView("user detail", h.console.center)
	dv.AddTab("info", func(ctx context.Context, s apiclient.Session) (any, error) {
		return h.console.client.UserDetail(ctx, s, userID)
	})
	dv.AddLazyTab("messages", func(ctx context.Context, s apiclient.Session) (any, error) {
		query := model.NewListQuery(detailMessagesFetchSize).WithFilters(map[string]string{"user_id": userID})
		page, err := h.console.client.MessageLogs(ctx, s, query)
		if err != nil {
			return nil, err
		}
		return console.RecentMessagesTable(page), nil
	})
	return dv
}

func (h *FragmentHandler) groupPane(ctx context.Context, sess apiclient.Session, dv *console.DetailView, tab string) (detailPane, error) {
	switch tab {
	case "info":
		data, err := dv.Tab(ctx, sess, "info")
		if err != nil {
			return detailPane{}, err
		}
		group, _ := data.(model.Group)
		return detailPane{Name: "info", Fields: groupFields(group)}, nil
	case "members", "plugins":
		data, err := dv.Tab(ctx, sess, tab)
		if err != nil {
			return detailPane{}, err
		}
		return detailPane{Name: tab, Table: tableOf(data)}, nil
	default:
		return detailPane{}, fmt.Errorf("tab %q: %w", tab, model.ErrUnknownView)
	}
}

// The user record arrives with permissions and memberships attached, so
// three panes share the one cached "info" fetch.
func (h *FragmentHandler) userPane(ctx context.Context, sess apiclient.Session, dv *console.DetailView, tab string) (detailPane, error) {
	switch tab {
	case "info", "permissions", "groups":
		data, err := dv.Tab(ctx, sess, "info")
		if err != nil {
			return detailPane{}, err
		}
		user, _ := data.(model.UserDetail)
		switch tab {
		case "permissions":
			table := console.PermissionTable(user.Permissions)
			return detailPane{Name: tab, Table: &table}, nil
		case "groups":
			table := console.MembershipTable(user.Groups)
			return detailPane{Name: tab, Table: &table}, nil
		default:
			return detailPane{Name: "info", Fields: userFields(user)}, nil
		}
	case "messages":
		data, err := dv.Tab(ctx, sess, "messages")
		if err != nil {
			return detailPane{}, err
		}
		return detailPane{Name: tab, Table: tableOf(data)}, nil
	default:
		return detailPane{}, fmt.Errorf("tab %q: %w", tab, model.ErrUnknownView)
	}
}

func (h *FragmentHandler) renderFragment(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.console.renderer.Render(w, name, data); err != nil {
		slog.Error("render fragment", "template", name, "error", err)
	}
}

type detailTab struct {
	Name  string
	Label string
}

type detailField struct {
	Label string
	Value string
}

type detailPane struct {
	Name   string
	Fields []detailField
	Table  *view.Table
	Lazy   bool
}

type detailData struct {
	Kind      string
	ID        string
	Title     string
	ActiveTab string
	Tabs      []detailTab
	Panes     []detailPane
}

func userDetailTabs() []detailTab {
	return []detailTab{
		{Name: "info", Label: "Info"},
		{Name: "permissions", Label: "Permissions"},
		{Name: "groups", Label: "Groups"},
		{Name: "messages", Label: "Recent Messages"},
	}
}

func tableOf(data any) *view.Table {
	if t, ok := data.(view.Table); ok {
		return &t
	}
	return nil
}

func groupFields(g model.Group) []detailField {
	status := "disabled"
	if g.IsEnabled {
		status = "enabled"
	}
	return []detailField{
		{Label: "Group ID", Value: g.GroupID},
		{Label: "Name", Value: g.GroupName},
		{Label: "Memo", Value: g.GroupMemo},
		{Label: "Members", Value: fmt.Sprintf("%d / %d", g.CurrentUsers, g.MaxUsers)},
		{Label: "Status", Value: status},
	}
}

func userTitle(u model.UserDetail) string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.UserID
}

func userFields(u model.UserDetail) []detailField {
	status := "active"
	if u.IsBanned {
		status = "banned"
	}
	fields := []detailField{
		{Label: "User ID", Value: u.UserID},
		{Label: "Nickname", Value: u.Nickname},
		{Label: "Messages", Value: strconv.Itoa(u.MessageCount)},
		{Label: "Groups", Value: strconv.Itoa(u.GroupCount)},
		{Label: "Status", Value: status},
	}
	if u.IsBanned && u.BanReason != "" {
		fields = append(fields, detailField{Label: "Ban reason", Value: u.BanReason})
	}
	return fields
}
