package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"bot-console/internal/console"
	"bot-console/internal/model"
	"bot-console/internal/session"
	"bot-console/internal/view"
)

type subNavLink struct {
	Href   string
	Label  string
	Active bool
}

type listPageData struct {
	Title         string
	Active        string
	Heading       string
	User          *model.SessionUser
	Notifications []model.Notification
	SubNav        []subNavLink
	Filters       []console.FilterDef
	FilterValues  map[string]string
	Table         view.Table
}

type dashboardPageData struct {
	Title         string
	Active        string
	User          *model.SessionUser
	Notifications []model.Notification
	Status        model.SystemStatus
	Cards         []statCard
}

type statCard struct {
	Label string
	Value string
}

type systemPageData struct {
	Title         string
	Active        string
	User          *model.SessionUser
	Notifications []model.Notification
	Status        model.SystemStatus
	Config        []configField
}

type configField struct {
	Key   string
	Value string
}

type PageHandler struct {
	console *Console
}

func NewPageHandler(console *Console) *PageHandler {
	return &PageHandler{console: console}
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	user, _ := session.UserFromContext(r.Context())

	status, err := h.console.client.SystemStatus(r.Context(), sess)
	if h.redirectOnExpiry(w, r, err) {
		return
	}

	var cards []statCard
	if stats, err := h.console.client.DashboardStats(r.Context(), sess); err == nil {
		cards = buildStatCards(stats)
	} else if h.redirectOnExpiry(w, r, err) {
		return
	}

	h.render(w, "dashboard", dashboardPageData{
		Title:         "Dashboard",
		Active:        "dashboard",
		User:          &user,
		Notifications: h.console.center.Active(),
		Status:        status,
		Cards:         cards,
	})
}

func (h *PageHandler) Groups(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, "groups", "groups", "Groups", nil)
}

func (h *PageHandler) Users(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, "users", "users", "Users", nil)
}

func (h *PageHandler) Plugins(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, "plugins", "plugins", "Plugins", nil)
}

func (h *PageHandler) Logs(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	switch category {
	case "system", "operations":
	default:
		category = "messages"
	}

	subNav := []subNavLink{
		{Href: "/logs?category=messages", Label: "Messages", Active: category == "messages"},
		{Href: "/logs?category=system", Label: "System", Active: category == "system"},
		{Href: "/logs?category=operations", Label: "Operations", Active: category == "operations"},
	}

	h.listPage(w, r, "logs."+category, "logs", "Logs", subNav)
}

func (h *PageHandler) listPage(w http.ResponseWriter, r *http.Request, viewName string, active string, heading string, subNav []subNavLink) {
	sess, _ := session.FromContext(r.Context())
	user, _ := session.UserFromContext(r.Context())

	def, err := h.console.registry.View(viewName)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ws := h.console.workspace(sess)
	lv, err := ws.List(viewName)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	filters := collectFilters(r, def)
	table, err := lv.ApplyFilters(r.Context(), sess, filters)
	if h.redirectOnExpiry(w, r, err) {
		return
	}

	if page, ok := pageParam(r); ok && page > 1 {
		table, err = lv.ChangePage(r.Context(), sess, page)
		if h.redirectOnExpiry(w, r, err) {
			return
		}
	}

	h.render(w, "list", listPageData{
		Title:         heading,
		Active:        active,
		Heading:       heading,
		User:          &user,
		Notifications: h.console.center.Active(),
		SubNav:        subNav,
		Filters:       def.Filters,
		FilterValues:  filterValues(def, lv.Query()),
		Table:         table,
	})
}

func (h *PageHandler) System(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	user, _ := session.UserFromContext(r.Context())

	status, err := h.console.client.SystemStatus(r.Context(), sess)
	if h.redirectOnExpiry(w, r, err) {
		return
	}

	var fields []configField
	if cfg, err := h.console.client.BotConfig(r.Context(), sess); err == nil {
		fields = configFields(cfg)
	} else if h.redirectOnExpiry(w, r, err) {
		return
	}

	h.render(w, "system", systemPageData{
		Title:         "System",
		Active:        "system",
		User:          &user,
		Notifications: h.console.center.Active(),
		Status:        status,
		Config:        fields,
	})
}

func (h *PageHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.console.center.Notify("invalid configuration form", model.SeverityError)
		http.Redirect(w, r, "/system", http.StatusFound)
		return
	}

	cfg := model.BotConfig{}
	for key, values := range r.PostForm {
		if len(values) > 0 {
			cfg[key] = values[0]
		}
	}

	result, err := h.console.client.UpdateBotConfig(r.Context(), sess, cfg)
	if h.redirectOnExpiry(w, r, err) {
		return
	}
	if err != nil || !result.Success {
		message := "failed to save configuration"
		if result.Message != "" {
			message = result.Message
		}
		h.console.center.Notify(message, model.SeverityError)
	} else {
		h.console.center.Notify("configuration saved", model.SeveritySuccess)
	}

	http.Redirect(w, r, "/system", http.StatusFound)
}

// redirectOnExpiry sends the operator back to login when the backend
// rejected the session mid-page. Other errors are left to the caller.
func (h *PageHandler) redirectOnExpiry(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, model.ErrUnauthorized) || errors.Is(err, model.ErrSessionExpired) {
		http.Redirect(w, r, session.LoginRoute, http.StatusFound)
		return true
	}
	return false
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.console.renderer.Render(w, name, data); err != nil {
		slog.Error("render page", "template", name, "error", err)
	}
}

func collectFilters(r *http.Request, def console.ViewDef) map[string]string {
	filters := map[string]string{}
	query := r.URL.Query()
	for _, f := range def.Filters {
		if v := strings.TrimSpace(query.Get(f.Name)); v != "" {
			filters[f.Name] = v
		}
	}
	return filters
}

func filterValues(def console.ViewDef, query model.ListQuery) map[string]string {
	values := map[string]string{}
	for _, f := range def.Filters {
		values[f.Name] = query.Filters[f.Name]
	}
	return values
}

func pageParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 0, false
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return page, true
}

func buildStatCards(stats model.DashboardStats) []statCard {
	var cards []statCard
	cards = append(cards, cardsFrom("Users", stats.UserStats)...)
	cards = append(cards, cardsFrom("Groups", stats.GroupStats)...)
	cards = append(cards, cardsFrom("Plugins", stats.PluginStats)...)
	cards = append(cards, cardsFrom("Logs", stats.LogStats)...)
	return cards
}

// cardsFrom flattens one backend stats map into display cards. Keys are
// sorted so the card order is stable across refreshes.
func cardsFrom(prefix string, stats map[string]any) []statCard {
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cards := make([]statCard, 0, len(keys))
	for _, key := range keys {
		cards = append(cards, statCard{
			Label: prefix + " · " + strings.ReplaceAll(key, "_", " "),
			Value: fmt.Sprint(stats[key]),
		})
	}
	return cards
}

func configFields(cfg model.BotConfig) []configField {
	keys := make([]string, 0, len(cfg))
	for key := range cfg {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make([]configField, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, configField{Key: key, Value: fmt.Sprint(cfg[key])})
	}
	return fields
}
