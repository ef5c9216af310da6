package model

import "time"

// Entities in this package mirror backend records for rendering only; the
// console owns none of this data and persists nothing.

type Group struct {
	GroupID      string     `json:"group_id"`
	GroupName    string     `json:"group_name"`
	GroupMemo    string     `json:"group_memo"`
	CurrentUsers int        `json:"current_users"`
	MaxUsers     int        `json:"max_users"`
	IsEnabled    bool       `json:"is_enabled"`
	CreatedAt    *time.Time `json:"created_at"`
	LastActive   *time.Time `json:"last_active"`
}

// DisplayName prefers the operator-set memo over the reported group name.
func (g Group) DisplayName() string {
	if g.GroupMemo != "" {
		return g.GroupMemo
	}
	if g.GroupName != "" {
		return g.GroupName
	}
	return g.GroupID
}

type GroupUser struct {
	UserID       string     `json:"user_id"`
	UserName     string     `json:"user_name"`
	Role         string     `json:"role"`
	MessageCount int        `json:"message_count"`
	LastSpeak    *time.Time `json:"last_speak"`
	IsBanned     bool       `json:"is_banned"`
}

type User struct {
	UserID       string     `json:"user_id"`
	Nickname     string     `json:"nickname"`
	MessageCount int        `json:"message_count"`
	GroupCount   int        `json:"group_count"`
	IsBanned     bool       `json:"is_banned"`
	BanReason    string     `json:"ban_reason"`
	CreatedAt    *time.Time `json:"created_at"`
	LastActive   *time.Time `json:"last_active"`
}

type UserPermission struct {
	Key       string     `json:"permission_key"`
	Value     string     `json:"permission_value"`
	GrantedBy string     `json:"granted_by"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type UserDetail struct {
	User
	Permissions []UserPermission `json:"permissions"`
	Groups      []Group          `json:"groups"`
}

type Plugin struct {
	PluginName      string `json:"plugin_name"`
	DisplayName     string `json:"display_name"`
	Description     string `json:"description"`
	Version         string `json:"version"`
	IsGlobalEnabled bool   `json:"is_global_enabled"`
	UsageCount      int    `json:"usage_count"`
}

// PluginGroupSetting is a per-group override of a plugin's enabled state.
type PluginGroupSetting struct {
	PluginName string `json:"plugin_name"`
	GroupID    string `json:"group_id"`
	IsEnabled  bool   `json:"is_enabled"`
	UsageCount int    `json:"usage_count"`
}

// GroupPlugin is a plugin merged with the group override, as shown on the
// group detail plugins tab.
type GroupPlugin struct {
	Plugin
	IsGroupEnabled   bool
	GroupUsageCount  int
	HasCustomSetting bool
}

type MessageLog struct {
	ID        int64      `json:"id"`
	GroupID   string     `json:"group_id"`
	UserID    string     `json:"user_id"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp"`
}

type SystemLog struct {
	ID        int64      `json:"id"`
	Level     string     `json:"level"`
	Module    string     `json:"module"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp"`
}

type OperationLog struct {
	ID            int64      `json:"id"`
	Operator      string     `json:"operator"`
	OperationType string     `json:"operation_type"`
	Target        string     `json:"target"`
	Detail        string     `json:"detail"`
	Timestamp     *time.Time `json:"timestamp"`
}

type SystemStatus struct {
	IsRunning   bool       `json:"is_running"`
	Uptime      int64      `json:"uptime_seconds"`
	LastRestart *time.Time `json:"last_restart"`
	Platform    string     `json:"platform"`
	Version     string     `json:"version"`
}

type BotConfig map[string]any

type DashboardStats struct {
	UserStats   map[string]any `json:"user_stats"`
	GroupStats  map[string]any `json:"group_stats"`
	PluginStats map[string]any `json:"plugin_stats"`
	LogStats    map[string]any `json:"log_stats"`
}

// SessionUser is the identity returned by the backend whoami endpoint.
type SessionUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
