package console

import (
	"strconv"

	"bot-console/internal/model"
	"bot-console/internal/view"
)

// Tables for detail-modal tabs. These render sub-collections scoped to one
// entity; they are not registry views and paginate only by bounded fetch
// size, so they carry no page window.

// MergeGroupPlugins joins the global plugin list with one group's overrides.
// A plugin without an override inherits its global enabled state.
func MergeGroupPlugins(plugins []model.Plugin, settings []model.PluginGroupSetting) []model.GroupPlugin {
	overrides := make(map[string]model.PluginGroupSetting, len(settings))
	for _, s := range settings {
		overrides[s.PluginName] = s
	}

	merged := make([]model.GroupPlugin, 0, len(plugins))
	for _, p := range plugins {
		gp := model.GroupPlugin{Plugin: p, IsGroupEnabled: p.IsGlobalEnabled}
		if s, ok := overrides[p.PluginName]; ok {
			gp.IsGroupEnabled = s.IsEnabled
			gp.GroupUsageCount = s.UsageCount
			gp.HasCustomSetting = true
		}
		merged = append(merged, gp)
	}
	return merged
}

// GroupPluginTable renders the merged plugin list for a group's plugins tab,
// with per-group enable/disable row actions.
func GroupPluginTable(groupID string, merged []model.GroupPlugin) view.Table {
	rows := make([]view.Row, 0, len(merged))
	for _, gp := range merged {
		name := gp.DisplayName
		if name == "" {
			name = gp.PluginName
		}
		source := view.BadgeCell("default", view.BadgeNeutral)
		if gp.HasCustomSetting {
			source = view.BadgeCell("override", view.BadgeInfo)
		}
		rows = append(rows, view.Row{
			Key: gp.PluginName,
			Cells: []view.Cell{
				view.TextCell(name),
				view.TextCell(gp.Version),
				view.EnabledBadge(gp.IsGroupEnabled),
				source,
				view.CountCell(gp.GroupUsageCount),
				view.ActionsCell(groupPluginAction(groupID, gp)),
			},
		})
	}

	return view.Table{
		View:    "group.plugins",
		Columns: []string{"Plugin", "Version", "Status", "Source", "Usage", "Actions"},
		Rows:    rows,
		Meta:    model.Meta{Total: len(merged)},
	}
}

func groupPluginAction(groupID string, gp model.GroupPlugin) view.Action {
	target := groupID + "/" + gp.PluginName
	if gp.IsGroupEnabled {
		return view.Action{
			Name:        "plugin.group.disable",
			Label:       "Disable",
			Target:      target,
			Destructive: true,
			Confirm:     "Disable this plugin for the group?",
		}
	}
	return view.Action{Name: "plugin.group.enable", Label: "Enable", Target: target}
}

// PermissionTable renders a user's permission grants.
func PermissionTable(perms []model.UserPermission) view.Table {
	rows := make([]view.Row, 0, len(perms))
	for i, p := range perms {
		rows = append(rows, view.Row{
			Key: p.Key + "/" + strconv.Itoa(i),
			Cells: []view.Cell{
				view.TextCell(p.Key),
				view.TextCell(p.Value),
				view.TextCell(p.GrantedBy),
				view.TimeCell(p.ExpiresAt),
			},
		})
	}

	return view.Table{
		View:    "user.permissions",
		Columns: []string{"Permission", "Value", "Granted By", "Expires"},
		Rows:    rows,
		Meta:    model.Meta{Total: len(perms)},
	}
}

// MembershipTable renders the groups a user belongs to.
func MembershipTable(groups []model.Group) view.Table {
	rows := make([]view.Row, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, view.Row{
			Key: g.GroupID,
			Cells: []view.Cell{
				view.TextCell(g.GroupID),
				view.TextCell(g.DisplayName()),
				view.EnabledBadge(g.IsEnabled),
				view.TimeCell(g.LastActive),
			},
		})
	}

	return view.Table{
		View:    "user.groups",
		Columns: []string{"Group ID", "Name", "Status", "Last Active"},
		Rows:    rows,
		Meta:    model.Meta{Total: len(groups)},
	}
}

// RecentMessagesTable renders one user's latest messages.
func RecentMessagesTable(page model.Page[model.MessageLog]) view.Table {
	rows := make([]view.Row, 0, len(page.Items))
	for _, l := range page.Items {
		rows = append(rows, MessageLogRow(l))
	}

	return view.Table{
		View:    "user.messages",
		Columns: []string{"Time", "Group", "User", "Content"},
		Rows:    rows,
		Meta:    model.Meta{Total: page.Total},
	}
}
