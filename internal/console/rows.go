package console

import (
	"net/url"
	"strconv"

	"bot-console/internal/model"
	"bot-console/internal/view"
)

// Row builders turn backend entities into prepared table rows. The action
// set on each row reflects the entity's current state: an enabled group
// offers disable, a banned user offers unban.

func rowAction(def ViewDef, name string, target string) (view.Action, bool) {
	a, ok := def.Action(name)
	if !ok {
		return view.Action{}, false
	}
	return view.Action{
		Name:        a.Name,
		Label:       a.Label,
		Target:      target,
		Destructive: a.Destructive,
		Confirm:     a.Confirm,
	}, true
}

func pickAction(def ViewDef, name string, target string) []view.Action {
	if a, ok := rowAction(def, name, target); ok {
		return []view.Action{a}
	}
	return nil
}

func GroupRow(def ViewDef) RowFunc[model.Group] {
	return func(g model.Group) view.Row {
		actionName := "group.disable"
		if !g.IsEnabled {
			actionName = "group.enable"
		}
		return view.Row{
			Key: g.GroupID,
			Cells: []view.Cell{
				view.LinkCell(g.GroupID, "/fragments/details/groups/"+url.PathEscape(g.GroupID)),
				view.TextCell(g.DisplayName()),
				view.CountCell(g.CurrentUsers),
				view.CountCell(g.MaxUsers),
				view.EnabledBadge(g.IsEnabled),
				view.TimeCell(g.LastActive),
				view.ActionsCell(pickAction(def, actionName, g.GroupID)...),
			},
		}
	}
}

func UserRow(def ViewDef) RowFunc[model.User] {
	return func(u model.User) view.Row {
		actionName := "user.ban"
		if u.IsBanned {
			actionName = "user.unban"
		}
		return view.Row{
			Key: u.UserID,
			Cells: []view.Cell{
				view.LinkCell(u.UserID, "/fragments/details/users/"+url.PathEscape(u.UserID)),
				view.TextCell(u.Nickname),
				view.CountCell(u.MessageCount),
				view.CountCell(u.GroupCount),
				view.BannedBadge(u.IsBanned),
				view.TimeCell(u.LastActive),
				view.ActionsCell(pickAction(def, actionName, u.UserID)...),
			},
		}
	}
}

func PluginRow(def ViewDef) RowFunc[model.Plugin] {
	return func(p model.Plugin) view.Row {
		actionName := "plugin.disable"
		if !p.IsGlobalEnabled {
			actionName = "plugin.enable"
		}
		name := p.DisplayName
		if name == "" {
			name = p.PluginName
		}
		return view.Row{
			Key: p.PluginName,
			Cells: []view.Cell{
				view.TextCell(name),
				view.TextCell(p.Description),
				view.CountCell(p.UsageCount),
				view.EnabledBadge(p.IsGlobalEnabled),
				view.ActionsCell(pickAction(def, actionName, p.PluginName)...),
			},
		}
	}
}

func GroupUserRow(def ViewDef, groupID string) RowFunc[model.GroupUser] {
	return func(u model.GroupUser) view.Row {
		actionName := "group.user.ban"
		if u.IsBanned {
			actionName = "group.user.unban"
		}
		target := groupID + "/" + u.UserID
		return view.Row{
			Key: u.UserID,
			Cells: []view.Cell{
				view.TextCell(u.UserID),
				view.TextCell(u.UserName),
				view.TextCell(u.Role),
				view.CountCell(u.MessageCount),
				view.BannedBadge(u.IsBanned),
				view.ActionsCell(pickAction(def, actionName, target)...),
			},
		}
	}
}

func MessageLogRow(l model.MessageLog) view.Row {
	return view.Row{
		Key: strconv.FormatInt(l.ID, 10),
		Cells: []view.Cell{
			view.TimeCell(l.Timestamp),
			view.TextCell(l.GroupID),
			view.TextCell(l.UserID),
			view.TextCell(l.Content),
		},
	}
}

func SystemLogRow(l model.SystemLog) view.Row {
	return view.Row{
		Key: strconv.FormatInt(l.ID, 10),
		Cells: []view.Cell{
			view.TimeCell(l.Timestamp),
			view.BadgeCell(l.Level, levelVariant(l.Level)),
			view.TextCell(l.Module),
			view.TextCell(l.Message),
		},
	}
}

func OperationLogRow(l model.OperationLog) view.Row {
	return view.Row{
		Key: strconv.FormatInt(l.ID, 10),
		Cells: []view.Cell{
			view.TimeCell(l.Timestamp),
			view.TextCell(l.Operator),
			view.TextCell(l.OperationType),
			view.TextCell(l.Target),
			view.TextCell(l.Detail),
		},
	}
}

func levelVariant(level string) view.BadgeVariant {
	switch level {
	case "ERROR", "CRITICAL":
		return view.BadgeDanger
	case "WARNING", "WARN":
		return view.BadgeWarning
	case "DEBUG":
		return view.BadgeNeutral
	default:
		return view.BadgeInfo
	}
}
