package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bot-console/internal/apiclient"
	"bot-console/internal/model"
)

// ActionRequest is one mutation the operator asked for: the action name from
// a view definition, the target entity key, and any extra parameters the
// action form collected (ban reason, duration, config payloads).
type ActionRequest struct {
	Action    string
	Target    string
	Params    map[string]string
	Confirmed bool
}

// Dispatcher executes row and page actions against the backend. Destructive
// actions must arrive with Confirmed set or they are rejected before any
// request is issued. Every completed action raises a notification either way.
type Dispatcher struct {
	client   *apiclient.Client
	registry *Registry
	notifier Notifier
}

func NewDispatcher(client *apiclient.Client, registry *Registry, notifier Notifier) *Dispatcher {
	return &Dispatcher{client: client, registry: registry, notifier: notifier}
}

// Execute runs one action. The returned MutationResult carries the backend's
// outcome message; a false Success is not a transport error.
func (d *Dispatcher) Execute(ctx context.Context, sess apiclient.Session, req ActionRequest) (model.MutationResult, error) {
	def, ok := d.registry.ActionByName(req.Action)
	if !ok && !isSystemAction(req.Action) {
		return model.MutationResult{}, fmt.Errorf("action %q: %w", req.Action, model.ErrUnknownAction)
	}
	if (def.Destructive || isDestructiveSystemAction(req.Action)) && !req.Confirmed {
		return model.MutationResult{}, model.ErrConfirmationRequired
	}

	result, err := d.run(ctx, sess, req)
	if err != nil {
		if !isUnauthorizedErr(err) {
			d.notifier.Notify("operation failed", model.SeverityError)
		}
		return model.MutationResult{}, err
	}

	if result.Success {
		d.notifier.Notify(successText(result, def), model.SeveritySuccess)
	} else {
		d.notifier.Notify(failureText(result), model.SeverityError)
	}
	return result, nil
}

func (d *Dispatcher) run(ctx context.Context, sess apiclient.Session, req ActionRequest) (model.MutationResult, error) {
	switch req.Action {
	case "group.enable":
		return d.client.EnableGroup(ctx, sess, req.Target)
	case "group.disable":
		return d.client.DisableGroup(ctx, sess, req.Target)
	case "group.user.ban":
		groupID, userID, err := splitGroupUserTarget(req.Target)
		if err != nil {
			return model.MutationResult{}, err
		}
		return d.client.BanGroupUser(ctx, sess, groupID, userID, req.Params["reason"])
	case "group.user.unban":
		groupID, userID, err := splitGroupUserTarget(req.Target)
		if err != nil {
			return model.MutationResult{}, err
		}
		return d.client.UnbanGroupUser(ctx, sess, groupID, userID)
	case "user.ban":
		days, err := banDuration(req.Params)
		if err != nil {
			return model.MutationResult{}, err
		}
		return d.client.BanUser(ctx, sess, req.Target, req.Params["reason"], days)
	case "user.unban":
		return d.client.UnbanUser(ctx, sess, req.Target)
	case "plugin.enable":
		return d.client.EnablePlugin(ctx, sess, req.Target)
	case "plugin.disable":
		return d.client.DisablePlugin(ctx, sess, req.Target)
	case "plugin.group.enable":
		groupID, plugin, err := splitGroupPluginTarget(req.Target)
		if err != nil {
			return model.MutationResult{}, err
		}
		return d.client.EnableGroupPlugin(ctx, sess, plugin, groupID)
	case "plugin.group.disable":
		groupID, plugin, err := splitGroupPluginTarget(req.Target)
		if err != nil {
			return model.MutationResult{}, err
		}
		return d.client.DisableGroupPlugin(ctx, sess, plugin, groupID)
	case "system.start":
		return d.client.StartBot(ctx, sess)
	case "system.stop":
		return d.client.StopBot(ctx, sess)
	case "system.restart":
		return d.client.RestartBot(ctx, sess)
	default:
		return model.MutationResult{}, fmt.Errorf("action %q: %w", req.Action, model.ErrUnknownAction)
	}
}

// System and per-group plugin actions are not row actions of any declared
// view, so the registry never lists them.
func isSystemAction(name string) bool {
	switch name {
	case "system.start", "system.stop", "system.restart",
		"plugin.group.enable", "plugin.group.disable":
		return true
	}
	return false
}

func isDestructiveSystemAction(name string) bool {
	switch name {
	case "system.stop", "system.restart", "plugin.group.disable":
		return true
	}
	return false
}

// Targets that address a user inside a group arrive as "groupID/userID".
func splitGroupUserTarget(target string) (string, string, error) {
	groupID, userID, ok := strings.Cut(target, "/")
	if !ok || groupID == "" || userID == "" {
		return "", "", fmt.Errorf("target %q: %w", target, model.ErrInvalidInput)
	}
	return groupID, userID, nil
}

func splitGroupPluginTarget(target string) (string, string, error) {
	groupID, plugin, ok := strings.Cut(target, "/")
	if !ok || groupID == "" || plugin == "" {
		return "", "", fmt.Errorf("target %q: %w", target, model.ErrInvalidInput)
	}
	return groupID, plugin, nil
}

func banDuration(params map[string]string) (int, error) {
	raw := params["duration_days"]
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, fmt.Errorf("duration %q: %w", raw, model.ErrInvalidInput)
	}
	return days, nil
}

func successText(result model.MutationResult, def ActionDef) string {
	if result.Message != "" {
		return result.Message
	}
	if def.Label != "" {
		return fmt.Sprintf("%s succeeded", strings.ToLower(def.Label))
	}
	return "operation succeeded"
}

func failureText(result model.MutationResult) string {
	if result.Message != "" {
		return result.Message
	}
	return "operation failed"
}
