package apiclient

import (
	"context"
	"net/url"

	"bot-console/internal/model"
)

type pluginListResponse struct {
	Plugins  []model.Plugin `json:"plugins"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type pluginSettingsResponse struct {
	Settings []model.PluginGroupSetting `json:"settings"`
}

func (c *Client) ListPlugins(ctx context.Context, sess Session, query model.ListQuery) (model.Page[model.Plugin], error) {
	var resp pluginListResponse
	if err := c.get(ctx, sess, "/api/plugins", query.Values(), &resp); err != nil {
		return model.Page[model.Plugin]{}, err
	}

	return model.Page[model.Plugin]{
		Items:    resp.Plugins,
		Total:    resp.Total,
		Page:     resp.Page,
		PageSize: resp.PageSize,
	}, nil
}

func (c *Client) PluginStats(ctx context.Context, sess Session) (map[string]any, error) {
	stats := map[string]any{}
	if err := c.get(ctx, sess, "/api/plugins/stats", nil, &stats); err != nil {
		return nil, err
	}

	return stats, nil
}

// GroupPluginSettings lists the per-group overrides used to merge the group
// detail plugins tab.
func (c *Client) GroupPluginSettings(ctx context.Context, sess Session, groupID string) ([]model.PluginGroupSetting, error) {
	var resp pluginSettingsResponse
	if err := c.get(ctx, sess, "/api/plugins/groups/"+url.PathEscape(groupID)+"/settings", nil, &resp); err != nil {
		return nil, err
	}

	return resp.Settings, nil
}

func (c *Client) EnablePlugin(ctx context.Context, sess Session, pluginName string) (model.MutationResult, error) {
	return c.mutate(ctx, sess, "/api/plugins/"+url.PathEscape(pluginName)+"/enable", nil)
}

func (c *Client) DisablePlugin(ctx context.Context, sess Session, pluginName string) (model.MutationResult, error) {
	return c.mutate(ctx, sess, "/api/plugins/"+url.PathEscape(pluginName)+"/disable", nil)
}

func (c *Client) EnableGroupPlugin(ctx context.Context, sess Session, pluginName string, groupID string) (model.MutationResult, error) {
	path := "/api/plugins/" + url.PathEscape(pluginName) + "/groups/" + url.PathEscape(groupID) + "/enable"

	return c.mutate(ctx, sess, path, nil)
}

func (c *Client) DisableGroupPlugin(ctx context.Context, sess Session, pluginName string, groupID string) (model.MutationResult, error) {
	path := "/api/plugins/" + url.PathEscape(pluginName) + "/groups/" + url.PathEscape(groupID) + "/disable"

	return c.mutate(ctx, sess, path, nil)
}
