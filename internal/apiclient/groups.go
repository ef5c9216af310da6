package apiclient

import (
	"context"
	"net/url"

	"bot-console/internal/model"
)

type groupListResponse struct {
	Groups   []model.Group `json:"groups"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type groupUsersResponse struct {
	Users    []model.GroupUser `json:"users"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func (c *Client) ListGroups(ctx context.Context, sess Session, query model.ListQuery) (model.Page[model.Group], error) {
	var resp groupListResponse
	if err := c.get(ctx, sess, "/api/groups", query.Values(), &resp); err != nil {
		return model.Page[model.Group]{}, err
	}

	return model.Page[model.Group]{
		Items:    resp.Groups,
		Total:    resp.Total,
		Page:     resp.Page,
		PageSize: resp.PageSize,
	}, nil
}

func (c *Client) GroupDetail(ctx context.Context, sess Session, groupID string) (model.Group, error) {
	var group model.Group
	if err := c.get(ctx, sess, "/api/groups/"+url.PathEscape(groupID), nil, &group); err != nil {
		return model.Group{}, err
	}

	return group, nil
}

func (c *Client) GroupUsers(ctx context.Context, sess Session, groupID string, query model.ListQuery) (model.Page[model.GroupUser], error) {
	var resp groupUsersResponse
	if err := c.get(ctx, sess, "/api/groups/"+url.PathEscape(groupID)+"/users", query.Values(), &resp); err != nil {
		return model.Page[model.GroupUser]{}, err
	}

	return model.Page[model.GroupUser]{
		Items:    resp.Users,
		Total:    resp.Total,
		Page:     resp.Page,
		PageSize: resp.PageSize,
	}, nil
}

func (c *Client) EnableGroup(ctx context.Context, sess Session, groupID string) (model.MutationResult, error) {
	return c.mutate(ctx, sess, "/api/groups/"+url.PathEscape(groupID)+"/enable", nil)
}

func (c *Client) DisableGroup(ctx context.Context, sess Session, groupID string) (model.MutationResult, error) {
	return c.mutate(ctx, sess, "/api/groups/"+url.PathEscape(groupID)+"/disable", nil)
}

// BanGroupUser bans a member inside one group, with an operator-supplied reason.
func (c *Client) BanGroupUser(ctx context.Context, sess Session, groupID string, userID string, reason string) (model.MutationResult, error) {
	query := url.Values{}
	if reason != "" {
		query.Set("reason", reason)
	}
	path := "/api/groups/" + url.PathEscape(groupID) + "/users/" + url.PathEscape(userID) + "/ban"

	return c.mutate(ctx, sess, path, query)
}

func (c *Client) UnbanGroupUser(ctx context.Context, sess Session, groupID string, userID string) (model.MutationResult, error) {
	path := "/api/groups/" + url.PathEscape(groupID) + "/users/" + url.PathEscape(userID) + "/unban"

	return c.mutate(ctx, sess, path, nil)
}
