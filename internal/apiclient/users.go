package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"bot-console/internal/model"
)

type userListResponse struct {
	Users    []model.User `json:"users"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

func (c *Client) ListUsers(ctx context.Context, sess Session, query model.ListQuery) (model.Page[model.User], error) {
	var resp userListResponse
	if err := c.get(ctx, sess, "/api/users", query.Values(), &resp); err != nil {
		return model.Page[model.User]{}, err
	}

	return model.Page[model.User]{
		Items:    resp.Users,
		Total:    resp.Total,
		Page:     resp.Page,
		PageSize: resp.PageSize,
	}, nil
}

func (c *Client) UserDetail(ctx context.Context, sess Session, userID string) (model.UserDetail, error) {
	var detail model.UserDetail
	if err := c.get(ctx, sess, "/api/users/"+url.PathEscape(userID), nil, &detail); err != nil {
		return model.UserDetail{}, err
	}

	return detail, nil
}

func (c *Client) UserStats(ctx context.Context, sess Session) (map[string]any, error) {
	stats := map[string]any{}
	if err := c.get(ctx, sess, "/api/users/stats", nil, &stats); err != nil {
		return nil, err
	}

	return stats, nil
}

// BanUser bans a user globally, optionally for a bounded number of days.
func (c *Client) BanUser(ctx context.Context, sess Session, userID string, reason string, durationDays int) (model.MutationResult, error) {
	query := url.Values{}
	if reason != "" {
		query.Set("reason", reason)
	}
	if durationDays > 0 {
		query.Set("duration_days", strconv.Itoa(durationDays))
	}

	return c.mutate(ctx, sess, "/api/users/"+url.PathEscape(userID)+"/ban", query)
}

func (c *Client) UnbanUser(ctx context.Context, sess Session, userID string) (model.MutationResult, error) {
	return c.mutate(ctx, sess, "/api/users/"+url.PathEscape(userID)+"/unban", nil)
}
