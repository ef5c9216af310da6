package apiclient

import (
	"context"
	"errors"

	"bot-console/internal/model"
)

type systemStatusResponse struct {
	Bot model.SystemStatus `json:"bot"`
}

func (c *Client) SystemStatus(ctx context.Context, sess Session) (model.SystemStatus, error) {
	var resp systemStatusResponse
	if err := c.get(ctx, sess, "/api/system/status", nil, &resp); err != nil {
		return model.SystemStatus{}, err
	}

	return resp.Bot, nil
}

func (c *Client) StartBot(ctx context.Context, sess Session) (model.MutationResult, error) {
	return c.mutate(ctx, sess, "/api/system/start", nil)
}

func (c *Client) StopBot(ctx context.Context, sess Session) (model.MutationResult, error) {
	return c.mutate(ctx, sess, "/api/system/stop", nil)
}

func (c *Client) RestartBot(ctx context.Context, sess Session) (model.MutationResult, error) {
	return c.mutate(ctx, sess, "/api/system/restart", nil)
}

func (c *Client) BotConfig(ctx context.Context, sess Session) (model.BotConfig, error) {
	cfg := model.BotConfig{}
	if err := c.get(ctx, sess, "/api/system/config", nil, &cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Client) UpdateBotConfig(ctx context.Context, sess Session, cfg model.BotConfig) (model.MutationResult, error) {
	var result model.MutationResult
	if err := c.put(ctx, sess, "/api/system/config", cfg, &result); err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			return model.MutationResult{}, err
		}
		return model.MutationResult{Success: false, Message: genericFailureMessage}, nil
	}
	// The backend replies with a bare message on success.
	result.Success = true
	if result.Message == "" {
		result.Message = "config updated"
	}

	return result, nil
}

type dashboardStatsResponse struct {
	Success bool                 `json:"success"`
	Data    model.DashboardStats `json:"data"`
}

// DashboardStats is the joined stats payload behind the dashboard cards.
func (c *Client) DashboardStats(ctx context.Context, sess Session) (model.DashboardStats, error) {
	var resp dashboardStatsResponse
	if err := c.get(ctx, sess, "/api/system/dashboard/stats", nil, &resp); err != nil {
		return model.DashboardStats{}, err
	}

	return resp.Data, nil
}
