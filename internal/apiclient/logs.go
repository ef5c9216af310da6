package apiclient

import (
	"context"

	"bot-console/internal/model"
)

type messageLogResponse struct {
	Logs     []model.MessageLog `json:"logs"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

type systemLogResponse struct {
	Logs     []model.SystemLog `json:"logs"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type operationLogResponse struct {
	Logs     []model.OperationLog `json:"logs"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// MessageLogs filters: group_id, user_id, start_time, end_time.
func (c *Client) MessageLogs(ctx context.Context, sess Session, query model.ListQuery) (model.Page[model.MessageLog], error) {
	var resp messageLogResponse
	if err := c.get(ctx, sess, "/api/logs/messages", query.Values(), &resp); err != nil {
		return model.Page[model.MessageLog]{}, err
	}

	return model.Page[model.MessageLog]{
		Items:    resp.Logs,
		Total:    resp.Total,
		Page:     resp.Page,
		PageSize: resp.PageSize,
	}, nil
}

// SystemLogs filters: level, module, days.
func (c *Client) SystemLogs(ctx context.Context, sess Session, query model.ListQuery) (model.Page[model.SystemLog], error) {
	var resp systemLogResponse
	if err := c.get(ctx, sess, "/api/logs/system", query.Values(), &resp); err != nil {
		return model.Page[model.SystemLog]{}, err
	}

	return model.Page[model.SystemLog]{
		Items:    resp.Logs,
		Total:    resp.Total,
		Page:     resp.Page,
		PageSize: resp.PageSize,
	}, nil
}

// OperationLogs filters: operator, operation_type, days.
func (c *Client) OperationLogs(ctx context.Context, sess Session, query model.ListQuery) (model.Page[model.OperationLog], error) {
	var resp operationLogResponse
	if err := c.get(ctx, sess, "/api/logs/operations", query.Values(), &resp); err != nil {
		return model.Page[model.OperationLog]{}, err
	}

	return model.Page[model.OperationLog]{
		Items:    resp.Logs,
		Total:    resp.Total,
		Page:     resp.Page,
		PageSize: resp.PageSize,
	}, nil
}

func (c *Client) LogStats(ctx context.Context, sess Session) (map[string]any, error) {
	stats := map[string]any{}
	if err := c.get(ctx, sess, "/api/logs/stats", nil, &stats); err != nil {
		return nil, err
	}

	return stats, nil
}
