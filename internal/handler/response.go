package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"bot-console/internal/model"
	"bot-console/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrUnauthorized) || errors.Is(err, model.ErrSessionExpired) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Session is missing or expired"
	} else if errors.Is(err, model.ErrNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Not found"
	} else if errors.Is(err, model.ErrUnknownView) || errors.Is(err, model.ErrUnknownAction) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "No such view or action"
	} else if errors.Is(err, model.ErrPageOutOfRange) {
		status = http.StatusBadRequest
		body.Code = "PAGE_OUT_OF_RANGE"
		body.Message = "Requested page does not exist"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid request"
	} else if errors.Is(err, model.ErrConfirmationRequired) {
		status = http.StatusConflict
		body.Code = "CONFIRMATION_REQUIRED"
		body.Message = "This action must be confirmed first"
	} else if errors.Is(err, model.ErrRequestFailed) {
		status = http.StatusBadGateway
		body.Code = "UPSTREAM_ERROR"
		body.Message = "Backend request failed"
	}

	if status >= 500 {
		slog.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
