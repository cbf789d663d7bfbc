package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/gameday-api/internal/infrastructure/database"
	"github.com/riskibarqy/gameday-api/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

type errorBody struct {
	Error  string       `json:"error"`
	Status string       `json:"status"`
	Errors []FieldError `json:"errors,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Status     string
	Message    string
}

// writeJSON encodes into a pooled buffer first so an encoding failure can
// still become a clean 500.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		span.RecordError(err)
		http.Error(w, `{"error":"internal server error","status":"INTERNAL"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, data)
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	writeJSON(ctx, w, mapped.HTTPStatus, errorBody{
		Error:  mapped.Message,
		Status: mapped.Status,
	})
}

func writeFieldErrors(ctx context.Context, w http.ResponseWriter, errs fieldErrors) {
	status := errs.status()
	writeJSON(ctx, w, status, errorBody{
		Error:  "validation failed",
		Status: statusName(status),
		Errors: errs,
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorBody{
		Error:  "internal server error",
		Status: statusName(http.StatusInternalServerError),
	})
}

// mapError hides the cause of 5xx errors from clients; it is logged by the
// handler instead.
func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, usecase.ErrConflict):
		return mappedError{HTTPStatus: http.StatusBadRequest, Status: statusName(http.StatusBadRequest), Message: err.Error()}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Status: statusName(http.StatusNotFound), Message: err.Error()}
	case errors.Is(err, database.ErrNotOpen), errors.Is(err, database.ErrClosed):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Status: statusName(http.StatusServiceUnavailable), Message: "service unavailable"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Status: statusName(http.StatusInternalServerError), Message: "internal server error"}
	}
}

func statusName(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_ARGUMENT"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusServiceUnavailable:
		return "UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}
