package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("backend unreachable")
	ErrTimeout      = errors.New("backend timeout")
)

// APIError is a failed backend call translated into a user-facing message.
// Status is zero when no response was received.
type APIError struct {
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`

	cause error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
	}
	return "backend: " + e.Message
}

func (e *APIError) Unwrap() error { return e.cause }

// HTTPStatus is the status the gateway answers with: the backend status, or
// 502/504 when the backend could not be reached.
func (e *APIError) HTTPStatus() int {
	switch {
	case e.Status != 0:
		return e.Status
	case errors.Is(e.cause, ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// UserMessage is the message shown to the operator.
func (e *APIError) UserMessage() string { return e.Message }

func (e *APIError) ErrorDetails() string { return e.Details }

// Is matches the package sentinels against the response status.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// errorBody is the FastAPI error payload. detail may be a string or a list
// of validation items.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func detailFrom(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	var s string
	if len(eb.Detail) > 0 && json.Unmarshal(eb.Detail, &s) == nil && s != "" {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if len(eb.Detail) > 0 && json.Unmarshal(eb.Detail, &items) == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return eb.Message
}

// statusError maps a non-2xx response to an APIError.
func statusError(status int, body []byte) *APIError {
	detail := detailFrom(body)
	e := &APIError{Status: status}
	switch status {
	case http.StatusBadRequest:
		e.Message, e.Details = orDefault(detail, "Invalid request."), "Bad data"
	case http.StatusUnauthorized:
		e.Message, e.Details = "Session expired. Please sign in again.", "Unauthorized"
	case http.StatusForbidden:
		e.Message, e.Details = "You are not allowed to perform this action.", "Access denied"
	case http.StatusNotFound:
		e.Message, e.Details = "Resource not found.", "Not found"
	case http.StatusUnprocessableEntity:
		e.Message, e.Details = orDefault(detail, "Invalid or missing data."), "Validation failed"
	case http.StatusInternalServerError:
		e.Message, e.Details = "Server error. Try again later.", "Internal error"
	case http.StatusServiceUnavailable:
		e.Message, e.Details = "Service temporarily unavailable.", "Service unavailable"
	default:
		e.Message, e.Details = orDefault(detail, "An unexpected error occurred."), fmt.Sprintf("Error %d", status)
	}
	return e
}

func networkError(err error) *APIError {
	return &APIError{
		Message: "Cannot reach the server. Check your connection.",
		Details: "Network error",
		cause:   fmt.Errorf("%w: %v", ErrNetwork, err),
	}
}

func timeoutError(err error) *APIError {
	return &APIError{
		Message: "The request took too long. Try again.",
		Details: "Timeout",
		cause:   fmt.Errorf("%w: %v", ErrTimeout, err),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Message returns the user-facing message of err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Unreachable reports whether err means no answer came back from the backend.
func Unreachable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout)
}
