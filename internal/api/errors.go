package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for API failures, matched with errors.Is.
var (
	// ErrUnauthorized indicates the session token is missing or no longer valid.
	ErrUnauthorized = errors.New("not authorized")
	// ErrForbidden indicates the authenticated user may not perform the action.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrAPI indicates any other non-success response from the server.
	ErrAPI = errors.New("api error")
)

// GenericErrorMessage is shown when no better message can be extracted.
const GenericErrorMessage = "Something went wrong. Please try again."

// NetworkErrorMessage is shown when the server could not be reached at all.
const NetworkErrorMessage = "Could not reach the server. Check your connection."

// Error is a classified API failure carrying the HTTP status, a stable code,
// a display-ready message and the raw response body.
type Error struct {
	Status  int    // HTTP status code
	Code    string // UNAUTHORIZED, FORBIDDEN, NOT_FOUND or API_ERROR
	Message string // human-readable, safe to show to the user
	Body    []byte // raw response body
	Err     error  // underlying sentinel
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify maps a non-success HTTP status and response body to an *Error.
func classify(status int, body []byte) *Error {
	switch status {
	case http.StatusUnauthorized:
		return &Error{
			Status:  status,
			Code:    "UNAUTHORIZED",
			Message: "Not authorized. Please log in again.",
			Body:    body,
			Err:     ErrUnauthorized,
		}
	case http.StatusForbidden:
		return &Error{
			Status:  status,
			Code:    "FORBIDDEN",
			Message: "You do not have permission to perform this action.",
			Body:    body,
			Err:     ErrForbidden,
		}
	case http.StatusNotFound:
		return &Error{
			Status:  status,
			Code:    "NOT_FOUND",
			Message: "Resource not found.",
			Body:    body,
			Err:     ErrNotFound,
		}
	}

	message := extractBodyMessage(body)
	if message == "" {
		message = GenericErrorMessage
	}
	return &Error{
		Status:  status,
		Code:    "API_ERROR",
		Message: message,
		Body:    body,
		Err:     ErrAPI,
	}
}

// extractBodyMessage pulls a human-readable message out of an error response
// body, preferring the "message" field over "error". Array values are joined
// with newlines, the common shape for validation errors.
func extractBodyMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		// Not an object: the body may itself be a string or a list of strings.
		return decodeMessageValue(body)
	}

	for _, key := range []string{"message", "error"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		if s := decodeMessageValue(raw); s != "" {
			return s
		}
	}
	return ""
}

// decodeMessageValue accepts a string or an array of strings.
func decodeMessageValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "\n")
	}
	return ""
}

// ErrorMessage converts any error reaching a UI boundary into a short
// display-ready string. Classified errors already carry one; anything else
// (network failures, decode errors) degrades to a generic message so raw
// errors never leak to the user.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if msg := extractBodyMessage(apiErr.Body); msg != "" {
			return msg
		}
		return GenericErrorMessage
	}

	return NetworkErrorMessage
}
