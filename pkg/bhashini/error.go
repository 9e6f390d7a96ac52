package bhashini

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingField is wrapped by errors returned when a successful response
// lacks the field a service extracts.
var ErrMissingField = errors.New("bhashini: missing response field")

// Error is a non-2xx answer from the pipeline or registry.
type Error struct {
	// HTTPStatus is the response status code.
	HTTPStatus int `json:"-"`

	// Message is the server supplied message, or the raw body.
	Message string `json:"message"`

	// Body is the raw response body, truncated.
	Body string `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("bhashini: %s (http_status=%d)", e.Message, e.HTTPStatus)
}

// IsAuthError reports a rejected credential.
func (e *Error) IsAuthError() bool {
	return e.HTTPStatus == http.StatusUnauthorized || e.HTTPStatus == http.StatusForbidden
}

// IsServerError reports a 5xx answer.
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= http.StatusInternalServerError
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

const maxErrorBody = 2048

// errorBody covers the error shapes Dhruva and ULCA answer with.
type errorBody struct {
	Message string `json:"message"`
	Detail  any    `json:"detail"`
	Error   string `json:"error"`
}

// parseAPIError builds an *Error from a non-2xx response body.
func parseAPIError(statusCode int, body []byte) *Error {
	raw := string(body)
	if len(raw) > maxErrorBody {
		raw = raw[:maxErrorBody]
	}
	e := &Error{HTTPStatus: statusCode, Body: raw}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Message != "":
			e.Message = eb.Message
		case eb.Error != "":
			e.Message = eb.Error
		case eb.Detail != nil:
			e.Message = fmt.Sprint(eb.Detail)
		}
	}
	if e.Message == "" {
		if raw != "" {
			e.Message = raw
		} else {
			e.Message = fmt.Sprintf("unexpected status code: %d", statusCode)
		}
	}
	return e
}

// missingField reports an absent or empty response field by path.
func missingField(path string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, path)
}

// wrapError wraps err with message.
func wrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
