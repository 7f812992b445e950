package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors mapped from server error codes.
// Use errors.Is() to check.
var (
	ErrBadRequest    = errors.New("mentor: bad request")
	ErrUnauthorized  = errors.New("mentor: unauthorized")
	ErrMajorNotFound = errors.New("mentor: major not found")
	ErrRateLimited   = errors.New("mentor: rate limited")
	ErrProvider      = errors.New("mentor: upstream provider error")
	ErrUnavailable   = errors.New("mentor: service unavailable")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mentor: %s (http %d, code %s)", e.Message, e.Status, e.Code)
}

// Unwrap maps the response to a sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	switch e.Code {
	case "bad_request", "empty_question", "validation_failed":
		return ErrBadRequest
	case "major_not_found":
		return ErrMajorNotFound
	case "rate_limited":
		return ErrRateLimited
	case "provider_error":
		return ErrProvider
	}
	if e.Status == http.StatusServiceUnavailable {
		return ErrUnavailable
	}
	return nil
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}

	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	return apiErr
}
