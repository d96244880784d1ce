package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx response from the provider
type APIError struct {
	StatusCode int    `json:"-"`
	Status     string `json:"status,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "" && e.Status != "":
		return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status=%d", e.StatusCode)
}

// AuthError indicates a rejected API key (401/403).
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.APIError.Error())
}

// RateLimitError indicates 429 or RESOURCE_EXHAUSTED responses.
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: wait about %ds before retrying: %s", int(e.RetryAfter.Seconds()), e.APIError.Error())
	}
	return fmt.Sprintf("rate limited: %s", e.APIError.Error())
}

// BadRequestError indicates a 400 from the provider.
type BadRequestError struct{ *APIError }

func (e *BadRequestError) Error() string { return fmt.Sprintf("bad request: %s", e.APIError.Error()) }

// ServerError indicates 5xx errors from the provider.
type ServerError struct{ *APIError }

func (e *ServerError) Error() string { return fmt.Sprintf("provider error: %s", e.APIError.Error()) }

// EmptyResponseError is returned when the provider answers without text.
type EmptyResponseError struct{}

func (e *EmptyResponseError) Error() string { return "empty_response" }

// IsRetryable reports whether err looks like a transient rate limit or
// capacity problem. Transport failures are retried only on timeouts, and
// the rate limit keywords are matched against provider messages only.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	var se *ServerError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusServiceUnavailable || retryableMessage(se.Status, se.Message)
	}
	var ae *AuthError
	var be *BadRequestError
	var ee *EmptyResponseError
	if errors.As(err, &ae) || errors.As(err, &be) || errors.As(err, &ee) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return retryableMessage(apiErr.Status, apiErr.Message)
	}

	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Timeout()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return nerr.Timeout()
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	return retryableMessage(err.Error())
}

func retryableMessage(parts ...string) bool {
	msg := strings.ToLower(strings.Join(parts, " "))
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "rate") ||
		strings.Contains(msg, "resource_exhausted")
}

// classifyAPIError maps a generic APIError to a typed error
func classifyAPIError(apiErr *APIError, header http.Header) error {
	sc := apiErr.StatusCode
	switch {
	case sc == http.StatusUnauthorized || sc == http.StatusForbidden:
		return &AuthError{APIError: apiErr}
	case sc == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
		var ra time.Duration
		if v := header.Get("Retry-After"); v != "" {
			if secs, err := parseRetryAfterSeconds(v); err == nil && secs > 0 {
				ra = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{APIError: apiErr, RetryAfter: ra}
	case sc == http.StatusBadRequest:
		return &BadRequestError{APIError: apiErr}
	case sc >= 500 && sc <= 599:
		return &ServerError{APIError: apiErr}
	}
	return apiErr
}

// parseRetryAfterSeconds interprets a Retry-After header as seconds or an HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}
