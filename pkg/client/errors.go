package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotSignedIn is returned by protected calls made without a session
var ErrNotSignedIn = errors.New("not signed in")

// APIError is any non-2xx response from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error: %d %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err means the caller has to sign in again
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrNotSignedIn) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
