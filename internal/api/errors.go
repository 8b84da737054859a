package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrAuthenticationRequired is returned before any network call when a
// mutation is attempted without a usable token. The UI is expected to
// prompt for sign-in rather than show a generic failure.
var ErrAuthenticationRequired = errors.New("authentication required")

// RequestError is any non-2xx response. The client does not distinguish
// 4xx from 5xx; Detail carries the raw response body.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Detail)
}

// IsAuthenticationRequired reports whether err means the caller must sign
// in first.
func IsAuthenticationRequired(err error) bool {
	return errors.Is(err, ErrAuthenticationRequired)
}
