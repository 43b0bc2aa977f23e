package assistedserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
)

var (
	// ErrMissingURL ...
	ErrMissingURL = errors.New("missing assisted server url")
	// ErrMissingTokenSource ...
	ErrMissingTokenSource = errors.New("missing access token source")
	// ErrEmptyResponse is returned when a successful response carries no
	// data.
	ErrEmptyResponse = errors.New("assisted server returned an empty response")
)

// ServerError is a failure declared by the assisted server in the error
// envelope of its response.
type ServerError struct {
	HTTPStatus int
	Code       int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf(
			"assisted server error: %d %s", e.HTTPStatus, http.StatusText(e.HTTPStatus),
		)
	}
	return fmt.Sprintf(
		"assisted server error %d (code %d): %s", e.HTTPStatus, e.Code, e.Message,
	)
}

// Is makes a 404 ServerError match domain.ErrNotFound.
func (e *ServerError) Is(target error) bool {
	return target == domain.ErrNotFound && e.HTTPStatus == http.StatusNotFound
}

func isTransientStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
