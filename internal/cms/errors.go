package cms

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a layout service failure that carries the HTTP status of
// the upstream response. The resolver downgrades 404 and 401 into flags;
// every other status propagates.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("layout service responded %d %s", e.Code, http.StatusText(e.Code))
}

// IsStatus reports whether err carries the given upstream HTTP status.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == code
}

// StatusOf returns the upstream status carried by err, or 0 when err is not
// status-coded.
func StatusOf(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}
