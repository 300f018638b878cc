// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package client

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when the query is blank. Callers treat it as
// a silent no-op rather than a failure.
var ErrEmptyQuery = errors.New("query is empty")

// StatusError reports a non-200 response from the search endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search endpoint returned HTTP %d", e.Code)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
