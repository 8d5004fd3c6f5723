package apperr

import "net/http"

// Kind classifies an error for the HTTP layer.
type Kind string

const (
	Invalid      Kind = "invalid"
	NotFound     Kind = "not_found"
	Unauthorized Kind = "unauthorized"
	Forbidden    Kind = "forbidden"
	Conflict     Kind = "conflict"
	Unavailable  Kind = "unavailable"
	Upstream     Kind = "upstream"
	Internal     Kind = "internal"
)

var statusByKind = map[Kind]int{
	Invalid:      http.StatusBadRequest,
	Unauthorized: http.StatusUnauthorized,
	Forbidden:    http.StatusForbidden,
	NotFound:     http.StatusNotFound,
	Conflict:     http.StatusConflict,
	Unavailable:  http.StatusServiceUnavailable,
}

// Status is the response code for k. Upstream and internal failures are 500.
func (k Kind) Status() int {
	if s, ok := statusByKind[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// exposesMessage reports whether PublicMsg may reach the caller. Internal
// errors always render the generic text.
func (k Kind) exposesMessage() bool { return k != Internal }
