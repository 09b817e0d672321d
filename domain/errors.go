// server/domain/errors.go
package domain

import "net/http"

// ErrorKind classifies the failures a note operation can report to a client.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindMalformed
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindMalformed:
		return "malformed_request"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Status is the HTTP status code a kind is answered with.
func (k ErrorKind) Status() int {
	switch k {
	case KindValidation, KindMalformed:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a client-facing failure with a fixed message per kind.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error of the same kind, so wrapped sentinels still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation       = &Error{Kind: KindValidation, Message: "Title and content are required"}
	ErrMalformedRequest = &Error{Kind: KindMalformed, Message: "Invalid request body"}
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "Note not found"}
)
