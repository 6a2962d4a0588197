package games

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies service failures. The HTTP layer maps each kind to a status code.
type Kind int

const (
	KindService Kind = iota
	KindValidation
	KindUnauthorised
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorised:
		return "unauthorised_developer"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "service"
	}
}

// Error is the typed failure returned by every Service operation.
type Error struct {
	Kind     Kind
	Op       string
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case len(e.Messages) > 0:
		b.WriteString(strings.Join(e.Messages, ", "))
	default:
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// AsError attempts to unwrap err into a service Error.
func AsError(err error) (*Error, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// KindOf returns the kind of err. Errors not produced by the service count as KindService.
func KindOf(err error) Kind {
	if svcErr, ok := AsError(err); ok {
		return svcErr.Kind
	}
	return KindService
}

// IsKind reports whether err is a service Error of the given kind.
func IsKind(err error, kind Kind) bool {
	svcErr, ok := AsError(err)
	return ok && svcErr.Kind == kind
}

func validationError(op string, messages []string) error {
	return &Error{Kind: KindValidation, Op: op, Messages: messages}
}

func unauthorisedError(op, message string) error {
	return &Error{Kind: KindUnauthorised, Op: op, Messages: []string{message}}
}

func notFoundError(op, id string) error {
	return &Error{Kind: KindNotFound, Op: op, Messages: []string{"no game with id " + id}}
}

func conflictError(op string, err error) error {
	return &Error{Kind: KindConflict, Op: op, Err: err}
}

func serviceError(op string, err error) error {
	return &Error{Kind: KindService, Op: op, Err: err}
}
