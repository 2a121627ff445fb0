// Package zooerr defines the error kinds shared by the zoo registries,
// the schedule store and the orchestrator.
package zooerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can react without parsing messages.
type Kind int

const (
	NotFound Kind = iota + 1
	InvalidDate
	IncompleteTask
	InvalidRole
	InvalidAssignment
	IncompletePrecondition
	Duplicate
	Conflict
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case InvalidDate:
		return "invalid date"
	case IncompleteTask:
		return "incomplete task"
	case InvalidRole:
		return "invalid staff role"
	case InvalidAssignment:
		return "invalid task assignment"
	case IncompletePrecondition:
		return "precondition not met"
	case Duplicate:
		return "duplicate"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a domain failure carrying its Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is a bare kind sentinel matching e.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Kind sentinels for use with errors.Is.
var (
	ErrNotFound               = &Error{Kind: NotFound}
	ErrInvalidDate            = &Error{Kind: InvalidDate}
	ErrIncompleteTask         = &Error{Kind: IncompleteTask}
	ErrInvalidRole            = &Error{Kind: InvalidRole}
	ErrInvalidAssignment      = &Error{Kind: InvalidAssignment}
	ErrIncompletePrecondition = &Error{Kind: IncompletePrecondition}
	ErrDuplicate              = &Error{Kind: Duplicate}
	ErrConflict               = &Error{Kind: Conflict}
)

// New builds an Error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var zErr *Error
	if errors.As(err, &zErr) {
		return zErr.Kind
	}
	return 0
}
