package domain

import (
	"errors"
	"fmt"
)

// Kind is a comparable error category. Callers branch on it with errors.Is.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	ErrNotFound        = Kind("not found")
	ErrAlreadyExists   = Kind("already exists")
	ErrInvalidArgument = Kind("invalid argument")
)

// Error describes a failed scoreboard operation against a single resource.
type Error struct {
	Kind     Kind
	Resource string
	ID       string
	Message  string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	switch {
	case e.Resource != "" && e.ID != "":
		return fmt.Sprintf("%s %s: %s", e.Resource, e.ID, msg)
	case e.Resource != "":
		return fmt.Sprintf("%s: %s", e.Resource, msg)
	default:
		return msg
	}
}

// Unwrap exposes the kind so errors.Is(err, ErrNotFound) works through wrapping.
func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound builds an ErrNotFound error for the given resource.
func NotFound(resource, id string) error {
	return &Error{Kind: ErrNotFound, Resource: resource, ID: id, Message: "not found"}
}

// AlreadyExists builds an ErrAlreadyExists error for the given resource.
func AlreadyExists(resource, id string) error {
	return &Error{Kind: ErrAlreadyExists, Resource: resource, ID: id, Message: "already exists"}
}

// InvalidArgument builds an ErrInvalidArgument error with a caller-facing message.
func InvalidArgument(resource, message string) error {
	return &Error{Kind: ErrInvalidArgument, Resource: resource, Message: message}
}

// AsError attempts to unwrap an error into an *Error.
func AsError(err error) (*Error, bool) {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr, true
	}
	return nil, false
}
