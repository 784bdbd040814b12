// internal/sources/errors.go
package sources

import (
	"errors"
	"fmt"
)

// ErrorKind partitions remote-source failures the way the wizard reports them.
type ErrorKind string

const (
	ErrKindNetwork   ErrorKind = "network"
	ErrKindAuth      ErrorKind = "auth"
	ErrKindGraphQL   ErrorKind = "graphql"
	ErrKindMalformed ErrorKind = "malformed"
)

// Error wraps a remote-source failure with its kind and the upstream message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of a source error, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
