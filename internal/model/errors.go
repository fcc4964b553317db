package model

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the boundary it was caught at.
type Kind int

const (
	KindUnknown Kind = iota
	// KindIO is a local file that could not be read or written.
	KindIO
	// KindTransport is a remote invocation that never produced a result.
	KindTransport
	// KindDecode is malformed JSON at any layer.
	KindDecode
	// KindTable is a failed operation against the managed table.
	KindTable
	// KindUnknownAction is an intent the function does not route.
	KindUnknownAction
	// KindRemote is a function result with a non-200 status.
	KindRemote
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindTable:
		return "table"
	case KindUnknownAction:
		return "unknown_action"
	case KindRemote:
		return "remote"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error carries the kind and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with a kind. A nil err stays nil.
func E(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
