// Package apperr defines the error taxonomy shared by validation, auth,
// storage and the RPC layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to react to it.
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingField
	KindInvalidAmount
	KindSplitMismatch
	KindNotAuthenticated
	KindNotFound
	KindPermissionDenied
	KindPersistenceFailure
)

func (k Kind) String() string {
	switch k {
	case KindMissingField:
		return "missing_field"
	case KindInvalidAmount:
		return "invalid_amount"
	case KindSplitMismatch:
		return "split_mismatch"
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindPersistenceFailure:
		return "persistence_failure"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrMissingField       = &Error{Kind: KindMissingField}
	ErrInvalidAmount      = &Error{Kind: KindInvalidAmount}
	ErrSplitMismatch      = &Error{Kind: KindSplitMismatch}
	ErrNotAuthenticated   = &Error{Kind: KindNotAuthenticated}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrPermissionDenied   = &Error{Kind: KindPermissionDenied}
	ErrPersistenceFailure = &Error{Kind: KindPersistenceFailure}
)

// Error is a classified error. Field names the offending input, if any.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// MissingField reports an absent or blank required field.
func MissingField(field string) error {
	return &Error{Kind: KindMissingField, Field: field, Msg: "is required"}
}

// InvalidAmount reports an amount that is not a finite number.
func InvalidAmount(field string) error {
	return &Error{Kind: KindInvalidAmount, Field: field, Msg: "must be a finite number"}
}

// SplitMismatch reports splits that do not add up to the expense amount.
func SplitMismatch(total, amount string) error {
	return &Error{
		Kind:  KindSplitMismatch,
		Field: "splits",
		Msg:   fmt.Sprintf("add up to %s, expected %s", total, amount),
	}
}

// NotFound reports a missing document.
func NotFound(what, id string) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("%s not found: %s", what, id)}
}

// PermissionDenied reports an operation the caller may not perform.
func PermissionDenied(msg string) error {
	return &Error{Kind: KindPermissionDenied, Msg: msg}
}

// Persistence wraps a store error. Errors that are already classified
// are returned unchanged.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindPersistenceFailure, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// GenericMessage is shown when an error cannot be explained to the user.
const GenericMessage = "Something went wrong. Please try again."

// Message maps err to a message suitable for showing to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return GenericMessage
	}
	switch e.Kind {
	case KindMissingField:
		switch e.Field {
		case "description":
			return "Please enter a description"
		case "amount":
			return "Please enter an amount"
		case "currency":
			return "Please choose a currency"
		case "username":
			return "Please enter a username"
		}
		return "Missing required fields"
	case KindInvalidAmount:
		return "Please enter a valid amount"
	case KindSplitMismatch:
		return "Splits do not add up to total amount"
	case KindNotAuthenticated:
		return "User not authenticated"
	case KindNotFound:
		return "Not found"
	case KindPermissionDenied:
		return "You are not allowed to do that"
	case KindPersistenceFailure:
		return "Failed to save. Please try again."
	}
	return GenericMessage
}
