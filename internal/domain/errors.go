package domain

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes failures returned by loadout operations.
type ErrorKind string

const (
	// KindConfiguration indicates the state or config file is unreadable or unparseable.
	KindConfiguration ErrorKind = "CONFIGURATION"

	// KindNotFound indicates a named loadout or fragment does not exist.
	KindNotFound ErrorKind = "NOT_FOUND"

	// KindAlreadyExists indicates a loadout name is already taken.
	KindAlreadyExists ErrorKind = "ALREADY_EXISTS"

	// KindInvalidInput indicates a malformed name, duplicate reference, or blank field.
	KindInvalidInput ErrorKind = "INVALID_INPUT"

	// KindFileSystem indicates an I/O failure while reading, writing, or listing.
	KindFileSystem ErrorKind = "FILE_SYSTEM"

	// KindSerialization indicates a malformed loadout or state record.
	KindSerialization ErrorKind = "SERIALIZATION"
)

// Error is the typed failure returned by every loadout operation.
type Error struct {
	// Kind identifies the failure category.
	Kind ErrorKind

	// Message is a human-readable description.
	Message string

	// Ref names the affected loadout, fragment reference, or path (optional).
	Ref string

	// Err is the underlying cause (optional).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Ref != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Ref)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// HasKind reports whether err's chain carries an *Error of the given kind.
func HasKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsNotFound returns true if the error is a NotFound failure.
func IsNotFound(err error) bool { return HasKind(err, KindNotFound) }

// IsAlreadyExists returns true if the error is an AlreadyExists failure.
func IsAlreadyExists(err error) bool { return HasKind(err, KindAlreadyExists) }

// IsInvalidInput returns true if the error is an InvalidInput failure.
func IsInvalidInput(err error) bool { return HasKind(err, KindInvalidInput) }

// IsFileSystem returns true if the error is a FileSystem failure.
func IsFileSystem(err error) bool { return HasKind(err, KindFileSystem) }

// IsSerialization returns true if the error is a Serialization failure.
func IsSerialization(err error) bool { return HasKind(err, KindSerialization) }

// IsConfiguration returns true if the error is a Configuration failure.
func IsConfiguration(err error) bool { return HasKind(err, KindConfiguration) }

// LoadoutNotFound creates the failure for an unknown loadout name.
func LoadoutNotFound(name string) *Error {
	return &Error{Kind: KindNotFound, Message: "loadout not found", Ref: name}
}

// FragmentNotFound creates the failure for an unresolvable fragment reference.
func FragmentNotFound(ref string) *Error {
	return &Error{Kind: KindNotFound, Message: "fragment not found", Ref: ref}
}

// LoadoutExists creates the failure for a duplicate loadout name.
func LoadoutExists(name string) *Error {
	return &Error{Kind: KindAlreadyExists, Message: "loadout already exists", Ref: name}
}

// InvalidInput creates a validation failure for the named field.
func InvalidInput(field, message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message, Ref: field}
}

// FileSystemError wraps an I/O failure for the given operation and path.
func FileSystemError(op, path string, err error) *Error {
	return &Error{Kind: KindFileSystem, Message: op, Ref: path, Err: err}
}

// SerializationError wraps an encode/decode failure for the given record.
func SerializationError(what string, err error) *Error {
	return &Error{Kind: KindSerialization, Message: "malformed " + what, Err: err}
}

// ConfigurationError wraps a config or state failure.
func ConfigurationError(message string, err error) *Error {
	return &Error{Kind: KindConfiguration, Message: message, Err: err}
}
