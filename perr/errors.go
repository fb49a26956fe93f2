// Package perr implements the framework's typed error taxonomy: a stable
// set of error kinds shared by every fallible operation in this module,
// plus a safe-execute helper that never lets a panic or a misbehaving
// error handler escape.
//
// It mirrors the error hierarchy of the original C++ implementation's
// prpc::ErrorCode / prpc::PrpcException / prpc::Result<T> / prpc::ErrorHandler
// (see _examples/original_source/src/include/error.h), reshaped around Go's
// error interface instead of exceptions.
package perr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code enumerates the error kinds stable across every reimplementation of
// this framework.
type Code uint16

const (
	Success            Code = 0
	ConfigError        Code = 1000
	NetworkError       Code = 2000
	CoordinationError  Code = 3000
	SerializationError Code = 4000
	ServiceError       Code = 5000
	TimeoutError       Code = 6000
	InvalidArgument    Code = 7000
	ResourceError      Code = 8000
	Unknown            Code = 9999
)

func (c Code) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case ConfigError:
		return "CONFIG_ERROR"
	case NetworkError:
		return "NETWORK_ERROR"
	case CoordinationError:
		return "COORDINATION_ERROR"
	case SerializationError:
		return "SERIALIZATION_ERROR"
	case ServiceError:
		return "SERVICE_ERROR"
	case TimeoutError:
		return "TIMEOUT_ERROR"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case ResourceError:
		return "RESOURCE_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Error is the framework's own error type: a Code plus a message, optionally
// wrapping a cause so the original failure is never flattened away.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// New builds an Error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches code and a message to an existing error, preserving it as
// the cause and its stack trace via github.com/pkg/errors.
func Wrap(code Code, cause error, message string) *Error {
	if cause == nil {
		return New(code, message)
	}
	return &Error{Code: code, Message: message, cause: errors.WithMessage(cause, message)}
}

// CodeOf extracts the Code carried by err, or Unknown if err is not (or does
// not wrap) a framework *Error.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return Unknown
}

// Handler is invoked with any error that escapes a SafeExecute call.
type Handler func(err error)

var globalHandler Handler

// SetGlobalHandler installs the process-wide error sink. Passing nil clears
// it. There is at most one sink at a time, matching
// prpc::ErrorHandler::setGlobalErrorHandler.
func SetGlobalHandler(h Handler) {
	globalHandler = h
}

// SafeExecute runs fn, recovering any panic and routing both panics and
// returned errors through the global handler. It never lets fn's panic, or
// the handler's own panic, escape — the caller always gets back a plain
// error.
func SafeExecute(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Newf(Unknown, "recovered panic: %v", r)
			notify(err)
		}
	}()

	err = fn()
	if err != nil {
		notify(err)
	}
	return err
}

func notify(err error) {
	if globalHandler == nil {
		return
	}
	defer func() {
		// A misbehaving handler must not bring down the caller.
		recover()
	}()
	globalHandler(err)
}
