// Package fault classifies task errors as Recoverable or Fatal.
//
// Recoverable errors are handled inside the task that hit them (log, count,
// continue). Fatal errors are returned from a task's Run method and stop the
// whole scheduler: they mean the configuration does not match the wiring.
package fault

import (
	"errors"
	"fmt"
)

// Class is the severity of a task error.
type Class uint8

const (
	ClassRecoverable Class = iota
	ClassFatal
)

func (c Class) String() string {
	switch c {
	case ClassRecoverable:
		return "recoverable"
	case ClassFatal:
		return "fatal"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// ErrCapacity is returned when a fixed-capacity sequence would overflow, or when
// an index falls outside a fixed-length vector.
var ErrCapacity = errors.New("capacity exceeded")

// ErrConfig is returned when configuration constants are inconsistent.
var ErrConfig = errors.New("invalid configuration")

// Error carries the class and the operation that failed.
type Error struct {
	Class Class
	Op    string
	Err   error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Class.String() + ": " + e.Err.Error()
	}
	return e.Class.String() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Recoverable wraps err as a recoverable error for op.
func Recoverable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Class: ClassRecoverable, Op: op, Err: err}
}

// Fatal wraps err as a fatal error for op.
func Fatal(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Class: ClassFatal, Op: op, Err: err}
}

// ClassOf reports the class of err. Unclassified errors are recoverable;
// ErrCapacity and ErrConfig are always fatal.
func ClassOf(err error) Class {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Class
	}
	if errors.Is(err, ErrCapacity) || errors.Is(err, ErrConfig) {
		return ClassFatal
	}
	return ClassRecoverable
}

// IsFatal reports whether err must stop the scheduler.
func IsFatal(err error) bool {
	return err != nil && ClassOf(err) == ClassFatal
}
