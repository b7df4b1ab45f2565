package container

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed errors below match them through errors.Is.
var (
	ErrBindingResolution  = errors.New("binding resolution failed")
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrMethodNotBound     = errors.New("method not bound")
	ErrCircularDependency = errors.New("circular dependency")
	ErrInvalidConstructor = errors.New("invalid constructor")
)

var (
	_ error = (*ResolutionError)(nil)
	_ error = (*TypeMismatchError)(nil)
	_ error = (*MethodNotBoundError)(nil)
	_ error = (*CircularDependencyError)(nil)
	_ error = (*ConstructorError)(nil)
)

// ResolutionError reports a target that could not be produced: an unknown
// type, an abstract type with nothing bound, or a primitive parameter with no
// override and no default.
type ResolutionError struct {
	Abstract  string
	Parameter string   // set for parameter failures, e.g. "$port"
	Stack     []string // build stack at the time of failure, outermost first
	Message   string
	Cause     error
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	b.WriteString("container: ")
	b.WriteString(e.Message)
	if len(e.Stack) > 0 {
		b.WriteString(" while building [")
		b.WriteString(strings.Join(e.Stack, ", "))
		b.WriteString("]")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ResolutionError) Is(target error) bool { return target == ErrBindingResolution }

func (e *ResolutionError) Unwrap() error { return e.Cause }

// TypeMismatchError reports a concrete that is neither a type name nor a
// recognised factory func.
type TypeMismatchError struct {
	Abstract string
	Concrete any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("container: [%s]: concrete must be a type name or a factory func, got %T", e.Abstract, e.Concrete)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// MethodNotBoundError is returned by CallMethodBinding for an unknown method.
type MethodNotBoundError struct {
	Method string
}

func (e *MethodNotBoundError) Error() string {
	return fmt.Sprintf("container: method [%s] not bound", e.Method)
}

func (e *MethodNotBoundError) Is(target error) bool { return target == ErrMethodNotBound }

// CircularDependencyError is returned when a concrete (or an abstract in the
// same construction context) is requested again while it is still being built.
type CircularDependencyError struct {
	Concrete string
	Chain    []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("container: circular dependency detected for [%s]: %s",
		e.Concrete, strings.Join(e.Chain, " -> "))
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// ConstructorError reports a constructor that cannot be analysed.
type ConstructorError struct {
	Constructor string
	Reason      string
}

func (e *ConstructorError) Error() string {
	return fmt.Sprintf("container: invalid constructor %s: %s", e.Constructor, e.Reason)
}

func (e *ConstructorError) Is(target error) bool { return target == ErrInvalidConstructor }

// IsResolutionError reports whether err is a binding resolution failure.
func IsResolutionError(err error) bool {
	return errors.Is(err, ErrBindingResolution)
}

// IsCircular reports whether err is a circular dependency failure.
func IsCircular(err error) bool {
	return errors.Is(err, ErrCircularDependency)
}
