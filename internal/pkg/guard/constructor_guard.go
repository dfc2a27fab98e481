// Package guard provides ConstructorGuard, a marker embedded in value objects,
// aggregates and commands to tell constructed instances from zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures value objects and entities are only created through
// their designated constructor functions. The zero value is "not constructed".
//
// Example usage:
//
//	type Window struct {
//	    start kernel.TimeOfDay
//	    guard guard.ConstructorGuard
//	}
//
//	func NewWindow(...) (Window, error) {
//	    return Window{start: start, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (w Window) Validate() error {
//	    return w.guard.Validate(ErrWindowIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks an object as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guarded object was not created through its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
