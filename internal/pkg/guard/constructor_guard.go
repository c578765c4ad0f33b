// Package guard provides the constructor-guard pattern used by domain objects
// to ensure they are only created through their designated constructors.
// A zero-value struct carries a zero-value guard and fails validation, which
// prevents accidental use of objects that bypassed invariant checks.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guard is in its
// zero value and the caller did not supply a more specific error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed. Embed one in a
// domain struct and initialize it with NewConstructorGuard inside the
// constructor; Validate then distinguishes constructed objects from zero
// values.
//
// Example:
//
//	type Otp struct {
//	    code  string
//	    guard guard.ConstructorGuard
//	}
//
//	func NewOtp() Otp {
//	    return Otp{code: generate(), guard: guard.NewConstructorGuard()}
//	}
//
//	func (o Otp) Validate() error {
//	    return o.guard.Validate(ErrOtpIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard that marks its holder as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the holder was created through its constructor.
// For a zero-value guard it returns err, or ErrDefaultConstructorGuard when
// err is nil.
func (g ConstructorGuard) Validate(err error) error {
	if g.isConstructed {
		return nil
	}
	if err == nil {
		return ErrDefaultConstructorGuard
	}
	return err
}
