// Package errs provides standardized error types for the dispatch core.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: for when a required value is missing
//   - ValueIsInvalidError: for when a value is invalid
//   - ValueIsOutOfRangeError: for when a numeric value leaves its interval
//   - ObjectNotFoundError: for when an object cannot be found
//   - VersionConflictError: for when a guarded update loses a race
//
// Each error type follows a consistent pattern:
//   - a sentinel error variable (e.g. ErrObjectNotFound)
//   - a struct type with fields for error details
//   - constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is classifies against the sentinel
//
// Domain-specific failures (invalid transitions, lost offers, wrong OTP) are
// plain sentinel errors declared next to the aggregates they belong to; this
// package only carries the cross-cutting shapes.
package errs
