package errors

import (
	"context"
	stderrors "errors"
)

// KindOf extracts the Kind from an error chain. Context deadline expiry is
// classified as KindTimeout even when no AppError wraps it. Returns the
// empty Kind for errors outside the taxonomy.
func KindOf(err error) Kind {
	var app *AppError
	if stderrors.As(err, &app) {
		return app.Kind
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return ""
}

// IsKind reports whether err carries the given Kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ViolationsOf returns the aggregated violations from a validation error,
// or nil if err is not a validation failure.
func ViolationsOf(err error) []Violation {
	var app *AppError
	if stderrors.As(err, &app) {
		return app.Violations
	}
	return nil
}
