// Package common defines shared constants and sentinel errors used across
// the photoshare service layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Trigger-level errors (event could not be interpreted at all).
	ErrorMalformedEvent = errors.New("malformed event")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
)
