// Package kerierr defines the shared error taxonomy used across the
// codec, mapping, storage, and delegation packages. These are kinds,
// not types: every package-level sentinel error wraps one of these so
// callers can dispatch on errors.Is regardless of which package raised
// it.
package kerierr

import "errors"

var (
	// ErrEmptyMaterial means an operation required input bytes/fields
	// and got none.
	ErrEmptyMaterial = errors.New("empty material")

	// ErrInvalidValue means the input was structurally parseable but
	// semantically inconsistent: bad code, wrong type, SAID mismatch.
	ErrInvalidValue = errors.New("invalid value")

	// ErrDeserialize means bytes cannot be parsed: truncation, unknown
	// counter, malformed primitive.
	ErrDeserialize = errors.New("deserialize error")

	// ErrSerialize means an in-memory structure cannot be encoded: a
	// non-serializable value, or a SAID field with a non-digestive code.
	ErrSerialize = errors.New("serialize error")

	// ErrValidation means a higher-level protocol violation: wrong
	// delegator, wrong proxy, completion SAID mismatch.
	ErrValidation = errors.New("validation error")

	// ErrDatabase means an engine or filesystem failure.
	ErrDatabase = errors.New("database error")
)
