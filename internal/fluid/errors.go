package fluid

import "errors"

// Domain errors for simulator operations.
var (
	// ErrInvalidTimestep indicates a non-finite or non-positive dt.
	// The step is rejected before any pipeline stage runs.
	ErrInvalidTimestep = errors.New("fluid: timestep must be finite and positive")

	// ErrBadSeed indicates seed data that cannot be decoded.
	ErrBadSeed = errors.New("fluid: malformed seed")

	// ErrSeedVersion indicates a seed from an unknown format version.
	ErrSeedVersion = errors.New("fluid: unsupported seed version")
)
