package engine

import "errors"

var (
	// ErrInvalidArgument is returned when a constructor receives geometry it
	// cannot build (non-positive extents, too few vertices, bad speed bounds).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPreconditionViolation is returned for out-of-range display file indices.
	ErrPreconditionViolation = errors.New("precondition violation")

	// ErrNoCenter is returned by CenterOf for shapes without a center.
	ErrNoCenter = errors.New("shape has no center")

	// ErrUnknownKind is returned by the registry for unregistered shape kinds.
	ErrUnknownKind = errors.New("unknown shape kind")
)
