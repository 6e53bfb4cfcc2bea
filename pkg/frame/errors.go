package frame

import (
	"errors"
	"fmt"
)

// Frame errors.
var (
	ErrEmptyGeometry     = errors.New("mesh has no parseable vertex")
	ErrInvalidDescriptor = errors.New("invalid frame descriptor")
)

// EmptyGeometryError is returned when a mesh has no vertex to build a frame from.
type EmptyGeometryError struct {
	Records   int // records read
	Malformed int // vertex records that failed to parse
}

func (e *EmptyGeometryError) Error() string {
	return fmt.Sprintf("%v: %d records, %d malformed vertex records", ErrEmptyGeometry, e.Records, e.Malformed)
}

// Is reports whether target is ErrEmptyGeometry.
func (e *EmptyGeometryError) Is(target error) bool {
	return target == ErrEmptyGeometry
}
