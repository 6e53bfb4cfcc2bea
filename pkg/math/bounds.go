package math

import (
	"fmt"
	"math"
)

// Bounds3 is an axis-aligned bounding box. The zero value is not empty;
// use EmptyBounds3 before extending.
type Bounds3 struct {
	Min, Max Vec3
}

// EmptyBounds3 returns a box that any Extend call will replace.
func EmptyBounds3() Bounds3 {
	inf := math.Inf(1)
	return Bounds3{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether no point has been added.
func (b Bounds3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend returns the box grown to include p.
func (b Bounds3) Extend(p Vec3) Bounds3 {
	return Bounds3{
		Min: Vec3{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)},
		Max: Vec3{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)},
	}
}

// Width returns the X extent.
func (b Bounds3) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the Y extent (north-south in a projected CRS).
func (b Bounds3) Height() float64 { return b.Max.Y - b.Min.Y }

// Depth returns the Z extent.
func (b Bounds3) Depth() float64 { return b.Max.Z - b.Min.Z }

// Center returns the midpoint of the box.
func (b Bounds3) Center() Vec3 {
	return Vec3{
		(b.Min.X + b.Max.X) / 2,
		(b.Min.Y + b.Max.Y) / 2,
		(b.Min.Z + b.Max.Z) / 2,
	}
}

// String formats the box for error messages and logs.
func (b Bounds3) String() string {
	return fmt.Sprintf("X=[%.6f, %.6f] Y=[%.6f, %.6f] Z=[%.6f, %.6f]",
		b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z)
}
