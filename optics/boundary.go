package optics

import "github.com/gazed/optrace/math/lin"

// MediumBoundary aggregates one Shape and one EMInterface, and applies a
// clipping rectangle on top of the shape's own intercept test. Clipping
// prunes rays whose intersection falls outside the rectangle even when the
// underlying Shape (e.g. an InfinitePlane) would have accepted them.
//
// Grounded on gazed-vu/physics/shape.go's Shape+Body composition (a body
// pairs a shape with a transform) generalized here to pair a Shape with an
// EMInterface instead of a rigid-body transform.
type MediumBoundary struct {
	Shape  Shape
	EM     *EMInterface
	Name   string
	Infinite bool // true: skip clip-rectangle test entirely.
	Hx, Hy float64 // clip half-width/half-height; used only if !Infinite.

	// Reversible marks a boundary usable when traversed from either side
	// (e.g. a thin lens), as opposed to surfaces with a preferred
	// direction (mirrors back-coated on one face).
	Reversible bool
}

// NewMediumBoundary builds a boundary with the shape's own half-extents as
// the clip rectangle (Infinite=false); callers that want no clipping
// beyond the shape itself should set Infinite=true afterward.
func NewMediumBoundary(shape Shape, em *EMInterface) *MediumBoundary {
	hx, hy := shape.HalfExtents()
	return &MediumBoundary{Shape: shape, EM: em, Hx: hx, Hy: hy}
}

// Cast intersects every alive ray in slice against the boundary's shape,
// in the shape's local frame. Missed or clipped rays are marked
// non-intercepted; non-chief missed rays are pruned (spec §4.3 cast
// contract). Lengths at or below minWavelength are treated as missed.
func (b *MediumBoundary) Cast(slice RaySlice, minWavelength float64) {
	for i := 0; i < slice.Len(); i++ {
		if !slice.Alive(i) {
			continue
		}
		origin := slice.Origin(i)
		dir := slice.Direction(i)

		var hit, normal lin.V3
		var t float64
		ok := b.Shape.Intercept(&origin, &dir, &hit, &normal, &t)
		if ok && t <= minWavelength {
			ok = false
		}
		if ok && !b.Infinite {
			if hit.X < -b.Hx || hit.X > b.Hx || hit.Y < -b.Hy || hit.Y > b.Hy {
				ok = false
			}
		}

		if !ok {
			slice.SetIntercepted(i, false)
			if !slice.IsChief(i) {
				slice.Prune(i)
			}
			continue
		}

		slice.SetDestination(i, hit)
		slice.SetNormal(i, normal)
		slice.SetLength(i, t)
		slice.SetIntercepted(i, true)
	}
}

// Transmit delegates to the boundary's EMInterface.
func (b *MediumBoundary) Transmit(slice RaySlice) {
	b.EM.Transmit(slice)
}
