// Package optics implements the bounded-surface geometry and
// electromagnetic-interface primitives that a ray strikes as it is cast
// through an optical system: SurfaceShape, EMInterface, and the
// MediumBoundary that aggregates them.
package optics

import (
	"math"

	"github.com/gazed/optrace/math/lin"
)

// Shape is a bounded 2-D surface expressed in its own local frame, centered
// at the frame origin with its outward normal nominally along +Z. Shapes do
// not allocate per-call; callers supply the output vectors to fill.
//
// Grounded on gazed-vu/physics/shape.go's Shape interface and concrete
// box/sphere/plane types, generalized from collision volumes to bounded
// optical caps. Callers reach every shape through these interface
// methods; no lookup table keys on ShapeKind.
type Shape interface {
	// Kind returns the shape's tag. No code in the module dispatches on
	// it.
	Kind() ShapeKind

	// Area returns the surface area of the shape, used by flux-normalized
	// sampling and some detector statistics.
	Area() float64

	// Intercept finds the first forward intersection of a ray, given in
	// local coordinates by origin and direction dir (not required to be
	// unit length), with this shape. On success it writes the hit point,
	// the outward unit normal, and the ray parameter t (distance along
	// dir, scaled by |dir|) and returns true. It never allocates.
	Intercept(origin, dir *lin.V3, hit, normal *lin.V3, t *float64) bool

	// GeneratePoints fills outPts/outNormals (both length N, caller
	// allocated) with a roughly uniform sample of N points on the shape's
	// surface and their outward normals, expressed in the local frame.
	GeneratePoints(n int, outPts, outNormals []lin.V3)

	// HalfExtents returns the shape's bounding half-width/half-height in
	// its local XY plane, used by NewMediumBoundary as the default clip
	// rectangle. TransmissionMap carries its own extents and does not
	// read these.
	HalfExtents() (hx, hy float64)
}

// ShapeKind tags the concrete variant of a Shape, as reported by
// Shape.Kind.
type ShapeKind int

const (
	KindCircular ShapeKind = iota
	KindAnnular
	KindRectangular
	KindSphericalCap
	KindParabolicCap
	KindConicCap
	KindInfinitePlane
)

func (k ShapeKind) String() string {
	switch k {
	case KindCircular:
		return "circular"
	case KindAnnular:
		return "annular"
	case KindRectangular:
		return "rectangular"
	case KindSphericalCap:
		return "spherical-cap"
	case KindParabolicCap:
		return "parabolic-cap"
	case KindConicCap:
		return "conic-cap"
	case KindInfinitePlane:
		return "infinite-plane"
	default:
		return "unknown"
	}
}

// sagInterceptPlane intersects a ray with the z=0 plane through the local
// origin, oriented by normal (0,0,1). Adapted from castRayPlane: same
// denom-sign rejection (plane behind the ray or ray parallel to it), same
// scratch-free scaling-by-distance reconstruction of the hit point.
func sagInterceptPlane(origin, dir *lin.V3, hit, normal *lin.V3, t *float64) bool {
	denom := dir.Z
	if lin.AeqZ(denom) {
		return false // ray parallel to the z=0 plane.
	}
	dlen := -origin.Z / denom
	if dlen < 0 {
		return false // plane is behind the ray origin.
	}
	hit.X = origin.X + dir.X*dlen
	hit.Y = origin.Y + dir.Y*dlen
	hit.Z = 0
	normal.SetS(0, 0, 1)
	*t = dlen
	return true
}

// radialExtent reports whether the local-frame point p falls within radius
// rOuter and, if rInner > 0, outside radius rInner (an annulus test).
func radialExtent(x, y, rInner, rOuter float64) bool {
	r2 := x*x + y*y
	if r2 > rOuter*rOuter {
		return false
	}
	if rInner > 0 && r2 < rInner*rInner {
		return false
	}
	return true
}

// uniformDiskSample fills n points with a low-discrepancy-free but
// area-uniform sample of the disk of radius r (annulus if rInner>0), using
// the sqrt-radius trick so the radial density compensates for the growing
// circumference, then normals set to +Z (the caller orients/translates).
func uniformDiskSample(n int, rInner, rOuter float64, outPts, outNormals []lin.V3) {
	if n <= 0 {
		return
	}
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := 0; i < n; i++ {
		frac := (float64(i) + 0.5) / float64(n)
		r := math.Sqrt(rInner*rInner + frac*(rOuter*rOuter-rInner*rInner))
		theta := float64(i) * golden
		outPts[i].SetS(r*math.Cos(theta), r*math.Sin(theta), 0)
		outNormals[i].SetS(0, 0, 1)
	}
}
