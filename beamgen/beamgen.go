// Package beamgen synthesizes parametric ray lists for the common source
// shapes a model needs to seed a trace: collimated, focused, sky (diffuse),
// planar, and element-relative sources. Every generator works only from
// its frame, size parameters, and a caller-owned *lin.RandomState — it
// never reads or mutates package-level state, so beam generation stays
// reproducible alongside a CompositeModel's own per-model PRNG discipline.
// ElementRelative is the one generator that changes its input: it attaches
// a new child frame to the element's frame on every call.
package beamgen

import (
	"math"

	"github.com/gazed/optrace/beam"
	"github.com/gazed/optrace/element"
	"github.com/gazed/optrace/frame"
	"github.com/gazed/optrace/math/lin"
)

func newRay(origin, direction lin.V3, id int64) beam.Ray {
	return beam.Ray{
		Origin:     origin,
		Direction:  direction,
		Wavelength: beam.DefaultWavelength,
		RefNdx:     1,
		ID:         id,
		Chief:      id == 0,
	}
}

// jitter returns a small angular offset so stratified points don't land on
// exactly repeatable grid lines across calls, without disturbing the
// invariant a caller relies on (e.g. a fixed ring radius). Returns 0 for a
// nil RandomState so generators stay usable in deterministic tests.
func jitter(rand *lin.RandomState, n int) float64 {
	if rand == nil || n <= 0 {
		return 0
	}
	return (rand.Uniform() - 0.5) * (math.Pi / float64(n))
}

// Collimated returns n rays parallel to f's local +Z axis, with origins
// stratified evenly in angle around a ring of the given radius. Ray index
// 0 is tagged Chief. Angle is jittered per-point, radius is not, so a
// caller measuring the beam's ring diameter or f/# from the result sees
// exactly the radius passed in.
func Collimated(f *frame.Frame, radius float64, n int, rand *lin.RandomState) []beam.Ray {
	rays := make([]beam.Ray, n)
	dir := f.FromRelativeVec(lin.V3{Z: 1})
	for i := 0; i < n; i++ {
		angle := 2*math.Pi*float64(i)/float64(n) + jitter(rand, n)
		local := lin.V3{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
		rays[i] = newRay(f.FromRelative(local), dir, int64(i))
	}
	return rays
}

// Focused returns n rays starting on a ring of apertureRadius and
// converging on a single point targetDistance along f's local +Z axis —
// a point-source/focus test source.
func Focused(f *frame.Frame, apertureRadius, targetDistance float64, n int, rand *lin.RandomState) []beam.Ray {
	rays := make([]beam.Ray, n)
	target := f.FromRelative(lin.V3{Z: targetDistance})
	for i := 0; i < n; i++ {
		angle := 2*math.Pi*float64(i)/float64(n) + jitter(rand, n)
		local := lin.V3{X: apertureRadius * math.Cos(angle), Y: apertureRadius * math.Sin(angle)}
		origin := f.FromRelative(local)
		var dir lin.V3
		dir.Sub(&target, &origin)
		dir.Unit()
		rays[i] = newRay(origin, dir, int64(i))
	}
	return rays
}

// Sky returns n rays, all originating at f's local center, with directions
// jittered within angularRadius (radians) of the direction given by
// azimuth/elevation (radians, measured in f's local frame) — a diffuse,
// extended-source illumination model.
func Sky(f *frame.Frame, azimuth, elevation, angularRadius float64, n int, rand *lin.RandomState) []beam.Ray {
	rays := make([]beam.Ray, n)

	base := lin.V3{
		X: math.Cos(elevation) * math.Sin(azimuth),
		Y: math.Sin(elevation),
		Z: math.Cos(elevation) * math.Cos(azimuth),
	}
	base.Unit()

	// orthonormal (u, w) basis tangent to base, for sampling within the cone.
	up := lin.V3{Y: 1}
	if math.Abs(base.Dot(&up)) > 0.999 {
		up = lin.V3{X: 1}
	}
	var u, w lin.V3
	u.Cross(&up, &base)
	u.Unit()
	w.Cross(&base, &u)

	origin := f.Center()
	for i := 0; i < n; i++ {
		r := angularRadius
		if rand != nil {
			r *= math.Sqrt(rand.Uniform())
		}
		theta := 2*math.Pi*float64(i)/float64(n) + jitter(rand, n)

		var du, dw, tilt, local lin.V3
		du.Scale(&u, r*math.Cos(theta))
		dw.Scale(&w, r*math.Sin(theta))
		tilt.Add(&du, &dw)
		local.Add(&base, &tilt)
		local.Unit()

		rays[i] = newRay(origin, f.FromRelativeVec(local), int64(i))
	}
	return rays
}

// Plane returns n rays launched perpendicular to a rectangular patch of
// the given width/height in f's local XY plane, origins stratified across
// the patch in a roughly square grid, direction along f's local +Z.
func Plane(f *frame.Frame, width, height float64, n int, rand *lin.RandomState) []beam.Ray {
	rays := make([]beam.Ray, n)
	dir := f.FromRelativeVec(lin.V3{Z: 1})
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}
	for i := 0; i < n; i++ {
		gx := (float64(i%cols) + 0.5) / float64(cols)
		gy := (float64(i/cols) + 0.5) / float64(cols)
		if rand != nil {
			gx += (rand.Uniform() - 0.5) / float64(cols)
			gy += (rand.Uniform() - 0.5) / float64(cols)
		}
		local := lin.V3{X: width * (gx - 0.5), Y: height * (gy - 0.5)}
		rays[i] = newRay(f.FromRelative(local), dir, int64(i))
	}
	return rays
}

// ElementRelative returns a collimated beam sourced from a frame translated
// by offset relative to el's own frame — a source defined relative to an
// existing optical element rather than a bare frame. Each call attaches a
// new child frame named "__beamgenSource" to el's frame; the child stays
// in that frame's Children list.
func ElementRelative(el *element.OpticalElement, offset lin.V3, radius float64, n int, rand *lin.RandomState) []beam.Ray {
	src := frame.NewTranslated(el.Frame(), "__beamgenSource", offset)
	src.Recalculate()
	return Collimated(src, radius, n, rand)
}
