package optics

import "github.com/gazed/optrace/math/lin"

// RaySlice is the narrow view a MediumBoundary/EMInterface needs onto a
// run of rays in order to cast and transmit them. It is satisfied
// structurally (no import of this package is required) by
// beam.RayBeamSlice, which lives in a package that depends on optics
// rather than the other way around — optics sits below RayBeam in the
// dependency order of the system (spec §2), so it can only describe what
// it needs of a ray run, not the concrete SoA storage.
//
// All per-ray reads/writes are local-frame: callers are responsible for
// rotating origins/directions into the surface's local frame (and back)
// around the Cast/Transmit calls, matching the engine's
// cast(surface,beam)/transmit(surface,beam) contract.
type RaySlice interface {
	Len() int
	Alive(i int) bool
	IsChief(i int) bool

	Origin(i int) lin.V3
	Direction(i int) lin.V3
	SetDirection(i int, v lin.V3)
	Destination(i int) lin.V3
	SetDestination(i int, v lin.V3)
	SetNormal(i int, v lin.V3)
	Normal(i int) lin.V3

	Length(i int) float64
	SetLength(i int, t float64)
	IsIntercepted(i int) bool
	SetIntercepted(i int, v bool)
	Prune(i int)

	RefNdx(i int) float64
	SetRefNdx(i int, v float64)
	CumOptLength(i int) float64
	SetCumOptLength(i int, v float64)
	Amplitude(i int) complex128
	SetAmplitude(i int, v complex128)
	Wavelength(i int) float64
}
