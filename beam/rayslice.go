package beam

import (
	"github.com/gazed/optrace/math/lin"
	"github.com/gazed/optrace/optics"
)

var _ optics.RaySlice = (*RayBeamSlice)(nil)

// RayBeamSlice is a half-open index range [start, end) over a RayBeam.
// It implements optics.RaySlice (checked at compile time by the var
// declaration above) — beam depends on optics, not the reverse, and the
// engine passes RayBeamSlices to MediumBoundary.Cast/Transmit through
// that interface.
type RayBeamSlice struct {
	beam       *RayBeam
	start, end int
}

// Len returns the number of indices in the slice.
func (s *RayBeamSlice) Len() int { return s.end - s.start }

func (s *RayBeamSlice) abs(i int) int { return s.start + i }

func (s *RayBeamSlice) Alive(i int) bool   { return s.beam.HasRay(s.abs(i)) }
func (s *RayBeamSlice) IsChief(i int) bool { return s.beam.IsChief(s.abs(i)) }

func (s *RayBeamSlice) Origin(i int) lin.V3          { return s.beam.Origin(s.abs(i)) }
func (s *RayBeamSlice) Direction(i int) lin.V3       { return s.beam.Direction(s.abs(i)) }
func (s *RayBeamSlice) SetDirection(i int, v lin.V3) { s.beam.SetDirection(s.abs(i), v) }
func (s *RayBeamSlice) Destination(i int) lin.V3     { return s.beam.Destination(s.abs(i)) }
func (s *RayBeamSlice) SetDestination(i int, v lin.V3) {
	s.beam.SetDestination(s.abs(i), v)
}
func (s *RayBeamSlice) SetNormal(i int, v lin.V3) { s.beam.SetNormal(s.abs(i), v) }
func (s *RayBeamSlice) Normal(i int) lin.V3       { return s.beam.Normal(s.abs(i)) }

func (s *RayBeamSlice) Length(i int) float64       { return s.beam.Length(s.abs(i)) }
func (s *RayBeamSlice) SetLength(i int, t float64) { s.beam.SetLength(s.abs(i), t) }
func (s *RayBeamSlice) IsIntercepted(i int) bool   { return s.beam.IsIntercepted(s.abs(i)) }
func (s *RayBeamSlice) SetIntercepted(i int, v bool) {
	s.beam.SetIntercepted(s.abs(i), v)
}
func (s *RayBeamSlice) Prune(i int) { s.beam.Prune(s.abs(i)) }

func (s *RayBeamSlice) RefNdx(i int) float64       { return s.beam.RefNdx(s.abs(i)) }
func (s *RayBeamSlice) SetRefNdx(i int, v float64) { s.beam.SetRefNdx(s.abs(i), v) }
func (s *RayBeamSlice) CumOptLength(i int) float64 { return s.beam.CumOptLength(s.abs(i)) }
func (s *RayBeamSlice) SetCumOptLength(i int, v float64) {
	s.beam.SetCumOptLength(s.abs(i), v)
}
func (s *RayBeamSlice) Amplitude(i int) complex128 { return s.beam.Amplitude(s.abs(i)) }
func (s *RayBeamSlice) SetAmplitude(i int, v complex128) {
	s.beam.SetAmplitude(s.abs(i), v)
}
func (s *RayBeamSlice) Wavelength(i int) float64 { return s.beam.Wavelength(s.abs(i)) }

// Beam returns the slice's underlying RayBeam.
func (s *RayBeamSlice) Beam() *RayBeam { return s.beam }

// Start returns the slice's absolute start index.
func (s *RayBeamSlice) Start() int { return s.start }
