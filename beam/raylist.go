package beam

import "github.com/gazed/optrace/math/lin"

// Ray is the logical per-ray record the engine's push/get API works
// with, independent of how the beam currently stores it (spec §4.1:
// "origin, direction, length, cumOptLength, wavelength, refNdx, id,
// chief flag, intercepted flag").
type Ray struct {
	Origin       lin.V3
	Direction    lin.V3
	Length       float64
	CumOptLength float64
	Wavelength   float64
	RefNdx       float64
	Amplitude    complex128
	ID           int64
	Chief        bool
	Intercepted  bool
}

// DefaultWavelength is the engine's default ray wavelength in meters
// (555nm, spec §3.10).
const DefaultWavelength = 555e-9

// LoadRays allocates the beam to len(rays) and populates origins,
// directions, and scalar fields from the logical list, clearing the
// prune and interception masks (every pushed ray exists) and then
// setting each ray's chief and intercepted bits from its Chief and
// Intercepted fields — the "toBeam" conversion the engine's castTo runs when raysDirty (spec
// §4.3).
func (b *RayBeam) LoadRays(rays []Ray) {
	b.Allocate(len(rays))
	b.ClearMask()
	b.UninterceptAll()
	for i, r := range rays {
		b.origins[i] = r.Origin
		b.directions[i] = r.Direction
		b.lengths[i] = r.Length
		b.cumOptLengths[i] = r.CumOptLength
		wl := r.Wavelength
		if wl == 0 {
			wl = DefaultWavelength
		}
		b.wavelengths[i] = wl
		refNdx := r.RefNdx
		if refNdx == 0 {
			refNdx = 1.0
		}
		b.refNdx[i] = refNdx
		amp := r.Amplitude
		if amp == 0 {
			amp = 1
		}
		b.amplitude[i] = amp
		b.ids[i] = r.ID
		b.SetChief(i, r.Chief)
		b.SetIntercepted(i, r.Intercepted)
	}
}

// ToRays rebuilds the logical ray list from the beam's current state —
// the "getRays" conversion. When keepPruned is false, pruned
// (non-existing) rays are omitted.
func (b *RayBeam) ToRays(keepPruned bool) []Ray {
	out := make([]Ray, 0, b.count)
	for i := 0; i < b.count; i++ {
		if !keepPruned && !b.HasRay(i) {
			continue
		}
		out = append(out, Ray{
			Origin:       b.origins[i],
			Direction:    b.directions[i],
			Length:       b.lengths[i],
			CumOptLength: b.cumOptLengths[i],
			Wavelength:   b.wavelengths[i],
			RefNdx:       b.refNdx[i],
			Amplitude:    b.amplitude[i],
			ID:           b.ids[i],
			Chief:        b.IsChief(i),
			Intercepted:  b.IsIntercepted(i),
		})
	}
	return out
}
