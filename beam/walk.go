package beam

import (
	"fmt"

	"github.com/gazed/optrace/element"
	"github.com/gazed/optrace/math/lin"
)

// Walk iterates the beam as contiguous slices grouped by the "effective
// surface" at each index: for a sequential beam, surf is constant so the
// whole beam is one slice (filtered by include); for a non-sequential
// beam, the effective surface is the ray's recorded surfaces[i] when the
// ray is alive, else none. Each maximal run of equal effective surfaces
// is passed to fn(surf, slice).
//
// Grounded on gazed-vu/physics/broad.go's simulation-island bookkeeping
// style: group indices sharing a key, then process each run once.
func (b *RayBeam) Walk(surf *element.OpticalSurface, fn func(*element.OpticalSurface, *RayBeamSlice), include func(i int) bool) {
	if b.sequential {
		start := -1
		for i := 0; i <= b.count; i++ {
			in := i < b.count && (include == nil || include(i))
			if in && start < 0 {
				start = i
			} else if !in && start >= 0 {
				fn(surf, b.Slice(start, i))
				start = -1
			}
		}
		return
	}

	effective := func(i int) *element.OpticalSurface {
		if !b.HasRay(i) {
			return nil
		}
		return b.surfaces[i]
	}

	start := 0
	for start < b.count {
		cur := effective(start)
		end := start + 1
		for end < b.count && effective(end) == cur {
			end++
		}
		if cur != nil {
			fn(cur, b.Slice(start, end))
		}
		start = end
	}
}

// ExtractFlags controls ExtractRays' point-of-view, category selection,
// coordinate conversion, and exclusion behavior (spec §4.2
// extractRays<Container>).
type ExtractFlags uint8

const (
	OriginPOV ExtractFlags = 1 << iota
	DestinationPOV
	ExtractIntercepted
	ExtractVignetted
	BeamIsSurfaceRelative
	RayShouldBeSurfaceRelative
	ExcludeBeam
)

func (f ExtractFlags) has(bit ExtractFlags) bool { return f&bit != 0 }

// ExtractedRay is one row emitted by ExtractRays.
type ExtractedRay struct {
	ID         int64
	Point      lin.V3
	Direction  lin.V3
	Length     float64
	Wavelength float64
	Amplitude  complex128
}

// ExtractRays filters slice's alive rays with length above
// RZBeamMinimumWavelength into dst, honoring flags. Exactly one POV bit
// and at least one Extract bit must be set. When a coordinate conversion
// is requested (BeamIsSurfaceRelative and RayShouldBeSurfaceRelative
// disagree), either the beam must be non-sequential (so each ray's own
// recorded surface is available) or surface must be non-nil.
func ExtractRays(dst *[]ExtractedRay, slice *RayBeamSlice, flags ExtractFlags, surface *element.OpticalSurface, excludeSlice *RayBeamSlice) error {
	wantOrigin := flags.has(OriginPOV)
	wantDest := flags.has(DestinationPOV)
	if wantOrigin == wantDest {
		return fmt.Errorf("beam: ExtractRays requires exactly one of OriginPOV/DestinationPOV")
	}
	if !flags.has(ExtractIntercepted) && !flags.has(ExtractVignetted) {
		return fmt.Errorf("beam: ExtractRays requires at least one of ExtractIntercepted/ExtractVignetted")
	}
	needsConversion := flags.has(BeamIsSurfaceRelative) != flags.has(RayShouldBeSurfaceRelative)
	b := slice.beam
	if needsConversion && b.sequential && surface == nil {
		return fmt.Errorf("beam: ExtractRays coordinate conversion requires a non-sequential beam or an explicit surface")
	}

	for i := 0; i < slice.Len(); i++ {
		abs := slice.abs(i)
		if !b.HasRay(abs) {
			continue
		}
		length := b.lengths[abs]
		if length <= RZBeamMinimumWavelength {
			continue
		}
		if flags.has(ExcludeBeam) && excludeSlice != nil && i < excludeSlice.Len() && excludeSlice.Alive(i) {
			continue
		}
		intercepted := b.IsIntercepted(abs)
		selected := (flags.has(ExtractIntercepted) && intercepted) || (flags.has(ExtractVignetted) && !intercepted)
		if !selected {
			continue
		}

		var point lin.V3
		if wantOrigin {
			point = b.origins[abs]
		} else {
			point = b.destinations[abs]
		}
		dir := b.directions[abs]

		if needsConversion {
			s := surface
			if !b.sequential {
				if b.surfaces[abs] == nil {
					continue
				}
				s = b.surfaces[abs]
			}
			if flags.has(RayShouldBeSurfaceRelative) {
				point = s.Frame.ToRelative(point)
				dir = s.Frame.ToRelativeVec(dir)
			} else {
				point = s.Frame.FromRelative(point)
				dir = s.Frame.FromRelativeVec(dir)
			}
		}

		*dst = append(*dst, ExtractedRay{
			ID:         b.ids[abs],
			Point:      point,
			Direction:  dir,
			Length:     length,
			Wavelength: b.wavelengths[abs],
			Amplitude:  b.amplitude[abs],
		})
	}
	return nil
}

// ComputeInterceptStatistics aggregates intercepted/vignetted/pruned
// counters into surface's Stats (replacing them with this evaluation's
// totals — see DESIGN.md's pruned-ray accounting decision: pruned counts
// every non-existing ray observed at evaluation time, not just
// newly-pruned-this-surface ones), and, if surface.RecordHits is set,
// appends every intercepted ray (Destination POV, surface-relative) to
// surface.Hits. In sequential mode every ray in the beam is attributed
// to surface (it is the only surface in play during this cast); in
// non-sequential mode only rays whose recorded surfaces[i] is surface
// are attributed to it.
func (b *RayBeam) ComputeInterceptStatistics(surface *element.OpticalSurface) {
	var stats element.SurfaceStatistics
	for i := 0; i < b.count; i++ {
		if !b.sequential && b.surfaces[i] != surface {
			continue
		}
		switch {
		case !b.HasRay(i):
			stats.Pruned++
		case b.IsIntercepted(i):
			stats.Intercepted++
			if surface.RecordHits {
				loc := surface.Frame.ToRelative(b.destinations[i])
				dir := surface.Frame.ToRelativeVec(b.directions[i])
				surface.AppendHit(element.Hit{RayID: b.ids[i], Location: loc, Direction: dir})
			}
		default:
			stats.Vignetted++
		}
	}
	surface.Stats = stats
}
