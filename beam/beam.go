// Package beam implements RayBeam: struct-of-arrays storage for N rays
// with per-ray scalar/vector arrays and four parallel existence/
// interception/chief/previous-mask bitsets, plus the coordinate
// transforms, slice extraction, and non-sequential merge logic that the
// ray-tracing engine drives it with.
//
// The teacher has no direct analogue to a SoA ray beam; the layout
// follows the "flat arrays, scratch vectors, no per-ray allocation"
// discipline math/lin itself is built on, and the grouped-run iteration
// in Walk is grounded on gazed-vu/physics/broad.go's simulation-island
// bookkeeping (group indices by a shared key, process each run once).
package beam

import (
	"fmt"

	"github.com/gazed/optrace/element"
	"github.com/gazed/optrace/frame"
	"github.com/gazed/optrace/math/lin"
)

// RZBeamMinimumWavelength is the length gate below which an intercept is
// treated as a miss, and below which extractRays drops a ray (spec §3.10,
// §4.2).
const RZBeamMinimumWavelength = 1e-12

// RayBeam is struct-of-arrays storage for N rays. Capacity (len of the
// backing arrays) may exceed the logical Count; Allocate only ever grows
// it.
type RayBeam struct {
	count int

	origins      []lin.V3
	directions   []lin.V3
	destinations []lin.V3
	normals      []lin.V3

	lengths       []float64
	cumOptLengths []float64
	wavelengths   []float64
	refNdx        []float64
	ids           []int64
	amplitude     []complex128

	// surfaces records, per ray, which OpticalSurface last claimed the
	// ray's intersection. Populated only in non-sequential tracing.
	surfaces []*element.OpticalSurface

	mask      []uint64 // 1 = pruned/absent
	intMask   []uint64 // 1 = intercepted on this cast
	chiefMask []uint64 // 1 = chief ray, immune to vignetting
	prevMask  []uint64 // mask snapshot before the current cast

	// sequential marks the beam as following a single fixed path, the
	// mode ToRelative/FromRelative require (spec §4.2: "Only valid for
	// sequential beams (asserted)").
	sequential bool
}

// NewRayBeam returns an empty sequential beam.
func NewRayBeam() *RayBeam {
	b := &RayBeam{sequential: true}
	return b
}

// SetSequential marks whether the beam is operating in sequential
// (single fixed path, per-ray surfaces unused) or non-sequential
// (per-ray surfaces populated by updateFromVisible) mode.
func (b *RayBeam) SetSequential(v bool) { b.sequential = v }

// Sequential reports the beam's current tracing mode.
func (b *RayBeam) Sequential() bool { return b.sequential }

// Count returns the logical number of rays currently in use.
func (b *RayBeam) Count() int { return b.count }

// Capacity returns the allocated array length, which may exceed Count.
func (b *RayBeam) Capacity() int { return len(b.origins) }

func bitWords(n int) int { return (n + 63) / 64 }

// Allocate grows every array to at least n entries (capacity), never
// shrinks, and sets the logical Count to n. New trailing scalar/vector
// entries are zero-valued except refNdx, which defaults to 1.0; new
// trailing chiefMask bits are zero (not chief) same as every other
// bitset (spec §4.2 allocate(n)).
func (b *RayBeam) Allocate(n int) {
	if n < 0 {
		n = 0
	}
	cap0 := len(b.origins)
	if n > cap0 {
		grow := n - cap0
		b.origins = append(b.origins, make([]lin.V3, grow)...)
		b.directions = append(b.directions, make([]lin.V3, grow)...)
		b.destinations = append(b.destinations, make([]lin.V3, grow)...)
		b.normals = append(b.normals, make([]lin.V3, grow)...)
		b.lengths = append(b.lengths, make([]float64, grow)...)
		b.cumOptLengths = append(b.cumOptLengths, make([]float64, grow)...)
		b.wavelengths = append(b.wavelengths, make([]float64, grow)...)
		b.ids = append(b.ids, make([]int64, grow)...)
		b.amplitude = append(b.amplitude, make([]complex128, grow)...)
		b.surfaces = append(b.surfaces, make([]*element.OpticalSurface, grow)...)

		newRefNdx := make([]float64, grow)
		for i := range newRefNdx {
			newRefNdx[i] = 1.0
		}
		b.refNdx = append(b.refNdx, newRefNdx...)

		words0 := len(b.mask)
		words1 := bitWords(n)
		if words1 > words0 {
			wgrow := words1 - words0
			b.mask = append(b.mask, make([]uint64, wgrow)...)
			b.intMask = append(b.intMask, make([]uint64, wgrow)...)
			b.chiefMask = append(b.chiefMask, make([]uint64, wgrow)...)
			b.prevMask = append(b.prevMask, make([]uint64, wgrow)...)
		}
	}
	b.count = n
}

func bit(i int) uint64 { return uint64(1) << uint(i&63) }
func word(i int) int   { return i >> 6 }

func getBit(words []uint64, i int) bool { return words[word(i)]&bit(i) != 0 }
func setBit(words []uint64, i int)      { words[word(i)] |= bit(i) }
func clearBit(words []uint64, i int)    { words[word(i)] &^= bit(i) }

func fillBits(words []uint64, v bool) {
	var w uint64
	if v {
		w = ^uint64(0)
	}
	for i := range words {
		words[i] = w
	}
}

// HasRay reports whether ray i currently exists (is not pruned/absent).
func (b *RayBeam) HasRay(i int) bool { return !getBit(b.mask, i) }

// IsIntercepted reports whether ray i was intercepted on the current
// cast.
func (b *RayBeam) IsIntercepted(i int) bool { return getBit(b.intMask, i) }

// IsChief reports whether ray i is a chief ray (immune to vignetting).
func (b *RayBeam) IsChief(i int) bool { return getBit(b.chiefMask, i) }

// WasAlive reports whether ray i existed before the current cast
// (prevMask, captured by UpdateOrigins).
func (b *RayBeam) WasAlive(i int) bool { return !getBit(b.prevMask, i) }

// Prune marks ray i absent, unless it is a chief ray.
func (b *RayBeam) Prune(i int) {
	if !b.IsChief(i) {
		setBit(b.mask, i)
	}
}

// ClearChief clears ray i's chief flag (spec §9 REDESIGN FLAGS:
// RayBeam::unsetsetChiefRay renamed — behavior unambiguous, clear the
// chief bit — but the typo isn't preserved in the name).
func (b *RayBeam) ClearChief(i int) { clearBit(b.chiefMask, i) }

// SetIntercepted sets or clears ray i's interception bit for this cast.
func (b *RayBeam) SetIntercepted(i int, v bool) {
	if v {
		setBit(b.intMask, i)
	} else {
		clearBit(b.intMask, i)
	}
}

// SetChief sets or clears ray i's chief flag. Marking a ray chief also
// revives it (clears its prune bit), preserving the invariant
// isChief(i) ⇒ hasRay(i); clearing chief status does not itself prune
// the ray.
func (b *RayBeam) SetChief(i int, v bool) {
	if v {
		setBit(b.chiefMask, i)
		clearBit(b.mask, i)
	} else {
		clearBit(b.chiefMask, i)
	}
}

// PruneAll marks every ray absent, bypassing the chief exemption — the
// bulk reset the non-sequential trace loop runs before re-granting chief
// status (spec §4.3: "mainBeam.pruneAll(); set all chief").
func (b *RayBeam) PruneAll() { fillBits(b.mask, true) }

// SetAllChief marks every ray chief and alive.
func (b *RayBeam) SetAllChief() {
	fillBits(b.chiefMask, true)
	fillBits(b.mask, false)
}

// UninterceptAll clears every ray's interception bit.
func (b *RayBeam) UninterceptAll() { fillBits(b.intMask, false) }

// ClearMask clears every ray's prune bit (every ray exists).
func (b *RayBeam) ClearMask() { fillBits(b.mask, false) }

// UpdateOrigins publishes destinations as the new origins and snapshots
// mask into prevMask — the only legitimate way to advance a beam to the
// next surface (spec §5 ordering guarantees).
func (b *RayBeam) UpdateOrigins() {
	copy(b.origins[:b.count], b.destinations[:b.count])
	copy(b.prevMask, b.mask)
}

// Accessors/mutators used to satisfy optics.RaySlice through
// RayBeamSlice (see rayslice.go).

func (b *RayBeam) Origin(i int) lin.V3             { return b.origins[i] }
func (b *RayBeam) SetOrigin(i int, v lin.V3)       { b.origins[i] = v }
func (b *RayBeam) Direction(i int) lin.V3          { return b.directions[i] }
func (b *RayBeam) SetDirection(i int, v lin.V3)    { b.directions[i] = v }
func (b *RayBeam) Destination(i int) lin.V3        { return b.destinations[i] }
func (b *RayBeam) SetDestination(i int, v lin.V3)  { b.destinations[i] = v }
func (b *RayBeam) Normal(i int) lin.V3             { return b.normals[i] }
func (b *RayBeam) SetNormal(i int, v lin.V3)       { b.normals[i] = v }
func (b *RayBeam) Length(i int) float64            { return b.lengths[i] }
func (b *RayBeam) SetLength(i int, t float64)      { b.lengths[i] = t }
func (b *RayBeam) RefNdx(i int) float64            { return b.refNdx[i] }
func (b *RayBeam) SetRefNdx(i int, v float64)      { b.refNdx[i] = v }
func (b *RayBeam) CumOptLength(i int) float64      { return b.cumOptLengths[i] }
func (b *RayBeam) SetCumOptLength(i int, v float64) { b.cumOptLengths[i] = v }
func (b *RayBeam) Amplitude(i int) complex128       { return b.amplitude[i] }
func (b *RayBeam) SetAmplitude(i int, v complex128) { b.amplitude[i] = v }
func (b *RayBeam) Wavelength(i int) float64         { return b.wavelengths[i] }
func (b *RayBeam) SetWavelength(i int, v float64)   { b.wavelengths[i] = v }
func (b *RayBeam) ID(i int) int64                   { return b.ids[i] }
func (b *RayBeam) SetID(i int, v int64)             { b.ids[i] = v }
func (b *RayBeam) Surface(i int) *element.OpticalSurface      { return b.surfaces[i] }
func (b *RayBeam) SetSurface(i int, s *element.OpticalSurface) { b.surfaces[i] = s }

// Slice returns a RayBeamSlice over the half-open range [start, end).
func (b *RayBeam) Slice(start, end int) *RayBeamSlice {
	if start < 0 || end > b.count || start > end {
		panic(fmt.Sprintf("beam: invalid slice [%d,%d) over count %d", start, end, b.count))
	}
	return &RayBeamSlice{beam: b, start: start, end: end}
}

// Whole returns a slice over the entire logical beam.
func (b *RayBeam) Whole() *RayBeamSlice { return b.Slice(0, b.count) }

// ToRelative rewrites every alive ray's origin/destination/direction
// into plane's local frame. Only valid for sequential beams — the whole
// beam shares one frame only when it follows a single fixed path.
func (b *RayBeam) ToRelative(plane *frame.Frame) {
	if !b.sequential {
		panic("beam: ToRelative requires a sequential beam")
	}
	b.ToRelativeRange(plane, 0, b.count)
}

// FromRelative is the inverse of ToRelative, applied to every alive ray.
func (b *RayBeam) FromRelative(plane *frame.Frame) {
	if !b.sequential {
		panic("beam: FromRelative requires a sequential beam")
	}
	b.FromRelativeRange(plane, 0, b.count)
}

// ToRelativeRange is ToRelative restricted to the half-open index range
// [start, end), with no sequential-mode assertion — used by
// non-sequential transmit, where each contiguous run of rays sharing an
// effective surface is converted independently.
func (b *RayBeam) ToRelativeRange(plane *frame.Frame, start, end int) {
	for i := start; i < end; i++ {
		if !b.HasRay(i) {
			continue
		}
		b.origins[i] = plane.ToRelative(b.origins[i])
		b.destinations[i] = plane.ToRelative(b.destinations[i])
		b.directions[i] = plane.ToRelativeVec(b.directions[i])
	}
}

// FromRelativeRange is FromRelative restricted to [start, end).
func (b *RayBeam) FromRelativeRange(plane *frame.Frame, start, end int) {
	for i := start; i < end; i++ {
		if !b.HasRay(i) {
			continue
		}
		b.origins[i] = plane.FromRelative(b.origins[i])
		b.destinations[i] = plane.FromRelative(b.destinations[i])
		b.directions[i] = plane.FromRelativeVec(b.directions[i])
	}
}

// FromSurfaceRelative lifts every alive, intercepted ray with a recorded
// surface from that surface's local frame back to absolute coordinates.
// Non-sequential beams only.
func (b *RayBeam) FromSurfaceRelative() {
	for i := 0; i < b.count; i++ {
		if !b.HasRay(i) || !b.IsIntercepted(i) {
			continue
		}
		s := b.surfaces[i]
		if s == nil {
			continue
		}
		f := s.Frame
		b.origins[i] = f.FromRelative(b.origins[i])
		b.destinations[i] = f.FromRelative(b.destinations[i])
		b.directions[i] = f.FromRelativeVec(b.directions[i])
	}
}

// CopyTo deep-copies bitsets and per-ray data into dst, growing it as
// needed. dst's intMask is zeroed: every ray starts non-intercepted in
// the copy.
func (b *RayBeam) CopyTo(dst *RayBeam) {
	dst.Allocate(b.count)
	dst.sequential = b.sequential
	copy(dst.origins, b.origins[:b.count])
	copy(dst.directions, b.directions[:b.count])
	copy(dst.destinations, b.destinations[:b.count])
	copy(dst.normals, b.normals[:b.count])
	copy(dst.lengths, b.lengths[:b.count])
	copy(dst.cumOptLengths, b.cumOptLengths[:b.count])
	copy(dst.wavelengths, b.wavelengths[:b.count])
	copy(dst.refNdx, b.refNdx[:b.count])
	copy(dst.ids, b.ids[:b.count])
	copy(dst.amplitude, b.amplitude[:b.count])
	copy(dst.surfaces, b.surfaces[:b.count])
	copy(dst.mask, b.mask)
	copy(dst.chiefMask, b.chiefMask)
	copy(dst.prevMask, b.prevMask)
	dst.UninterceptAll()
}

// UpdateFromVisible merges a candidate surface's scratch cast results
// into b (the main, non-sequential beam). For every ray intercepted in
// candidate with positive length, adopts that intersection into b if b
// had no intersection recorded yet, or the new length is shorter.
// Returns the count of rays transferred for the first time.
func (b *RayBeam) UpdateFromVisible(surf *element.OpticalSurface, candidate *RayBeam) int {
	newTransferred := 0
	n := b.count
	if candidate.count < n {
		n = candidate.count
	}
	for i := 0; i < n; i++ {
		if !candidate.IsIntercepted(i) || candidate.lengths[i] <= 0 {
			continue
		}
		hadIntersection := b.IsIntercepted(i)
		if hadIntersection && candidate.lengths[i] >= b.lengths[i] {
			continue
		}
		b.origins[i] = candidate.origins[i]
		b.directions[i] = candidate.directions[i]
		b.destinations[i] = candidate.destinations[i]
		b.normals[i] = candidate.normals[i]
		b.lengths[i] = candidate.lengths[i]
		b.cumOptLengths[i] = candidate.cumOptLengths[i]
		b.wavelengths[i] = candidate.wavelengths[i]
		b.refNdx[i] = candidate.refNdx[i]
		b.ids[i] = candidate.ids[i]
		b.amplitude[i] = candidate.amplitude[i]
		b.surfaces[i] = surf
		b.SetIntercepted(i, true)
		clearBit(b.mask, i)
		if !hadIntersection {
			newTransferred++
		}
	}
	return newTransferred
}
