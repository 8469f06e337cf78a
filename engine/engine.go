// Package engine drives a RayBeam through an OpticalPath: castTo/
// transmitThrough for sequential paths, and a repeat-until-no-new-
// transfers loop for non-sequential (unordered) candidate surfaces.
//
// Grounded on gazed-vu/eng.go's Director callback interface for the
// Listener protocol, and on the update-pipeline shape of
// gazed-vu/move/move.go (predict → broadphase → narrowphase → solve →
// update), generalized here to cast → transmit → updateOrigins.
package engine

import (
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gazed/optrace/beam"
	"github.com/gazed/optrace/element"
)

// StageKind names the pipeline stage reported to a Listener.
type StageKind int

const (
	StageCast StageKind = iota
	StageTransmit
)

func (s StageKind) String() string {
	switch s {
	case StageCast:
		return "cast"
	case StageTransmit:
		return "transmit"
	default:
		return "unknown"
	}
}

// Listener receives progress and cancellation callbacks during a trace,
// grounded on gazed-vu/eng.go's Director interface.
type Listener interface {
	StageProgress(stage StageKind, surfaceName string, k, n int)
	RayProgress(done, total int)
	RayNotifyInterval() int
	Cancelled() bool
}

// NullListener implements Listener with no-ops and an interval large
// enough that RayProgress is effectively never called; the default when
// the engine is constructed without one.
type NullListener struct{}

func (NullListener) StageProgress(StageKind, string, int, int) {}
func (NullListener) RayProgress(int, int)                      {}
func (NullListener) RayNotifyInterval() int                    { return 1 << 30 }
func (NullListener) Cancelled() bool                            { return false }

// RayTracingEngine owns one main RayBeam and the pushed-ray list that
// feeds it, per spec §4.3.
type RayTracingEngine struct {
	main *beam.RayBeam

	pushed    []beam.Ray
	alive     []bool
	raysDirty bool
	beamDirty bool

	listener Listener

	log *slog.Logger
}

// New returns an engine with an empty sequential beam and a NullListener.
func New() *RayTracingEngine {
	return &RayTracingEngine{
		main:     beam.NewRayBeam(),
		listener: NullListener{},
		log:      slog.Default(),
	}
}

// SetListener installs a progress/cancellation listener, or reverts to
// NullListener if l is nil.
func (e *RayTracingEngine) SetListener(l Listener) {
	if l == nil {
		l = NullListener{}
	}
	e.listener = l
}

// PushRay appends one ray to the internal list and marks it dirty.
func (e *RayTracingEngine) PushRay(r beam.Ray) {
	e.pushed = append(e.pushed, r)
	e.raysDirty = true
}

// PushRays appends a list of rays and marks it dirty.
func (e *RayTracingEngine) PushRays(rs []beam.Ray) {
	e.pushed = append(e.pushed, rs...)
	e.raysDirty = true
}

// Clear discards the pushed list and resets the beam.
func (e *RayTracingEngine) Clear() {
	e.pushed = e.pushed[:0]
	e.main = beam.NewRayBeam()
	e.raysDirty = false
	e.beamDirty = false
}

// GetRays rebuilds the logical ray list from the beam if it is dirty,
// returning the current list. keepPruned controls whether absent rays
// are included.
func (e *RayTracingEngine) GetRays(keepPruned bool) []beam.Ray {
	if e.beamDirty {
		e.pushed = e.main.ToRays(true)
		e.alive = make([]bool, e.main.Count())
		for i := range e.alive {
			e.alive[i] = e.main.HasRay(i)
		}
		e.beamDirty = false
	}
	if keepPruned || e.alive == nil {
		return e.pushed
	}
	out := make([]beam.Ray, 0, len(e.pushed))
	for i, r := range e.pushed {
		if i < len(e.alive) && !e.alive[i] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SetMainBeam adopts an externally constructed beam (the non-sequential
// use case) and clears both dirty flags. The beam's sequential flag is
// left as the caller set it; Trace and TraceNonSequential each set it
// when they run.
func (e *RayTracingEngine) SetMainBeam(b *beam.RayBeam) {
	e.main = b
	e.raysDirty = false
	e.beamDirty = false
}

// MainBeam returns the engine's owned beam for read-only inspection
// between traces (spec §5 shared-resource policy).
func (e *RayTracingEngine) MainBeam() *beam.RayBeam { return e.main }

func (e *RayTracingEngine) toBeamIfDirty() {
	if e.raysDirty {
		e.main.LoadRays(e.pushed)
		e.raysDirty = false
	}
}

// CastTo converts the beam to surface-local coordinates, casts it,
// records intercept statistics, and converts back to absolute
// coordinates.
func (e *RayTracingEngine) CastTo(s *element.OpticalSurface) {
	e.toBeamIfDirty()
	e.main.ToRelative(s.Frame)
	s.Boundary.Cast(e.main.Whole(), beam.RZBeamMinimumWavelength)
	e.main.FromRelative(s.Frame)
	e.main.ComputeInterceptStatistics(s)
}

// TransmitThrough applies the surface's EM interface to the beam's
// current intercepted rays and marks the beam dirty so GetRays rebuilds.
func (e *RayTracingEngine) TransmitThrough(s *element.OpticalSurface) {
	e.main.ToRelative(s.Frame)
	s.Boundary.Transmit(e.main.Whole())
	e.main.FromRelative(s.Frame)
	e.beamDirty = true
}

// Trace runs one sequential trace over path's surfaces, in order,
// per spec §4.3's pipeline pseudocode.
func (e *RayTracingEngine) Trace(path *element.OpticalPath) {
	e.main.SetSequential(true)
	surfaces := path.Surfaces()
	for k, s := range surfaces {
		e.listener.StageProgress(StageCast, s.Name, k, len(surfaces))
		e.CastTo(s)
		if e.listener.Cancelled() {
			e.log.Info("trace cancelled during cast", "surface", s.Name)
			return
		}
		e.listener.StageProgress(StageTransmit, s.Name, k, len(surfaces))
		e.TransmitThrough(s)
		if e.listener.Cancelled() {
			e.log.Info("trace cancelled during transmit", "surface", s.Name)
			return
		}
		e.main.UpdateOrigins()
	}
}

// TraceNonSequential runs the repeat-until-no-new-transfers loop over an
// unordered set of candidate surfaces: each round casts a scratch copy
// of the main beam into every candidate surface's local frame, merges
// the nearest intersection per ray via UpdateFromVisible, then transmits
// every intercepted ray through its recorded surface.
func (e *RayTracingEngine) TraceNonSequential(candidates []*element.OpticalSurface) {
	e.toBeamIfDirty()
	e.main.SetSequential(false)
	e.main.PruneAll()
	e.main.SetAllChief()

	scratch := beam.NewRayBeam()
	for {
		if e.listener.Cancelled() {
			return
		}
		newly := 0
		for _, s := range candidates {
			e.main.CopyTo(scratch)
			scratch.SetSequential(true)
			scratch.ToRelative(s.Frame)
			s.Boundary.Cast(scratch.Whole(), beam.RZBeamMinimumWavelength)
			scratch.FromRelative(s.Frame)
			newly += e.main.UpdateFromVisible(s, scratch)
		}
		if newly == 0 {
			break
		}
		e.transmitAllIntercepted()
		e.main.UpdateOrigins()
	}
	e.beamDirty = true
}

// transmitAllIntercepted walks the main beam's grouped-by-surface runs;
// each run is converted into its surface's local frame, transmitted,
// and converted back, since EMInterface.Transmit (reflection, Snell,
// transmission-map sampling) operates in the surface's local plane.
func (e *RayTracingEngine) transmitAllIntercepted() {
	e.main.Walk(nil, func(s *element.OpticalSurface, slice *beam.RayBeamSlice) {
		start := slice.Start()
		end := start + slice.Len()
		e.main.ToRelativeRange(s.Frame, start, end)
		s.Boundary.Transmit(slice)
		e.main.FromRelativeRange(s.Frame, start, end)
	}, nil)
}

// CastParallel casts s against the beam's [0,count) range split across
// GOMAXPROCS-1 word-aligned chunks, each owning exclusive bitset words
// (spec §5: "either reserve one word per worker ... each word covers 64
// rays"). Grounded on 7blacky7-ollama-reverse/parser/files.go's
// errgroup.Group + SetLimit fan-out idiom.
func (e *RayTracingEngine) CastParallel(s *element.OpticalSurface) error {
	e.toBeamIfDirty()
	e.main.ToRelative(s.Frame)

	n := e.main.Count()
	workers := max(runtime.GOMAXPROCS(0)-1, 1)
	chunk := ((n/64 + workers - 1) / workers) * 64
	if chunk == 0 {
		chunk = n
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		start := start
		end := min(start+chunk, n)
		g.Go(func() error {
			s.Boundary.Cast(e.main.Slice(start, end), beam.RZBeamMinimumWavelength)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	e.main.FromRelative(s.Frame)
	e.main.ComputeInterceptStatistics(s)
	return nil
}
