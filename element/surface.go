package element

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gazed/optrace/frame"
	"github.com/gazed/optrace/math/lin"
	"github.com/gazed/optrace/optics"
)

// Hit is one recorded ray-surface intersection, kept when the surface
// has RecordHits enabled. Location/direction are in the surface's
// local frame (Destination POV, surface-relative, per spec
// computeInterceptStatistics).
type Hit struct {
	RayID     int64
	Location  lin.V3
	Direction lin.V3
}

// SurfaceStatistics are the intercepted/vignetted/pruned totals that
// ComputeInterceptStatistics writes for one surface. They are a single
// set of counts per surface, not broken down by ray id.
type SurfaceStatistics struct {
	Intercepted int
	Vignetted   int
	Pruned      int
}

// OpticalSurface binds a MediumBoundary to a frame, inside an owning
// OpticalElement. recordHits, when true, causes tracing to append Hit
// records as rays land on the surface.
type OpticalSurface struct {
	id    uuid.UUID
	Name  string
	Frame *frame.Frame
	Boundary *optics.MediumBoundary
	Owner *OpticalElement

	RecordHits bool
	hits       []Hit
	Stats      SurfaceStatistics

	cacheDirty bool
	flatLoc    []lin.V3
	flatDir    []lin.V3
}

// NewOpticalSurface binds boundary to f under owner, with a fresh UUID
// identity.
func NewOpticalSurface(name string, f *frame.Frame, boundary *optics.MediumBoundary, owner *OpticalElement) *OpticalSurface {
	return &OpticalSurface{id: uuid.New(), Name: name, Frame: f, Boundary: boundary, Owner: owner}
}

func (s *OpticalSurface) ID() uuid.UUID { return s.id }

// AppendHit records one ray hit, marking the flat-array cache stale.
func (s *OpticalSurface) AppendHit(h Hit) {
	s.hits = append(s.hits, h)
	s.cacheDirty = true
}

// Hits returns the recorded hit list.
func (s *OpticalSurface) Hits() []Hit { return s.hits }

// ClearHits discards all recorded hits and statistics.
func (s *OpticalSurface) ClearHits() {
	s.hits = s.hits[:0]
	s.Stats = SurfaceStatistics{}
	s.cacheDirty = true
}

// FlatArrays lazily rebuilds and returns parallel location/direction
// slices from the recorded hits, per spec's "cached flat location/
// direction arrays lazily built from hits".
func (s *OpticalSurface) FlatArrays() (loc, dir []lin.V3) {
	if s.cacheDirty || s.flatLoc == nil {
		s.flatLoc = make([]lin.V3, len(s.hits))
		s.flatDir = make([]lin.V3, len(s.hits))
		for i, h := range s.hits {
			s.flatLoc[i] = h.Location
			s.flatDir[i] = h.Direction
		}
		s.cacheDirty = false
	}
	return s.flatLoc, s.flatDir
}

// OpticalPath is an ordered sequence of OpticalSurfaces with a name→index
// lookup, built incrementally via Plug.
type OpticalPath struct {
	Name     string
	surfaces []*OpticalSurface
	index    map[string]int
}

// NewOpticalPath returns an empty named path.
func NewOpticalPath(name string) *OpticalPath {
	return &OpticalPath{Name: name, index: make(map[string]int)}
}

// Plug appends the surfaces of element's named sub-path (its default path
// when pathName is empty) to this path.
func (p *OpticalPath) Plug(e *OpticalElement, pathName string) error {
	sub := e.DefaultPath
	if pathName != "" {
		var ok bool
		sub, ok = e.paths[pathName]
		if !ok {
			return fmt.Errorf("optical path %q: element %q has no sub-path %q", p.Name, e.Name(), pathName)
		}
	}
	for _, s := range sub.surfaces {
		p.index[s.Name] = len(p.surfaces)
		p.surfaces = append(p.surfaces, s)
	}
	return nil
}

// Surfaces returns the path's ordered surface list.
func (p *OpticalPath) Surfaces() []*OpticalSurface { return p.surfaces }

// IndexOf returns the position of the named surface within the path.
func (p *OpticalPath) IndexOf(name string) (int, bool) {
	idx, ok := p.index[name]
	return idx, ok
}

// OpticalElement additionally owns a list of OpticalSurfaces and an
// internal default OpticalPath.
type OpticalElement struct {
	*Element
	Surfaces    []*OpticalSurface
	DefaultPath *OpticalPath
	paths       map[string]*OpticalPath

	// asDetector is set by NewDetector when this OpticalElement is the
	// embedded base of a Detector, letting a generic
	// *OpticalElement (e.g. one just returned by an ElementFactory)
	// recover its Detector specialization without an unsafe cast —
	// the Go equivalent of the original's registerDetector dispatch
	// off a freshly constructed element.
	asDetector *Detector
}

// AsDetector returns oe's Detector specialization, if it is one.
func (oe *OpticalElement) AsDetector() (*Detector, bool) {
	return oe.asDetector, oe.asDetector != nil
}

// NewOpticalElement wraps NewElement with the optical-specific surface
// and default-path bookkeeping.
func NewOpticalElement(name string, f *frame.Frame) *OpticalElement {
	return &OpticalElement{
		Element:     NewElement(name, f),
		DefaultPath: NewOpticalPath(name),
		paths:       make(map[string]*OpticalPath),
	}
}

// AddSurface appends a surface to both the owned list and the default
// path.
func (oe *OpticalElement) AddSurface(s *OpticalSurface) {
	oe.Surfaces = append(oe.Surfaces, s)
	oe.DefaultPath.index[s.Name] = len(oe.DefaultPath.surfaces)
	oe.DefaultPath.surfaces = append(oe.DefaultPath.surfaces, s)
}

// AddSubPath registers a named sub-path (distinct from DefaultPath) that
// Plug can later reference by name.
func (oe *OpticalElement) AddSubPath(p *OpticalPath) { oe.paths[p.Name] = p }
