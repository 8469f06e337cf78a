// Package frame implements the reference-frame tree: a dependency-ordered
// hierarchy of affine poses with lazy recomputation of global center and
// orientation.
//
// Grounded on gazed-vu's pov.go (location+orientation "point of view",
// mutate-and-return Move/Spin update style) generalized from a flat
// scene-graph node into a tree with named axes/points and explicit
// recalculate() propagation, plus the legacy src/vu/pov.go's parent/child
// bookkeeping for how a node's children are tracked and walked.
package frame

import (
	"fmt"

	"github.com/gazed/optrace/math/lin"
)

// TypeID tags the concrete kind of a Frame, matching the spec's
// World=0x0000, Rotation=0x1000, Translation=0x1001, Tripod=0x1002.
type TypeID int

const (
	World       TypeID = 0x0000
	Rotation    TypeID = 0x1000
	Translation TypeID = 0x1001
	Tripod      TypeID = 0x1002
)

func (t TypeID) String() string {
	switch t {
	case World:
		return "world"
	case Rotation:
		return "rotation"
	case Translation:
		return "translation"
	case Tripod:
		return "tripod"
	default:
		return "unknown"
	}
}

// named is one named axis or point: its local-frame value and the
// lazily-derived global value.
type named struct {
	name   string
	local  lin.V3
	global lin.V3
}

// Frame is a node of the reference-frame tree. The concrete behaviour of
// recalculateFrame() is dispatched on typeId rather than through virtual
// methods, the way gazed-vu/physics/caster.go dispatches ray casts through
// a lookup keyed on shape type.
type Frame struct {
	typeId   TypeID
	name     string
	parent   *Frame
	children []*Frame

	center      lin.V3
	orientation lin.M3
	calculated  bool

	axes     []named
	axisIdx  map[string]int
	points   []named
	pointIdx map[string]int

	// World-specific: optional link to another frame whose pose this
	// frame copies verbatim.
	linked *Frame

	// Translation-specific local displacement.
	dist lin.V3

	// Rotation-specific axis (must be unit length) and angle in radians.
	axis  lin.V3
	theta float64

	// Tripod-specific leg lengths and base triangle half-spacing.
	legLengths [3]float64
	legRadius  float64
}

// NewWorld returns a root frame: center at the origin, identity
// orientation, with no parent.
func NewWorld(name string) *Frame {
	f := newFrame(World, name, nil)
	f.orientation.SetI()
	return f
}

// NewTranslated returns a frame translated from parent by local
// displacement d along the parent's axes.
func NewTranslated(parent *Frame, name string, d lin.V3) *Frame {
	f := newFrame(Translation, name, parent)
	f.dist = d
	parent.addChild(f)
	return f
}

// NewRotated returns a frame rotated from parent by theta radians about
// local axis (normalized on construction, per the spec's "axis must be
// normalized by the setter").
func NewRotated(parent *Frame, name string, axis lin.V3, theta float64) *Frame {
	f := newFrame(Rotation, name, parent)
	axis.Unit()
	f.axis = axis
	f.theta = theta
	parent.addChild(f)
	return f
}

// NewTripod returns a three-legged frame under parent; leg lengths and the
// base triangle radius parameterise its pose. Tripod frames are defined
// for completeness but are not exercised by the core ray-tracing path.
func NewTripod(parent *Frame, name string, legLengths [3]float64, baseRadius float64) *Frame {
	f := newFrame(Tripod, name, parent)
	f.legLengths = legLengths
	f.legRadius = baseRadius
	parent.addChild(f)
	return f
}

func newFrame(t TypeID, name string, parent *Frame) *Frame {
	return &Frame{
		typeId:   t,
		name:     name,
		parent:   parent,
		axisIdx:  make(map[string]int),
		pointIdx: make(map[string]int),
	}
}

func (f *Frame) addChild(c *Frame) { f.children = append(f.children, c) }

// TypeID returns the frame's concrete kind.
func (f *Frame) TypeID() TypeID { return f.typeId }

// Name returns the frame's assigned name.
func (f *Frame) Name() string { return f.name }

// Parent returns the frame's parent, or nil for World.
func (f *Frame) Parent() *Frame { return f.parent }

// Children returns the frame's direct children in insertion order.
func (f *Frame) Children() []*Frame { return f.children }

// IsCalculated reports whether the frame's global pose is up to date.
func (f *Frame) IsCalculated() bool { return f.calculated }

// Center returns the frame's global center. Valid only when IsCalculated.
func (f *Frame) Center() lin.V3 { return f.center }

// Orientation returns the frame's global orientation. Valid only when
// IsCalculated.
func (f *Frame) Orientation() lin.M3 { return f.orientation }

// Link makes a World frame copy another frame's pose verbatim on
// recalculation. Only valid on World frames.
func (f *Frame) Link(other *Frame) {
	if f.typeId != World {
		panic("frame: Link is only valid on a World frame")
	}
	f.linked = other
}

// SetDistanceX/Y/Z update a Translation frame's local displacement without
// recomputing the pose; call Recalculate to apply.
func (f *Frame) SetDistanceX(v float64) { f.dist.X = v }
func (f *Frame) SetDistanceY(v float64) { f.dist.Y = v }
func (f *Frame) SetDistanceZ(v float64) { f.dist.Z = v }

// SetDistance replaces all three components of a Translation frame's local
// displacement without recomputing the pose.
func (f *Frame) SetDistance(d lin.V3) { f.dist = d }

// SetAngle updates a Rotation frame's angle (radians) without recomputing
// the pose.
func (f *Frame) SetAngle(theta float64) { f.theta = theta }

// SetAxis updates a Rotation frame's axis, normalizing it, without
// recomputing the pose.
func (f *Frame) SetAxis(axis lin.V3) { axis.Unit(); f.axis = axis }

// Axis returns a Rotation frame's current (unnormalized-write, read-back
// normalized) local axis, read by component-param evaluators that update
// one component (eX/eY/eZ) at a time.
func (f *Frame) Axis() lin.V3 { return f.axis }

// Distance returns a Translation frame's current local displacement,
// read by component-param evaluators that update one component (dX/dY/dZ)
// at a time.
func (f *Frame) Distance() lin.V3 { return f.dist }

// AddAxis inserts (or overwrites) a named direction expressed in the local
// frame and returns its index. Overwriting clears descendants' cached
// lookups implicitly, since lookups are by name/index into this frame's
// own slice, not cached copies held by children.
func (f *Frame) AddAxis(name string, vLocal lin.V3) int {
	if idx, ok := f.axisIdx[name]; ok {
		f.axes[idx].local = vLocal
		return idx
	}
	idx := len(f.axes)
	f.axes = append(f.axes, named{name: name, local: vLocal})
	f.axisIdx[name] = idx
	return idx
}

// AddPoint inserts (or overwrites) a named point expressed in the local
// frame and returns its index.
func (f *Frame) AddPoint(name string, pLocal lin.V3) int {
	if idx, ok := f.pointIdx[name]; ok {
		f.points[idx].local = pLocal
		return idx
	}
	idx := len(f.points)
	f.points = append(f.points, named{name: name, local: pLocal})
	f.pointIdx[name] = idx
	return idx
}

// GetAxis returns the global value of the named axis. Panics if the frame
// is not yet calculated, matching the spec's "dereferencing requires
// isCalculated()" invariant.
func (f *Frame) GetAxis(name string) lin.V3 {
	idx, ok := f.axisIdx[name]
	if !ok {
		panic(fmt.Sprintf("frame: unknown axis %q on frame %q", name, f.name))
	}
	return f.GetAxisIndex(idx)
}

// GetAxisIndex returns the global value of the axis at idx.
func (f *Frame) GetAxisIndex(idx int) lin.V3 {
	if !f.calculated {
		panic(fmt.Sprintf("frame: GetAxisIndex on uncalculated frame %q", f.name))
	}
	return f.axes[idx].global
}

// GetPoint returns the global value of the named point.
func (f *Frame) GetPoint(name string) lin.V3 {
	idx, ok := f.pointIdx[name]
	if !ok {
		panic(fmt.Sprintf("frame: unknown point %q on frame %q", name, f.name))
	}
	return f.GetPointIndex(idx)
}

// GetPointIndex returns the global value of the point at idx.
func (f *Frame) GetPointIndex(idx int) lin.V3 {
	if !f.calculated {
		panic(fmt.Sprintf("frame: GetPointIndex on uncalculated frame %q", f.name))
	}
	return f.points[idx].global
}

// ToRelative converts a world-space point into this frame's local space:
// the exact inverse affine transform of FromRelative.
func (f *Frame) ToRelative(v lin.V3) lin.V3 {
	var d lin.V3
	d.Sub(&v, &f.center)
	var m lin.M3
	m.Transpose(&f.orientation)
	var rv lin.V3
	rv.MultMv(&m, &d)
	return rv
}

// FromRelative converts a local-space point into world space.
func (f *Frame) FromRelative(v lin.V3) lin.V3 {
	var rv lin.V3
	rv.MultMv(&f.orientation, &v)
	rv.Add(&rv, &f.center)
	return rv
}

// ToRelativeVec converts a world-space direction into this frame's local
// space (rotation only, no translation).
func (f *Frame) ToRelativeVec(v lin.V3) lin.V3 {
	var m lin.M3
	m.Transpose(&f.orientation)
	var rv lin.V3
	rv.MultMv(&m, &v)
	return rv
}

// FromRelativeVec converts a local-space direction into world space
// (rotation only, no translation).
func (f *Frame) FromRelativeVec(v lin.V3) lin.V3 {
	var rv lin.V3
	rv.MultMv(&f.orientation, &v)
	return rv
}

// Recalculate recomputes this frame and its entire subtree, per the
// spec's four-step algorithm: subclass hook, axis/point re-derivation,
// mark calculated, recurse into children in insertion order.
func (f *Frame) Recalculate() {
	f.recalculateFrame()
	f.rederiveNamed()
	f.calculated = true
	for _, c := range f.children {
		c.Recalculate()
	}
}

// RecalculateChildren recomputes strict descendants only, leaving this
// frame's own pose untouched.
func (f *Frame) RecalculateChildren() {
	for _, c := range f.children {
		c.Recalculate()
	}
}

func (f *Frame) rederiveNamed() {
	for i := range f.axes {
		f.axes[i].global.MultMv(&f.orientation, &f.axes[i].local)
	}
	for i := range f.points {
		var g lin.V3
		g.MultMv(&f.orientation, &f.points[i].local)
		g.Add(&g, &f.center)
		f.points[i].global = g
	}
}

// recalculateFrame applies the subclass-specific pose derivation,
// dispatched on typeId.
func (f *Frame) recalculateFrame() {
	switch f.typeId {
	case World:
		if f.linked != nil {
			f.center = f.linked.center
			f.orientation = f.linked.orientation
			return
		}
		f.center = lin.V3{}
		f.orientation.SetI()
	case Translation:
		f.center.MultMv(&f.parent.orientation, &f.dist)
		f.center.Add(&f.center, &f.parent.center)
		f.orientation = f.parent.orientation
	case Rotation:
		var r lin.M3
		r.Rot(&f.axis, f.theta)
		f.orientation.Mult(&f.parent.orientation, &r)
		f.center = f.parent.center
	case Tripod:
		f.recalculateTripod()
	}
}
