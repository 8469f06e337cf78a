package model

import (
	"log/slog"

	optrace "github.com/gazed/optrace"
	"github.com/gazed/optrace/element"
	"github.com/gazed/optrace/engine"
	"github.com/gazed/optrace/expr"
	"github.com/gazed/optrace/frame"
	"github.com/gazed/optrace/math/lin"
)

// TopLevelModel owns the name-indexed registries spec §4's glossary
// describes: name→frame, name→element/opticalElement, name→detector,
// name→path, plus the world frame and a distinguished RayBeamElement
// used for visual ray display. It implements Host directly (the
// un-prefixed, outermost scope).
//
// Grounded on gazed-vu/entity.go's map-based registries, with the
// detectors map grounded on original_source/LibRZ/include/OMModel.h's
// m_nameToDetector.
type TopLevelModel struct {
	World          *frame.Frame
	RayBeamElement *element.Element

	frames          map[string]*frame.Frame
	opticalElements map[string]*element.OpticalElement
	detectors       map[string]*element.Detector
	paths           map[string]*element.OpticalPath
	ports           map[string]*frame.Frame
	dofs            map[string]*expr.GenericModelParam
	params          map[string]*expr.GenericModelParam

	factories *FactoryRegistry
	scope     *expr.Scope
	graph     *expr.Graph
	rand      *lin.RandomState
	nested    []*CompositeModel

	log *slog.Logger
}

var _ Host = (*TopLevelModel)(nil)

// NewTopLevelModel returns an empty top-level model with a fresh World
// frame, seeded PRNG, and the built-in factory registry installed.
func NewTopLevelModel(seed uint64) *TopLevelModel {
	world := frame.NewWorld("world")
	world.Recalculate()
	m := &TopLevelModel{
		World:           world,
		RayBeamElement:  element.NewElement("__rayBeam", world),
		frames:          make(map[string]*frame.Frame),
		opticalElements: make(map[string]*element.OpticalElement),
		detectors:       make(map[string]*element.Detector),
		paths:           make(map[string]*element.OpticalPath),
		ports:           make(map[string]*frame.Frame),
		dofs:            make(map[string]*expr.GenericModelParam),
		params:          make(map[string]*expr.GenericModelParam),
		factories:       NewFactoryRegistry(),
		scope:           expr.NewScope(nil),
		graph:           expr.NewGraph(),
		rand:            lin.NewRandomState(seed),
		log:             slog.Default().With("component", "model"),
	}
	m.scope.SetRandomState(m.rand)
	m.frames["world"] = world
	_ = m.factories.Register("Detector", NewDetectorFactory())
	return m
}

func (m *TopLevelModel) RegisterDof(p *expr.GenericModelParam)   { m.dofs[p.Name] = p }
func (m *TopLevelModel) RegisterParam(p *expr.GenericModelParam) { m.params[p.Name] = p }
func (m *TopLevelModel) RegisterFrame(name string, f *frame.Frame) { m.frames[name] = f }
func (m *TopLevelModel) RegisterElement(name string, e *element.OpticalElement) {
	m.opticalElements[name] = e
}

// RegisterDetector additionally indexes a detector by name, per
// OMModel::registerDetector. Every registered detector is also reachable
// through RegisterElement's opticalElements map (Detector IS-A
// OpticalElement), matching the original's chained
// registerElement→registerOpticalElement→registerDetector hierarchy.
func (m *TopLevelModel) RegisterDetector(name string, d *element.Detector) {
	m.detectors[name] = d
}
func (m *TopLevelModel) RegisterPath(name string, p *element.OpticalPath) { m.paths[name] = p }
func (m *TopLevelModel) RegisterPort(name string, f *frame.Frame)         { m.ports[name] = f }

func (m *TopLevelModel) RegisterFactory(name string, factory ElementFactory) error {
	return m.factories.Register(name, factory)
}
func (m *TopLevelModel) LookupFactory(name string) (ElementFactory, bool) {
	return m.factories.Lookup(name)
}
func (m *TopLevelModel) RegisterNestedModel(cm *CompositeModel) { m.nested = append(m.nested, cm) }

func (m *TopLevelModel) Scope() *expr.Scope { return m.scope }
func (m *TopLevelModel) Graph() *expr.Graph { return m.graph }

func (m *TopLevelModel) Frame(name string) (*frame.Frame, bool) {
	f, ok := m.frames[name]
	return f, ok
}
func (m *TopLevelModel) Element(name string) (*element.OpticalElement, bool) {
	e, ok := m.opticalElements[name]
	return e, ok
}
func (m *TopLevelModel) Detector(name string) (*element.Detector, bool) {
	d, ok := m.detectors[name]
	return d, ok
}

// Detectors returns every registered detector, the way OMModel::
// detectors() enumerates m_nameToDetector for a "clear all detectors"
// pass.
func (m *TopLevelModel) Detectors() map[string]*element.Detector { return m.detectors }

func (m *TopLevelModel) Path(name string) (*element.OpticalPath, bool) {
	p, ok := m.paths[name]
	return p, ok
}
func (m *TopLevelModel) Port(name string) (*frame.Frame, bool) {
	f, ok := m.ports[name]
	return f, ok
}
func (m *TopLevelModel) Dof(name string) (*expr.GenericModelParam, bool) {
	p, ok := m.dofs[name]
	return p, ok
}
func (m *TopLevelModel) Param(name string) (*expr.GenericModelParam, bool) {
	p, ok := m.params[name]
	return p, ok
}

// RandomState returns the model's PRNG.
func (m *TopLevelModel) RandomState() *lin.RandomState { return m.rand }

// OMModel embeds TopLevelModel's registries and adds the trace driver,
// setDof/setParam, and updateRandState, per spec's "TopLevelModel /
// OMModel: Name-indexed registry of frames/elements/paths; trace driver".
type OMModel struct {
	*TopLevelModel

	engine *engine.RayTracingEngine
}

// NewOMModel returns a ready-to-build model with its own ray-tracing
// engine.
func NewOMModel(seed uint64) *OMModel {
	return &OMModel{
		TopLevelModel: NewTopLevelModel(seed),
		engine:        engine.New(),
	}
}

// Engine returns the model's ray-tracing engine.
func (m *OMModel) Engine() *engine.RayTracingEngine { return m.engine }

// SetListener installs a progress/cancellation listener on the model's
// engine, e.g. a ConfiguredListener built from a Config.
func (m *OMModel) SetListener(l engine.Listener) { m.engine.SetListener(l) }

// Trace clears every registered detector, then runs one sequential trace
// of the named optical path — per OMModel::trace's "clear all detectors"
// step ahead of the cast/transfer/updateOrigins loop.
func (m *OMModel) Trace(pathName string) error {
	path, ok := m.Path(pathName)
	if !ok {
		return optrace.Newf(optrace.KindTracer, "optical path %q not found", pathName)
	}
	for _, d := range m.Detectors() {
		d.Clear()
	}
	m.engine.Trace(path)
	return nil
}

// DetectorFootprint looks up a registered detector by name and returns
// its currently accumulated hit statistics (valid after a Trace call
// whose path terminates on that detector's readout surface).
func (m *OMModel) DetectorFootprint(name string) (element.Footprint, error) {
	d, ok := m.Detector(name)
	if !ok {
		return element.Footprint{}, optrace.Newf(optrace.KindTracer, "missing detector: %q not found", name)
	}
	return d.Footprint(), nil
}

// SetDof validates and stores a DOF's value, then reassigns every
// dependent evaluator, per spec §4.4's setDof.
func (m *OMModel) SetDof(name string, v float64) error {
	p, ok := m.Dof(name)
	if !ok {
		return optrace.Newf(optrace.KindRuntimeParam, "dof %q not found", name)
	}
	if err := p.SetValue(v); err != nil {
		m.log.Warn("rejected dof assignment", "dof", name, "value", v, "error", err)
		return err
	}
	return nil
}

// SetParam validates and stores a named parameter's value, then
// reassigns every dependent evaluator, per spec §4.4's setParam.
func (m *OMModel) SetParam(name string, v float64) error {
	p, ok := m.Param(name)
	if !ok {
		return optrace.Newf(optrace.KindRuntimeParam, "param %q not found", name)
	}
	if err := p.SetValue(v); err != nil {
		m.log.Warn("rejected param assignment", "param", name, "value", v, "error", err)
		return err
	}
	return nil
}

// UpdateRandState bumps every nested composite model's PRNG epoch before
// bumping this model's own, then reassigns every compiled evaluator —
// spec §4.4's updateRandState. An expression reading randu()/randn()
// draws a new sample each time it is evaluated, including repeated
// evaluations within one AssignAll pass.
func (m *OMModel) UpdateRandState() error {
	for _, n := range m.nested {
		if err := n.updateRandState(); err != nil {
			return err
		}
	}
	m.rand.BumpEpoch()
	return m.graph.AssignAll()
}
