package model

import (
	"fmt"
	"hash/fnv"

	"github.com/gazed/optrace/element"
	"github.com/gazed/optrace/frame"
)

// seedFromName derives a deterministic per-element PRNG seed from its
// instance name, so each nested composite element gets its own
// ExprRandomState (spec §9 "PRNG per model") without needing a shared
// counter threaded through the builder.
func seedFromName(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

// ElementFactory constructs a named OpticalElement on frame f. Built-in
// factories are registered by name on a Host at construction; custom
// (recipe-defined) element definitions get wrapped as
// CompositeElementFactory instances by registerCustomElements.
type ElementFactory func(name string, f *frame.Frame) (*element.OpticalElement, error)

// FactoryRegistry is a name→ElementFactory table, grounded on
// gazed-vu/entity.go's map-based registry style.
type FactoryRegistry struct {
	factories map[string]ElementFactory
}

// NewFactoryRegistry returns an empty registry.
func NewFactoryRegistry() *FactoryRegistry {
	return &FactoryRegistry{factories: make(map[string]ElementFactory)}
}

// Register adds a factory under name, failing if the name already exists
// — spec §4.4 step 4's "fail if a name collides".
func (r *FactoryRegistry) Register(name string, f ElementFactory) error {
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("factory registry: %q is already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Lookup returns the named factory, if any.
func (r *FactoryRegistry) Lookup(name string) (ElementFactory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// NewDetectorFactory returns the built-in "Detector" factory: a flat
// rectangular readout surface of 1x1 default extent, resized by its
// "width"/"height" properties at assignment time, per original_source's
// addDetector constructing via the "Detector" factory name before
// setting "height"/"width"/"cols"/"rows".
func NewDetectorFactory() ElementFactory {
	return func(name string, f *frame.Frame) (*element.OpticalElement, error) {
		d := element.NewDetector(name, f, 0.5, 0.5)
		return d.OpticalElement, nil
	}
}

// CompositeElementFactory wraps a nested Recipe so that instantiating a
// custom element builds its own inner CompositeModel. The returned
// OpticalElement is a façade that records the instance name in an
// "__innerModel" property; the inner model itself is kept by the Host
// (RegisterNestedModel), and it holds the Host for scope chaining
// (createExpressions' "local = parent scope").
type CompositeElementFactory struct {
	Recipe *Recipe
	Host   Host
}

// Build constructs the façade element and its nested CompositeModel,
// wiring the inner model's scope to the outer Host's scope.
func (cf *CompositeElementFactory) Build(name string, f *frame.Frame) (*element.OpticalElement, error) {
	oe := element.NewOpticalElement(name, f)
	inner := NewCompositeModel(cf.Host)
	inner.SetSeed(seedFromName(name))
	if err := inner.Build(cf.Recipe, f, name+"."); err != nil {
		return nil, fmt.Errorf("composite element %q: %w", name, err)
	}
	cf.Host.RegisterNestedModel(inner)
	oe.DeclareProperty("__innerModel", element.StringValue(name))
	return oe, nil
}

// AsFactory adapts cf to the ElementFactory signature.
func (cf *CompositeElementFactory) AsFactory() ElementFactory { return cf.Build }
