package element

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gazed/optrace/frame"
)

// Element owns a parent frame, child elements, named ports (each a
// *frame.Frame), and an ordered list of property names backed by a typed
// value map. PropertyChanged is invoked by Set after a property is
// updated, the hook a GenericComponentParamEvaluator's Assign relies on
// (spec §4.4: "the containing Element::set runs its propertyChanged
// hook").
//
// Grounded on gazed-vu's entity.go registry/free-list pattern, repurposed
// to hand out uuid.UUID identities instead of recycled small ints.
type Element struct {
	id     uuid.UUID
	name   string
	frame  *frame.Frame
	parent *Element
	children []*Element
	ports    map[string]*frame.Frame

	propertyOrder []string
	properties    map[string]PropertyValue

	PropertyChanged func(name string, value PropertyValue)
}

// NewElement allocates an Element with a fresh UUID identity, bound to
// the given name and frame.
func NewElement(name string, f *frame.Frame) *Element {
	return &Element{
		id:         uuid.New(),
		name:       name,
		frame:      f,
		ports:      make(map[string]*frame.Frame),
		properties: make(map[string]PropertyValue),
	}
}

func (e *Element) ID() uuid.UUID   { return e.id }
func (e *Element) Name() string    { return e.name }
func (e *Element) Frame() *frame.Frame { return e.frame }
func (e *Element) Parent() *Element { return e.parent }
func (e *Element) Children() []*Element { return e.children }

// AddChild appends a child element, recording the parent back-reference.
func (e *Element) AddChild(c *Element) {
	c.parent = e
	e.children = append(e.children, c)
}

// AddPort registers a named child frame as an externally exposed
// attachment point.
func (e *Element) AddPort(name string, f *frame.Frame) { e.ports[name] = f }

// Port returns the named port's frame, or nil if not found.
func (e *Element) Port(name string) *frame.Frame { return e.ports[name] }

// PortNames returns the element's exposed port names, unordered.
func (e *Element) PortNames() []string {
	names := make([]string, 0, len(e.ports))
	for n := range e.ports {
		names = append(names, n)
	}
	return names
}

// DeclareProperty registers name in property order with an initial
// (usually undefined) value, without firing PropertyChanged.
func (e *Element) DeclareProperty(name string, v PropertyValue) {
	if _, exists := e.properties[name]; !exists {
		e.propertyOrder = append(e.propertyOrder, name)
	}
	e.properties[name] = v
}

// Set assigns a named property's value and invokes PropertyChanged, if
// set. Returns an error if name was never declared.
func (e *Element) Set(name string, v PropertyValue) error {
	if _, ok := e.properties[name]; !ok {
		return fmt.Errorf("element %q: unknown property %q", e.name, name)
	}
	e.properties[name] = v
	if e.PropertyChanged != nil {
		e.PropertyChanged(name, v)
	}
	return nil
}

// Get returns a property's current value.
func (e *Element) Get(name string) (PropertyValue, bool) {
	v, ok := e.properties[name]
	return v, ok
}

// SortedProperties returns every declared property name in declaration
// order, the sequence positional element-parameter assignment resolves
// against at assignment time. Element has no notion of hidden
// properties, so no declared property is left out of this order.
func (e *Element) SortedProperties() []string {
	out := make([]string, len(e.propertyOrder))
	copy(out, e.propertyOrder)
	return out
}

// SetByIndex assigns the property at the given position in
// SortedProperties order.
func (e *Element) SetByIndex(idx int, v PropertyValue) error {
	if idx < 0 || idx >= len(e.propertyOrder) {
		return fmt.Errorf("element %q: property index %d out of range", e.name, idx)
	}
	return e.Set(e.propertyOrder[idx], v)
}
