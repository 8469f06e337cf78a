package model

import (
	"github.com/gazed/optrace/element"
	"github.com/gazed/optrace/expr"
	"github.com/gazed/optrace/frame"
)

// Host is the set of virtual hooks a CompositeModel's build() calls into
// to register what it creates, per spec §4.4 step 1 ("Register each with
// the host via registerDof / registerParam virtual hooks"). TopLevelModel
// implements Host; a nested CompositeModel built for a composite element
// registers into the same outer Host, with names prefixed by the builder.
type Host interface {
	RegisterDof(p *expr.GenericModelParam)
	RegisterParam(p *expr.GenericModelParam)
	RegisterFrame(name string, f *frame.Frame)
	RegisterElement(name string, e *element.OpticalElement)
	RegisterDetector(name string, d *element.Detector)
	RegisterPath(name string, p *element.OpticalPath)
	RegisterPort(name string, f *frame.Frame)
	RegisterFactory(name string, factory ElementFactory) error
	LookupFactory(name string) (ElementFactory, bool)
	RegisterNestedModel(cm *CompositeModel)

	Scope() *expr.Scope
	Graph() *expr.Graph
}
