// Package expr implements the pluggable expression-evaluator protocol
// (GenericEvaluator), compiled parameter descriptors (GenericModelParam),
// and the component-param evaluators that bind a compiled expression to a
// concrete target (an element property, a frame's rotation/translation,
// or a named variable), plus the dependency graph that propagates value
// changes between them.
//
// Grounded on gazed-vu/entity.go's array-of-structs/free-list registry
// style for the evaluator arena, and on the spec's own design note
// ("arena of evaluator records plus an adjacency list from parameter node
// to evaluator indices... breadth-first propagation on value change").
// The expression-compiler backend itself is an explicit spec non-goal
// (treated as an opaque pluggable evaluator); the default implementation
// here is a small hand-written recursive-descent evaluator, the reference
// backend the interface exists to let callers replace.
package expr

import "github.com/gazed/optrace/math/lin"

// Scope resolves identifiers to GenericModelParams during expression
// compile/evaluate, and chains to a parent scope the way a nested
// composite model's local scope chains to its host's: "copy parent scope
// (if nested), then insert prefixed DOFs and parameters" (spec §4.4 step
// 3, initGlobalScope).
type Scope struct {
	parent *Scope
	params map[string]*GenericModelParam
	rand   *lin.RandomState
}

// NewScope returns an empty scope chained to parent (nil for the
// outermost/top-level model).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, params: make(map[string]*GenericModelParam)}
}

// Define inserts or overwrites name in this scope (not an ancestor).
func (s *Scope) Define(name string, p *GenericModelParam) {
	s.params[name] = p
}

// Lookup walks this scope and its ancestors, innermost first.
func (s *Scope) Lookup(name string) (*GenericModelParam, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if p, ok := sc.params[name]; ok {
			return p, true
		}
	}
	return nil, false
}

// SetRandomState installs the PRNG this scope's randu()/randn() calls
// read from. Only the top-level model scope needs one set directly;
// nested scopes inherit it via the parent chain.
func (s *Scope) SetRandomState(r *lin.RandomState) { s.rand = r }

// RandomState returns the nearest PRNG in the scope chain, or nil if
// none was ever set.
func (s *Scope) RandomState() *lin.RandomState {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.rand != nil {
			return sc.rand
		}
	}
	return nil
}
