package expr

import (
	"fmt"
	"math"
)

// Description is a parameter's static bounds, the "pointer to its static
// description" spec's GenericModelParam carries.
type Description struct {
	Min, Max, Default float64
}

// GenericModelParam is a compiled parameter descriptor: one DOF or named
// parameter, its current value, and the evaluators that must be
// reassigned whenever that value changes.
type GenericModelParam struct {
	Name  string
	Desc  Description
	Value float64

	// Dependents are back-pointers to every GenericComponentParamEvaluator
	// whose expression reads this param, appended exactly once at compile
	// time (spec §4.3 invariant on GenericComponentParamEvaluator).
	Dependents []*GenericComponentParamEvaluator
}

// NewGenericModelParam allocates a param at its description's default
// value, per spec §4.4 step 1 (createParams).
func NewGenericModelParam(name string, desc Description) *GenericModelParam {
	return &GenericModelParam{Name: name, Desc: desc, Value: desc.Default}
}

// Test reports whether v lies within [min, max].
func (p *GenericModelParam) Test(v float64) bool {
	return p.Desc.Min <= v && v <= p.Desc.Max
}

// AddDependent registers e as a dependent of this param.
func (p *GenericModelParam) AddDependent(e *GenericComponentParamEvaluator) {
	p.Dependents = append(p.Dependents, e)
}

// SetValue validates v, stores it, and reassigns every dependent in
// creation order — the setDof/setParam path of spec §4.4.
func (p *GenericModelParam) SetValue(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("param %q: value is NaN", p.Name)
	}
	if !p.Test(v) {
		return fmt.Errorf("param %q: value %v out of range [%v, %v]", p.Name, v, p.Desc.Min, p.Desc.Max)
	}
	p.Value = v
	return p.notifyDependents()
}

// notifyDependents reassigns this param's dependents breadth-first: the
// queue starts with the direct dependents and grows with each Variable
// target's own dependents as it is reached, per the design note's
// "breadth-first propagation on value change". Cycles cannot occur: a
// context's expressions may only reference symbols from strictly outer
// or earlier contexts.
func (p *GenericModelParam) notifyDependents() error {
	queue := append([]*GenericComponentParamEvaluator(nil), p.Dependents...)
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e.Target != TargetVariable || e.Param == nil {
			if err := e.Assign(); err != nil {
				return err
			}
			continue
		}
		v := e.value()
		if math.IsNaN(v) {
			return fmt.Errorf("param %q: evaluator produced NaN", e.Param.Name)
		}
		if !e.Param.Test(v) {
			return fmt.Errorf("param %q: evaluated value %v out of range [%v, %v]",
				e.Param.Name, v, e.Param.Desc.Min, e.Param.Desc.Max)
		}
		e.Param.Value = v
		queue = append(queue, e.Param.Dependents...)
	}
	return nil
}
