package expr

import (
	"fmt"
	"math"

	"github.com/gazed/optrace/element"
	"github.com/gazed/optrace/frame"
)

// TargetVariant tags what a GenericComponentParamEvaluator's compiled
// value is assigned into.
type TargetVariant int

const (
	TargetElement TargetVariant = iota
	TargetRotatedFrame
	TargetTranslatedFrame
	TargetVariable
)

func (t TargetVariant) String() string {
	switch t {
	case TargetElement:
		return "element"
	case TargetRotatedFrame:
		return "rotated-frame"
	case TargetTranslatedFrame:
		return "translated-frame"
	case TargetVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// FrameAxis names which RotatedFrame/TranslatedFrame field an evaluator
// feeds, mirroring spec §4.4's "angle, eX/eY/eZ" and "dX/dY/dZ" axis tags.
type FrameAxis int

const (
	AxisAngle FrameAxis = iota
	AxisX
	AxisY
	AxisZ
)

// GenericComponentParamEvaluator is a compiled expression bound to a
// target. At least one of Expression or Evaluator must be set before
// Compile: Expression is the source text passed to Evaluator.Compile;
// Evaluator is the compiled form (supplied directly, or created by
// Compile, after which both fields are populated).
type GenericComponentParamEvaluator struct {
	Expression string
	Evaluator  GenericEvaluator

	Target TargetVariant

	// Element/PropertyName or PropertyIndex (PropertyIndex < 0 means use
	// PropertyName) — for Target == TargetElement.
	Element       *element.Element
	PropertyName  string
	PropertyIndex int

	// Frame/Axis — for Target == TargetRotatedFrame or TargetTranslatedFrame.
	Frame *frame.Frame
	Axis  FrameAxis

	// Param — for Target == TargetVariable: the GenericModelParam this
	// evaluator's value is exposed as.
	Param *GenericModelParam
}

// Compile compiles Expression against scope (a no-op if an Evaluator was
// already supplied directly), and registers this evaluator as a
// dependent of every symbol it reads.
func (e *GenericComponentParamEvaluator) Compile(scope *Scope) error {
	if e.Evaluator == nil {
		if e.Expression == "" {
			return fmt.Errorf("component param evaluator: neither Expression nor Evaluator is set")
		}
		e.Evaluator = NewDefaultEvaluator()
	}
	if e.Expression != "" {
		if !e.Evaluator.Compile(e.Expression, scope) {
			return fmt.Errorf("component param evaluator: failed to compile %q", e.Expression)
		}
	}
	for _, dep := range e.Evaluator.Dependencies() {
		if p, ok := scope.Lookup(dep); ok {
			p.AddDependent(e)
		}
	}
	return nil
}

func (e *GenericComponentParamEvaluator) value() float64 {
	if e.Evaluator == nil {
		return math.NaN()
	}
	return e.Evaluator.Evaluate()
}

// Assign discriminates on Target and writes the evaluator's current
// value into its bound destination, per spec §4.4's
// GenericComponentParamEvaluator::assign().
func (e *GenericComponentParamEvaluator) Assign() error {
	v := e.value()
	switch e.Target {
	case TargetElement:
		if e.PropertyIndex >= 0 {
			return e.Element.SetByIndex(e.PropertyIndex, element.RealValue(v))
		}
		return e.Element.Set(e.PropertyName, element.RealValue(v))

	case TargetRotatedFrame:
		switch e.Axis {
		case AxisAngle:
			e.Frame.SetAngle(v * math.Pi / 180)
		case AxisX, AxisY, AxisZ:
			axis := e.Frame.Axis()
			switch e.Axis {
			case AxisX:
				axis.X = v
			case AxisY:
				axis.Y = v
			case AxisZ:
				axis.Z = v
			}
			e.Frame.SetAxis(axis)
		}
		e.Frame.Recalculate()
		return nil

	case TargetTranslatedFrame:
		switch e.Axis {
		case AxisX:
			e.Frame.SetDistanceX(v)
		case AxisY:
			e.Frame.SetDistanceY(v)
		case AxisZ:
			e.Frame.SetDistanceZ(v)
		}
		e.Frame.Recalculate()
		return nil

	case TargetVariable:
		if e.Param == nil {
			return fmt.Errorf("component param evaluator: TargetVariable with no Param bound")
		}
		if math.IsNaN(v) {
			return fmt.Errorf("param %q: evaluator produced NaN", e.Param.Name)
		}
		if !e.Param.Test(v) {
			return fmt.Errorf("param %q: evaluated value %v out of range [%v, %v]",
				e.Param.Name, v, e.Param.Desc.Min, e.Param.Desc.Max)
		}
		e.Param.Value = v
		return e.Param.notifyDependents()

	default:
		return fmt.Errorf("component param evaluator: unknown target %v", e.Target)
	}
}
