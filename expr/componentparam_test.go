package expr

import (
	"math"
	"testing"

	"github.com/gazed/optrace/element"
	"github.com/gazed/optrace/frame"
	"github.com/gazed/optrace/math/lin"
)

func TestComponentParamEvaluatorAssignElementProperty(t *testing.T) {
	w := frame.NewWorld("w")
	el := element.NewElement("lens", w)
	el.DeclareProperty("focalLength", element.RealValue(0))

	scope := NewScope(nil)
	e := &GenericComponentParamEvaluator{
		Expression:    "50 + 5",
		Target:        TargetElement,
		Element:       el,
		PropertyName:  "focalLength",
		PropertyIndex: -1,
	}
	if err := e.Compile(scope); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := e.Assign(); err != nil {
		t.Fatalf("assign: %v", err)
	}
	v, _ := el.Get("focalLength")
	if got, _ := v.AsReal(); got != 55 {
		t.Errorf("expected focalLength 55, got %v", got)
	}
}

func TestComponentParamEvaluatorAssignRotatedFrameAngle(t *testing.T) {
	w := frame.NewWorld("w")
	rf := frame.NewRotated(w, "r", lin.V3{Z: 1}, 0)

	scope := NewScope(nil)
	e := &GenericComponentParamEvaluator{
		Expression: "90",
		Target:     TargetRotatedFrame,
		Frame:      rf,
		Axis:       AxisAngle,
	}
	if err := e.Compile(scope); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := e.Assign(); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if !rf.IsCalculated() {
		t.Error("expected Assign to recalculate the frame")
	}
}

func TestComponentParamEvaluatorAssignTranslatedFrameDistance(t *testing.T) {
	w := frame.NewWorld("w")
	tf := frame.NewTranslated(w, "t", lin.V3{})
	w.Recalculate()

	scope := NewScope(nil)
	e := &GenericComponentParamEvaluator{
		Expression: "12.5",
		Target:     TargetTranslatedFrame,
		Frame:      tf,
		Axis:       AxisZ,
	}
	if err := e.Compile(scope); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := e.Assign(); err != nil {
		t.Fatalf("assign: %v", err)
	}
	got := tf.Center()
	if math.Abs(got.Z-12.5) > 1e-9 {
		t.Errorf("expected center.Z 12.5, got %v", got.Z)
	}
}

func TestComponentParamEvaluatorAssignVariableRejectsOutOfRange(t *testing.T) {
	scope := NewScope(nil)
	target := NewGenericModelParam("target", Description{Min: 0, Max: 10, Default: 0})
	e := &GenericComponentParamEvaluator{Expression: "100", Target: TargetVariable, Param: target}
	if err := e.Compile(scope); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := e.Assign(); err == nil {
		t.Error("expected an out-of-range assignment to fail")
	}
	if target.Value != 0 {
		t.Errorf("expected target value to remain at default after rejection, got %v", target.Value)
	}
}

func TestGraphAssignAllRunsInRegistrationOrder(t *testing.T) {
	w := frame.NewWorld("w")
	el := element.NewElement("el", w)
	el.DeclareProperty("a", element.RealValue(0))
	el.DeclareProperty("b", element.RealValue(0))

	var order []string
	el.PropertyChanged = func(name string, _ element.PropertyValue) { order = append(order, name) }

	scope := NewScope(nil)
	g := NewGraph()
	g.Register(&GenericComponentParamEvaluator{Expression: "1", Target: TargetElement, Element: el, PropertyName: "a", PropertyIndex: -1})
	g.Register(&GenericComponentParamEvaluator{Expression: "2", Target: TargetElement, Element: el, PropertyName: "b", PropertyIndex: -1})
	for i := 0; i < g.Len(); i++ {
		if err := g.At(i).Compile(scope); err != nil {
			t.Fatalf("compile %d: %v", i, err)
		}
	}
	if err := g.AssignAll(); err != nil {
		t.Fatalf("assignAll: %v", err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("expected assignment order [a b], got %v", order)
	}
}
