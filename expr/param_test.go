package expr

import (
	"math"
	"testing"
)

func TestGenericModelParamTest(t *testing.T) {
	p := NewGenericModelParam("p", Description{Min: -1, Max: 1, Default: 0})
	if !p.Test(0.5) {
		t.Error("expected 0.5 to be within bounds")
	}
	if p.Test(2) {
		t.Error("expected 2 to be out of bounds")
	}
}

func TestGenericModelParamSetValueRejectsOutOfRange(t *testing.T) {
	p := NewGenericModelParam("p", Description{Min: 0, Max: 10, Default: 5})
	if err := p.SetValue(20); err == nil {
		t.Error("expected an error for an out-of-range value")
	}
	if p.Value != 5 {
		t.Errorf("expected value to remain at default after rejection, got %v", p.Value)
	}
}

func TestGenericModelParamSetValueRejectsNaN(t *testing.T) {
	p := NewGenericModelParam("p", Description{Min: 0, Max: 10, Default: 5})
	if err := p.SetValue(math.NaN()); err == nil {
		t.Error("expected an error for NaN")
	}
}

func TestGenericModelParamSetValuePropagatesToDependents(t *testing.T) {
	p := NewGenericModelParam("p", Description{Min: 0, Max: 10, Default: 1})
	scope := NewScope(nil)
	scope.Define("p", p)

	target := NewGenericModelParam("target", Description{Min: 0, Max: 100, Default: 0})
	e := &GenericComponentParamEvaluator{Expression: "p * 2", Target: TargetVariable, Param: target}
	if err := e.Compile(scope); err != nil {
		t.Fatalf("compile: %v", err)
	}

	if err := p.SetValue(4); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if target.Value != 8 {
		t.Errorf("expected dependent target to update to 8, got %v", target.Value)
	}
}
