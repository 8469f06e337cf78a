package expr

import (
	"math"
	"testing"
)

func TestDefaultEvaluatorArithmeticPrecedence(t *testing.T) {
	ev := NewDefaultEvaluator()
	scope := NewScope(nil)
	if !ev.Compile("2 + 3 * 4 - 1", scope) {
		t.Fatal("expected compile to succeed")
	}
	if got := ev.Evaluate(); got != 13 {
		t.Errorf("expected 13, got %v", got)
	}
}

func TestDefaultEvaluatorUnaryAndPower(t *testing.T) {
	ev := NewDefaultEvaluator()
	scope := NewScope(nil)
	if !ev.Compile("-2 ^ 2", scope) {
		t.Fatal("expected compile to succeed")
	}
	// power binds tighter than unary minus here since unary wraps
	// power: -2^2 == -(2^2) == -4
	if got := ev.Evaluate(); got != -4 {
		t.Errorf("expected -4, got %v", got)
	}
}

func TestDefaultEvaluatorResolvesIdentifiers(t *testing.T) {
	scope := NewScope(nil)
	scope.Define("x", NewGenericModelParam("x", Description{Min: 0, Max: 10, Default: 5}))

	ev := NewDefaultEvaluator()
	if !ev.Compile("x * 2 + 1", scope) {
		t.Fatal("expected compile to succeed")
	}
	if got := ev.Evaluate(); got != 11 {
		t.Errorf("expected 11, got %v", got)
	}
	deps := ev.Dependencies()
	if len(deps) != 1 || deps[0] != "x" {
		t.Errorf("expected dependency [x], got %v", deps)
	}
}

func TestDefaultEvaluatorRejectsUnresolvedIdentifier(t *testing.T) {
	ev := NewDefaultEvaluator()
	scope := NewScope(nil)
	if ev.Compile("y + 1", scope) {
		t.Error("expected compile to fail on an unresolved identifier")
	}
}

func TestDefaultEvaluatorParentScopeLookup(t *testing.T) {
	parent := NewScope(nil)
	parent.Define("w", NewGenericModelParam("w", Description{Min: 0, Max: 10, Default: 3}))
	child := NewScope(parent)

	ev := NewDefaultEvaluator()
	if !ev.Compile("w + 1", child) {
		t.Fatal("expected compile to succeed via parent scope")
	}
	if got := ev.Evaluate(); got != 4 {
		t.Errorf("expected 4, got %v", got)
	}
}

func TestDefaultEvaluatorBuiltinFunctions(t *testing.T) {
	ev := NewDefaultEvaluator()
	scope := NewScope(nil)
	if !ev.Compile("sqrt(16) + abs(-3)", scope) {
		t.Fatal("expected compile to succeed")
	}
	if got := ev.Evaluate(); got != 7 {
		t.Errorf("expected 7, got %v", got)
	}
}

func TestDefaultEvaluatorCustomFunction(t *testing.T) {
	ev := NewDefaultEvaluator()
	ev.RegisterCustomFunction("double", func(args []float64) float64 { return args[0] * 2 })
	scope := NewScope(nil)
	if !ev.Compile("double(21)", scope) {
		t.Fatal("expected compile to succeed")
	}
	if got := ev.Evaluate(); got != 42 {
		t.Errorf("expected 42, got %v", got)
	}
}

func TestDefaultEvaluatorRandUsesScopeRandomState(t *testing.T) {
	ev := NewDefaultEvaluator()
	scope := NewScope(nil)
	if !ev.Compile("randu()", scope) {
		t.Fatal("expected compile to succeed")
	}
	if got := ev.Evaluate(); !math.IsNaN(got) {
		t.Errorf("expected NaN with no RandomState installed, got %v", got)
	}
}

func TestDefaultEvaluatorParenthesesOverridePrecedence(t *testing.T) {
	ev := NewDefaultEvaluator()
	scope := NewScope(nil)
	if !ev.Compile("(2 + 3) * 4", scope) {
		t.Fatal("expected compile to succeed")
	}
	if got := ev.Evaluate(); got != 20 {
		t.Errorf("expected 20, got %v", got)
	}
}
