package element

import (
	"testing"

	"github.com/gazed/optrace/frame"
)

func TestSetUnknownPropertyFails(t *testing.T) {
	e := NewElement("e1", frame.NewWorld("w"))
	if err := e.Set("missing", RealValue(1)); err == nil {
		t.Error("expected error setting undeclared property")
	}
}

func TestSetFiresPropertyChanged(t *testing.T) {
	e := NewElement("e1", frame.NewWorld("w"))
	e.DeclareProperty("radius", RealValue(0))
	var gotName string
	var gotVal PropertyValue
	e.PropertyChanged = func(name string, v PropertyValue) {
		gotName, gotVal = name, v
	}
	if err := e.Set("radius", RealValue(2.5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotName != "radius" || gotVal.R != 2.5 {
		t.Errorf("expected PropertyChanged(radius, 2.5), got (%s, %+v)", gotName, gotVal)
	}
}

func TestSortedPropertiesPreservesDeclarationOrder(t *testing.T) {
	e := NewElement("e1", frame.NewWorld("w"))
	e.DeclareProperty("b", RealValue(0))
	e.DeclareProperty("a", RealValue(0))
	got := e.SortedProperties()
	want := []string{"b", "a"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected declaration order %v, got %v", want, got)
	}
}

func TestSetByIndexResolvesPositionally(t *testing.T) {
	e := NewElement("e1", frame.NewWorld("w"))
	e.DeclareProperty("x", RealValue(0))
	e.DeclareProperty("y", RealValue(0))
	if err := e.SetByIndex(1, RealValue(7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := e.Get("y")
	if v.R != 7 {
		t.Errorf("expected y=7, got %v", v.R)
	}
}

func TestAddChildSetsParentBackReference(t *testing.T) {
	parent := NewElement("p", frame.NewWorld("w"))
	child := NewElement("c", frame.NewWorld("w"))
	parent.AddChild(child)
	if child.Parent() != parent {
		t.Error("expected child's Parent() to be the adding element")
	}
}
