package lin

import "testing"

func TestUnitZeroLength(t *testing.T) {
	v := &V3{}
	v.Unit()
	if v.X != 0 || v.Y != 0 || v.Z != 0 {
		t.Errorf("unit of zero vector should stay zero, got %+v", v)
	}
}

func TestCrossPerpendicular(t *testing.T) {
	a, b := &V3{1, 0, 0}, &V3{0, 1, 0}
	var c V3
	c.Cross(a, b)
	if c.Dot(a) != 0 || c.Dot(b) != 0 {
		t.Errorf("cross product should be perpendicular to both inputs, got %+v", c)
	}
	want := V3{0, 0, 1}
	if !c.Aeq(&want) {
		t.Errorf("got %+v want %+v", c, want)
	}
}

func TestDotLen(t *testing.T) {
	v := &V3{3, 4, 0}
	if v.Len() != 5 {
		t.Errorf("expected length 5, got %f", v.Len())
	}
}
