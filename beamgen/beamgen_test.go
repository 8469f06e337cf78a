package beamgen

import (
	"math"
	"testing"

	"github.com/gazed/optrace/element"
	"github.com/gazed/optrace/frame"
	"github.com/gazed/optrace/math/lin"
)

func TestCollimatedRaysAreParallelOnRingWithChiefFirst(t *testing.T) {
	w := frame.NewWorld("world")
	w.Recalculate()

	rays := Collimated(w, 1.0, 8, nil)
	if len(rays) != 8 {
		t.Fatalf("expected 8 rays, got %d", len(rays))
	}
	want := lin.V3{Z: 1}
	for i, r := range rays {
		if !r.Direction.Aeq(&want) {
			t.Errorf("ray %d: expected direction %+v, got %+v", i, want, r.Direction)
		}
		if got := r.Origin.Len(); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("ray %d: expected origin on unit ring, radius=%v", i, got)
		}
		if r.ID != int64(i) {
			t.Errorf("ray %d: expected ID %d, got %d", i, i, r.ID)
		}
		if (i == 0) != r.Chief {
			t.Errorf("ray %d: expected Chief=%v, got %v", i, i == 0, r.Chief)
		}
	}
}

func TestCollimatedRingCentroidIsOrigin(t *testing.T) {
	w := frame.NewWorld("world")
	w.Recalculate()

	rays := Collimated(w, 1.0, 100, nil)
	var sum lin.V3
	for _, r := range rays {
		sum.Add(&sum, &r.Origin)
	}
	sum.Div(float64(len(rays)))
	if sum.Len() > 1e-9 {
		t.Errorf("expected ring centroid at origin, got %+v", sum)
	}
}

func TestFocusedRaysConvergeOnTarget(t *testing.T) {
	w := frame.NewWorld("world")
	w.Recalculate()

	const targetDistance = 2.0
	rays := Focused(w, 0.5, targetDistance, 6, nil)
	target := lin.V3{Z: targetDistance}
	for i, r := range rays {
		dist := r.Origin.Dist(&target)
		var hit lin.V3
		hit.Scale(&r.Direction, dist)
		hit.Add(&hit, &r.Origin)
		if !hit.Aeq(&target) {
			t.Errorf("ray %d: expected to converge on %+v, traced to %+v", i, target, hit)
		}
	}
}

func TestSkyRaysStayWithinAngularRadius(t *testing.T) {
	w := frame.NewWorld("world")
	w.Recalculate()

	const angularRadius = 0.1
	base := lin.V3{Z: 1}
	rays := Sky(w, 0, 0, angularRadius, 20, nil)
	for i, r := range rays {
		cos := r.Direction.Dot(&base)
		if cos < math.Cos(angularRadius)-1e-9 {
			t.Errorf("ray %d: direction %+v strayed outside angular radius %v", i, r.Direction, angularRadius)
		}
		if r.Origin.Len() > 1e-9 {
			t.Errorf("ray %d: expected origin at frame center, got %+v", i, r.Origin)
		}
	}
}

func TestPlaneRaysStayWithinPatchAndArePerpendicular(t *testing.T) {
	w := frame.NewWorld("world")
	w.Recalculate()

	const width, height = 2.0, 1.0
	rays := Plane(w, width, height, 9, nil)
	want := lin.V3{Z: 1}
	for i, r := range rays {
		if !r.Direction.Aeq(&want) {
			t.Errorf("ray %d: expected direction %+v, got %+v", i, want, r.Direction)
		}
		if math.Abs(r.Origin.X) > width/2+1e-9 {
			t.Errorf("ray %d: origin.X=%v outside patch width %v", i, r.Origin.X, width)
		}
		if math.Abs(r.Origin.Y) > height/2+1e-9 {
			t.Errorf("ray %d: origin.Y=%v outside patch height %v", i, r.Origin.Y, height)
		}
	}
}

func TestElementRelativeOffsetsFromElementFrame(t *testing.T) {
	w := frame.NewWorld("world")
	ef := frame.NewTranslated(w, "el", lin.V3{X: 3})
	ef.Recalculate()
	oe := element.NewOpticalElement("el", ef)

	offset := lin.V3{Z: 5}
	rays := ElementRelative(oe, offset, 0.25, 4, nil)
	if len(rays) != 4 {
		t.Fatalf("expected 4 rays, got %d", len(rays))
	}
	var centroid lin.V3
	for _, r := range rays {
		centroid.Add(&centroid, &r.Origin)
	}
	centroid.Div(float64(len(rays)))
	want := lin.V3{X: 3, Z: 5}
	if !centroid.Aeq(&want) {
		t.Errorf("expected centroid at %+v, got %+v", want, centroid)
	}
}

func TestCollimatedToleratesSeededRandomState(t *testing.T) {
	w := frame.NewWorld("world")
	w.Recalculate()
	rand := lin.NewRandomState(7)

	rays := Collimated(w, 1.0, 5, rand)
	if len(rays) != 5 {
		t.Fatalf("expected 5 rays, got %d", len(rays))
	}
	if !rays[0].Chief {
		t.Error("expected ray 0 to remain Chief when a RandomState is supplied")
	}
}
