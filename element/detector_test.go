package element

import (
	"math"
	"testing"

	"github.com/gazed/optrace/frame"
	"github.com/gazed/optrace/math/lin"
)

func TestNewDetectorDeclaresProperties(t *testing.T) {
	f := frame.NewWorld("w")
	d := NewDetector("det", f, 0.5, 0.25)

	if d.Width != 1 || d.Height != 0.5 {
		t.Fatalf("expected width/height 1/0.5, got %v/%v", d.Width, d.Height)
	}
	if v, ok := d.Get("width"); !ok || v.R != 1 {
		t.Errorf("expected width property 1, got %v ok=%v", v, ok)
	}
	if !d.Surface.RecordHits {
		t.Error("expected detector readout surface to record hits")
	}
}

func TestDetectorAsDetectorRoundtrip(t *testing.T) {
	f := frame.NewWorld("w")
	d := NewDetector("det", f, 0.5, 0.5)

	got, ok := d.OpticalElement.AsDetector()
	if !ok || got != d {
		t.Fatalf("expected AsDetector to recover the same Detector, got %v ok=%v", got, ok)
	}

	plain := NewOpticalElement("plain", f)
	if _, ok := plain.AsDetector(); ok {
		t.Error("expected a plain OpticalElement to not be a Detector")
	}
}

func TestDetectorPropertySetResizesSurface(t *testing.T) {
	f := frame.NewWorld("w")
	d := NewDetector("det", f, 0.5, 0.5)

	if err := d.Set("width", RealValue(4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Width != 4 {
		t.Errorf("expected Width updated to 4, got %v", d.Width)
	}
	hx, _ := d.Surface.Boundary.Shape.HalfExtents()
	if hx != 2 {
		t.Errorf("expected boundary half-width 2, got %v", hx)
	}
}

func TestDetectorClearDiscardsHits(t *testing.T) {
	f := frame.NewWorld("w")
	d := NewDetector("det", f, 1, 1)
	d.Surface.AppendHit(Hit{RayID: 1})
	d.Clear()
	if len(d.Surface.Hits()) != 0 {
		t.Errorf("expected no hits after Clear, got %d", len(d.Surface.Hits()))
	}
}

func TestDetectorFootprintEmpty(t *testing.T) {
	f := frame.NewWorld("w")
	d := NewDetector("det", f, 1, 1)
	fp := d.Footprint()
	if fp.N != 0 {
		t.Errorf("expected empty footprint for no hits, got N=%d", fp.N)
	}
}

// TestDetectorFootprintRing mirrors spec §8's parabolic-reflector-focus
// scenario: a symmetric ring of hits centered on the origin should
// report a zero centroid and a max/RMS radius equal to the ring radius.
func TestDetectorFootprintRing(t *testing.T) {
	f := frame.NewWorld("w")
	d := NewDetector("det", f, 10, 10)

	const n = 100
	const r = 0.5
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / n
		d.Surface.AppendHit(Hit{
			RayID:    int64(i),
			Location: lin.V3{X: r * math.Cos(theta), Y: r * math.Sin(theta)},
		})
	}

	fp := d.Footprint()
	if fp.N != n {
		t.Fatalf("expected %d hits, got %d", n, fp.N)
	}
	if math.Abs(fp.Centroid.X) > 1e-9 || math.Abs(fp.Centroid.Y) > 1e-9 {
		t.Errorf("expected centroid at origin, got %+v", fp.Centroid)
	}
	if math.Abs(fp.MaxRadius-r) > 1e-9 {
		t.Errorf("expected max radius %v, got %v", r, fp.MaxRadius)
	}
	if math.Abs(fp.RMSRadius-r) > 1e-9 {
		t.Errorf("expected RMS radius %v, got %v", r, fp.RMSRadius)
	}
}
