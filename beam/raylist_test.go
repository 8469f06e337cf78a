package beam

import (
	"testing"

	"github.com/gazed/optrace/math/lin"
)

func TestLoadRaysDefaultsWavelengthAndRefNdx(t *testing.T) {
	b := NewRayBeam()
	b.LoadRays([]Ray{
		{Origin: lin.V3{X: 1}, Direction: lin.V3{Z: 1}},
	})
	if b.Wavelength(0) != DefaultWavelength {
		t.Errorf("expected default wavelength %v, got %v", DefaultWavelength, b.Wavelength(0))
	}
	if b.RefNdx(0) != 1.0 {
		t.Errorf("expected default refNdx 1.0, got %v", b.RefNdx(0))
	}
	if b.Amplitude(0) != 1 {
		t.Errorf("expected default amplitude 1, got %v", b.Amplitude(0))
	}
}

func TestLoadRaysClearsMasks(t *testing.T) {
	b := NewRayBeam()
	b.Allocate(3)
	b.Prune(0)
	b.SetIntercepted(1, true)
	b.LoadRays([]Ray{{Direction: lin.V3{Z: 1}}, {Direction: lin.V3{Z: 1}}})
	for i := 0; i < 2; i++ {
		if !b.HasRay(i) {
			t.Errorf("ray %d should exist after LoadRays", i)
		}
		if b.IsIntercepted(i) {
			t.Errorf("ray %d should start non-intercepted after LoadRays", i)
		}
	}
}

func TestToRaysOmitsPrunedByDefault(t *testing.T) {
	b := NewRayBeam()
	b.LoadRays([]Ray{{ID: 1}, {ID: 2, Chief: true}})
	b.Prune(0)

	rays := b.ToRays(false)
	if len(rays) != 1 || rays[0].ID != 2 {
		t.Errorf("expected only the surviving chief ray, got %+v", rays)
	}

	all := b.ToRays(true)
	if len(all) != 2 {
		t.Errorf("expected both rays with keepPruned=true, got %d", len(all))
	}
}

func TestLoadRaysRoundTripsThroughToRays(t *testing.T) {
	b := NewRayBeam()
	in := []Ray{
		{Origin: lin.V3{X: 1, Y: 2, Z: 3}, Direction: lin.V3{Z: 1}, ID: 42, Chief: true, Wavelength: 633e-9, RefNdx: 1.5},
	}
	b.LoadRays(in)
	out := b.ToRays(false)
	if len(out) != 1 {
		t.Fatalf("expected 1 ray, got %d", len(out))
	}
	if out[0].Origin != in[0].Origin || out[0].ID != in[0].ID || out[0].Wavelength != in[0].Wavelength || out[0].RefNdx != in[0].RefNdx {
		t.Errorf("round trip mismatch: got %+v want %+v", out[0], in[0])
	}
	if !out[0].Chief {
		t.Error("expected chief flag to round-trip")
	}
}
