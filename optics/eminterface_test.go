package optics

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gazed/optrace/math/lin"
)

// newSolidGray builds a w x h grayscale image with every pixel set to
// value (0=black/opaque, 255=white/transparent), for transmission-map
// tests that don't need a real PNG round-trip.
func newSolidGray(w, h int, value uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: value})
		}
	}
	return img
}

func TestReflectPreservesLength(t *testing.T) {
	u := &lin.V3{X: 1, Y: 0, Z: -1}
	u.Unit()
	n := &lin.V3{X: 0, Y: 0, Z: 1}
	r := reflect(u, n)
	if math.Abs(r.Len()-1) > 1e-12 {
		t.Errorf("expected unit length after reflect, got %v", r.Len())
	}
	if r.Z <= 0 {
		t.Errorf("expected reflected ray to flip z sign, got %+v", r)
	}
}

func TestSnellRoundTrip(t *testing.T) {
	// snell(snell(u, n, mu), n, 1/mu) returns u within 1e-12 when no TIR
	// occurs (spec §8 round-trip law).
	u := &lin.V3{X: 0.3, Y: 0, Z: -1}
	u.Unit()
	n := &lin.V3{X: 0, Y: 0, Z: 1}
	mu := 1.5

	refracted, tir := snell(u, n, 1.0, mu)
	if tir {
		t.Fatal("did not expect TIR on the forward pass")
	}
	back, tir2 := snell(&refracted, n, mu, 1.0)
	if tir2 {
		t.Fatal("did not expect TIR on the return pass")
	}
	if math.Abs(back.X-u.X) > 1e-12 || math.Abs(back.Y-u.Y) > 1e-12 || math.Abs(back.Z-u.Z) > 1e-12 {
		t.Errorf("round trip mismatch: got %+v want %+v", back, *u)
	}
}

func TestSnellTotalInternalReflection(t *testing.T) {
	// A steeply grazing ray going from a denser to a less dense medium
	// should trigger TIR and fall back to reflection.
	u := &lin.V3{X: 0.99, Y: 0, Z: -0.01}
	u.Unit()
	n := &lin.V3{X: 0, Y: 0, Z: 1}
	_, tir := snell(u, n, 1.5, 1.0)
	if !tir {
		t.Error("expected total internal reflection at grazing incidence into a less dense medium")
	}
}

// fakeSlice is a minimal in-memory RaySlice used to test EMInterface.Transmit
// without depending on the beam package.
type fakeSlice struct {
	n            int
	alive        []bool
	intercepted  []bool
	chief        []bool
	origin       []lin.V3
	dir          []lin.V3
	dest         []lin.V3
	normal       []lin.V3
	length       []float64
	refNdx       []float64
	cumOptLength []float64
	amplitude    []complex128
	wavelength   []float64
}

func newFakeSlice(n int) *fakeSlice {
	s := &fakeSlice{n: n}
	s.alive = make([]bool, n)
	s.intercepted = make([]bool, n)
	s.chief = make([]bool, n)
	s.origin = make([]lin.V3, n)
	s.dir = make([]lin.V3, n)
	s.dest = make([]lin.V3, n)
	s.normal = make([]lin.V3, n)
	s.length = make([]float64, n)
	s.refNdx = make([]float64, n)
	s.cumOptLength = make([]float64, n)
	s.amplitude = make([]complex128, n)
	s.wavelength = make([]float64, n)
	for i := range s.alive {
		s.alive[i] = true
		s.refNdx[i] = 1
		s.amplitude[i] = 1
	}
	return s
}

func (s *fakeSlice) Len() int               { return s.n }
func (s *fakeSlice) Alive(i int) bool       { return s.alive[i] }
func (s *fakeSlice) IsChief(i int) bool     { return s.chief[i] }
func (s *fakeSlice) Origin(i int) lin.V3    { return s.origin[i] }
func (s *fakeSlice) Direction(i int) lin.V3 { return s.dir[i] }
func (s *fakeSlice) SetDirection(i int, v lin.V3)    { s.dir[i] = v }
func (s *fakeSlice) Destination(i int) lin.V3        { return s.dest[i] }
func (s *fakeSlice) SetDestination(i int, v lin.V3)  { s.dest[i] = v }
func (s *fakeSlice) SetNormal(i int, v lin.V3)        { s.normal[i] = v }
func (s *fakeSlice) Normal(i int) lin.V3               { return s.normal[i] }
func (s *fakeSlice) Length(i int) float64             { return s.length[i] }
func (s *fakeSlice) SetLength(i int, t float64)       { s.length[i] = t }
func (s *fakeSlice) IsIntercepted(i int) bool         { return s.intercepted[i] }
func (s *fakeSlice) SetIntercepted(i int, v bool)     { s.intercepted[i] = v }
func (s *fakeSlice) Prune(i int) {
	if !s.chief[i] {
		s.alive[i] = false
	}
}
func (s *fakeSlice) RefNdx(i int) float64                { return s.refNdx[i] }
func (s *fakeSlice) SetRefNdx(i int, v float64)          { s.refNdx[i] = v }
func (s *fakeSlice) CumOptLength(i int) float64          { return s.cumOptLength[i] }
func (s *fakeSlice) SetCumOptLength(i int, v float64)    { s.cumOptLength[i] = v }
func (s *fakeSlice) Amplitude(i int) complex128          { return s.amplitude[i] }
func (s *fakeSlice) SetAmplitude(i int, v complex128)    { s.amplitude[i] = v }
func (s *fakeSlice) Wavelength(i int) float64            { return s.wavelength[i] }

func TestMirrorTransmitReflectsDirection(t *testing.T) {
	slice := newFakeSlice(1)
	slice.intercepted[0] = true
	slice.dir[0] = lin.V3{X: 0, Y: 0, Z: -1}
	slice.normal[0] = lin.V3{X: 0, Y: 0, Z: 1}
	slice.length[0] = 1

	m := NewMirror(1.0)
	m.Transmit(slice)

	got := slice.Direction(0)
	if math.Abs(got.Z-1) > 1e-12 {
		t.Errorf("expected mirror to flip direction to +z, got %+v", got)
	}
}

func TestAbsorberPrunesNonChiefRays(t *testing.T) {
	slice := newFakeSlice(2)
	slice.intercepted[0] = true
	slice.intercepted[1] = true
	slice.chief[0] = true // chief ray survives absorption

	a := NewAbsorber()
	a.Transmit(slice)

	if !slice.Alive(0) {
		t.Error("expected chief ray to survive absorber")
	}
	if slice.Alive(1) {
		t.Error("expected non-chief ray to be pruned by absorber")
	}
}

func TestMaskBlocksOpaqueRegion(t *testing.T) {
	img := newSolidGray(4, 4, 0) // fully opaque raster
	m := NewTransmissionMapFromImage(img, 1, 1)
	slice := newFakeSlice(1)
	slice.intercepted[0] = true
	slice.dest[0] = lin.V3{X: 0, Y: 0, Z: 0}

	em := NewMask(m)
	em.Transmit(slice)

	if slice.Alive(0) {
		t.Error("expected ray at fully opaque raster location to be pruned")
	}
}
