package optics

import (
	"math"

	"github.com/gazed/optrace/math/lin"
)

// EMKind tags the concrete electromagnetic behavior of an EMInterface,
// dispatched in Transmit by a switch on Kind:
// gazed-vu/physics/shape.go's tagged Type()-and-switch idiom, here applied
// to the optical interaction rather than the collision shape.
type EMKind int

const (
	KindDielectric EMKind = iota
	KindMirror
	KindAbsorber
	KindMask
	KindIdealLens
)

// EMInterface transforms a single ray at its recorded intersection point:
// reflection, refraction, absorption, transmission masking, or an ideal
// thin-lens deflection.
type EMInterface struct {
	Kind EMKind

	// Transmission is the interface's scalar transmittance in [0,1],
	// applied to amplitude independent of any per-pixel Map.
	Transmission float64

	// Map is an optional transmittance raster sampled at the ray's
	// local-frame (x,y) hit coordinates; nil means uniform Transmission
	// everywhere within the owning MediumBoundary's clip rectangle.
	Map *TransmissionMap

	// RefNdx is the refractive index of the medium downstream of this
	// interface, used by dielectric refraction.
	RefNdx float64

	// Reflectivity scales amplitude for KindMirror.
	Reflectivity float64

	// FocalLength is the ideal thin-lens focal length for KindIdealLens.
	FocalLength float64

	fullyOpaque      bool
	fullyTransparent bool
}

// NewDielectric returns a refracting interface into a medium of refractive
// index refNdx, with scalar transmittance transmission.
func NewDielectric(refNdx, transmission float64) *EMInterface {
	e := &EMInterface{Kind: KindDielectric, RefNdx: refNdx, Transmission: transmission}
	e.deriveFlags()
	return e
}

// NewMirror returns a reflecting interface with the given reflectivity.
func NewMirror(reflectivity float64) *EMInterface {
	e := &EMInterface{Kind: KindMirror, Reflectivity: reflectivity, Transmission: 0}
	e.deriveFlags()
	return e
}

// NewAbsorber returns a fully opaque, non-reflecting interface (a beam
// dump or baffle).
func NewAbsorber() *EMInterface {
	e := &EMInterface{Kind: KindAbsorber, Transmission: 0}
	e.deriveFlags()
	return e
}

// NewMask returns a pass-through interface whose transmittance is governed
// entirely by m (a hard field stop or apodizer), with no refraction or
// reflection applied to surviving rays.
func NewMask(m *TransmissionMap) *EMInterface {
	e := &EMInterface{Kind: KindMask, Map: m, Transmission: 1, RefNdx: -1}
	e.deriveFlags()
	return e
}

// NewIdealLens returns a paraxial thin lens of the given focal length.
func NewIdealLens(focalLength float64) *EMInterface {
	e := &EMInterface{Kind: KindIdealLens, FocalLength: focalLength, Transmission: 1, RefNdx: -1}
	e.deriveFlags()
	return e
}

func (e *EMInterface) deriveFlags() {
	e.fullyOpaque = e.Kind == KindAbsorber || (e.Transmission <= 0 && e.Map == nil)
	e.fullyTransparent = e.Kind != KindAbsorber && e.Transmission >= 1 && e.Map == nil
}

func (e *EMInterface) FullyOpaque() bool      { return e.fullyOpaque }
func (e *EMInterface) FullyTransparent() bool { return e.fullyTransparent }

// reflect returns the reflection of unit direction u about unit normal n:
// u - 2(u·n)n.
func reflect(u, n *lin.V3) lin.V3 {
	d := u.Dot(n)
	r := *u
	r.X -= 2 * d * n.X
	r.Y -= 2 * d * n.Y
	r.Z -= 2 * d * n.Z
	return r
}

// snell refracts unit direction u across unit normal n (oriented against
// u, i.e. u·n < 0) from a medium of index mu1 into one of index mu2. It
// falls back to reflection and returns tir=true on total internal
// reflection, mirroring the spec's "snell(u,n,μ1/μ2) (TIR fallback)".
func snell(u, n *lin.V3, mu1, mu2 float64) (dir lin.V3, tir bool) {
	nrm := *n
	cosI := -u.Dot(&nrm)
	if cosI < 0 {
		// normal given with the wrong sense relative to the incoming ray.
		nrm.Scale(&nrm, -1)
		cosI = -cosI
	}
	eta := mu1 / mu2
	sin2T := eta * eta * (1 - cosI*cosI)
	if sin2T > 1 {
		r := reflect(u, &nrm)
		return r, true
	}
	cosT := math.Sqrt(1 - sin2T)
	var out lin.V3
	out.X = eta*u.X + (eta*cosI-cosT)*nrm.X
	out.Y = eta*u.Y + (eta*cosI-cosT)*nrm.Y
	out.Z = eta*u.Z + (eta*cosI-cosT)*nrm.Z
	out.Unit()
	return out, false
}

// Reflect exposes reflect(u,n) as a method for callers outside the
// package (spec's EMInterface.reflect helper).
func (e *EMInterface) Reflect(u, n *lin.V3) lin.V3 { return reflect(u, n) }

// Snell exposes snell(u,n,μ1,μ2) as a method for callers outside the
// package (spec's EMInterface.snell helper).
func (e *EMInterface) Snell(u, n *lin.V3, mu1, mu2 float64) (lin.V3, bool) {
	return snell(u, n, mu1, mu2)
}

// Transmit updates direction, refractive index, cumulative optical length,
// and amplitude of every intercepted, alive ray in slice, per spec
// "EMInterface::transmit". Rays rejected by a transmission map are pruned
// via blockLight semantics (non-chief rays only).
func (e *EMInterface) Transmit(slice RaySlice) {
	for i := 0; i < slice.Len(); i++ {
		if !slice.Alive(i) || !slice.IsIntercepted(i) {
			continue
		}

		length := slice.Length(i)
		n1 := slice.RefNdx(i)
		n := slice.Normal(i)

		trans := e.Transmission
		if e.Kind == KindMirror {
			// A mirror's scalar Transmission is 0; its amplitude is
			// scaled by Reflectivity below, so only a Map can block it.
			trans = 1
		}
		if e.Map != nil {
			dest := slice.Destination(i)
			trans = e.Map.Sample(dest.X, dest.Y)
		}
		if trans <= 0 && !slice.IsChief(i) {
			slice.Prune(i)
			continue
		}

		dir := slice.Direction(i)
		switch e.Kind {
		case KindAbsorber:
			if !slice.IsChief(i) {
				slice.Prune(i)
			}
			continue
		case KindMask:
			// pass-through: direction and index unchanged, only
			// amplitude/transmission are affected below.
		case KindMirror:
			r := reflect(&dir, &n)
			slice.SetDirection(i, r)
		case KindIdealLens:
			slice.SetDirection(i, idealLensDeflect(slice.Destination(i), dir, e.FocalLength))
		case KindDielectric:
			r, _ := snell(&dir, &n, n1, e.RefNdx)
			slice.SetDirection(i, r)
			slice.SetRefNdx(i, e.RefNdx)
		}

		slice.SetCumOptLength(i, slice.CumOptLength(i)+length*n1)

		amp := slice.Amplitude(i)
		scale := trans
		if e.Kind == KindMirror {
			scale = e.Reflectivity
		}
		slice.SetAmplitude(i, amp*complex(math.Sqrt(math.Max(scale, 0)), 0))
	}
}

// idealLensDeflect applies the thin-lens ray-transfer equation in the
// paraxial approximation: a ray crossing the lens plane at radial offset
// rho, with transverse direction slope u, is redirected so its slope
// changes by -rho/f (object-space sign convention, lens at the origin with
// axis along local +Z).
func idealLensDeflect(hit lin.V3, dir lin.V3, f float64) lin.V3 {
	if lin.AeqZ(f) {
		return dir
	}
	out := dir
	out.X -= hit.X / f * dir.Z
	out.Y -= hit.Y / f * dir.Z
	out.Unit()
	return out
}
