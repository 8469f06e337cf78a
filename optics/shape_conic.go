package optics

import (
	"math"

	"github.com/gazed/optrace/math/lin"
)

// conicCap is a rotationally symmetric sag surface with vertex at the local
// origin, vertex curvature 1/R and conic constant K, clipped to a circular
// aperture of radius ApertureR. Its implicit form is the standard conic
// equation x²+y²+(1+K)z²-2Rz=0; SphericalCap (K=0) and ParabolicCap (K=-1)
// are named constructors over the same representation, and ConicCap exposes
// K directly.
//
// Grounded on castRaySphere's quadratic-in-t derivation (gazed-vu's
// physics/caster.go), generalized from the sphere's restricted A,B,C terms
// to the full conic implicit form; the nearest non-negative root within the
// aperture is reported, matching castRaySphere's "closest contact point"
// contract.
type conicCap struct {
	kind      ShapeKind
	R         float64 // vertex radius of curvature; R=0 degenerates to a flat disk.
	K         float64 // conic constant.
	ApertureR float64
}

// NewSphericalCap returns a spherical cap of vertex curvature radius r and
// clear-aperture radius apertureR.
func NewSphericalCap(r, apertureR float64) *conicCap {
	return &conicCap{kind: KindSphericalCap, R: r, K: 0, ApertureR: math.Abs(apertureR)}
}

// NewParabolicCap returns a paraboloidal cap of vertex curvature radius r
// (K=-1) and clear-aperture radius apertureR.
func NewParabolicCap(r, apertureR float64) *conicCap {
	return &conicCap{kind: KindParabolicCap, R: r, K: -1, ApertureR: math.Abs(apertureR)}
}

// NewConicCap returns a general conic cap of vertex curvature radius r,
// conic constant k, and clear-aperture radius apertureR.
func NewConicCap(r, k, apertureR float64) *conicCap {
	return &conicCap{kind: KindConicCap, R: r, K: k, ApertureR: math.Abs(apertureR)}
}

func (c *conicCap) Kind() ShapeKind { return c.kind }

func (c *conicCap) Area() float64 {
	return math.Pi * c.ApertureR * c.ApertureR
}

func (c *conicCap) HalfExtents() (hx, hy float64) { return c.ApertureR, c.ApertureR }

// sagZ returns the surface sag at radius r from the axis; used by
// GeneratePoints and by callers that need the vertex-relative height rather
// than a full ray intercept.
func (c *conicCap) sagZ(r float64) float64 {
	if lin.AeqZ(c.R) {
		return 0
	}
	curv := 1 / c.R
	disc := 1 - (1+c.K)*curv*curv*r*r
	if disc < 0 {
		disc = 0
	}
	return curv * r * r / (1 + math.Sqrt(disc))
}

func (c *conicCap) Intercept(origin, dir *lin.V3, hit, normal *lin.V3, t *float64) bool {
	if lin.AeqZ(c.R) {
		// Flat disk degeneracy: R=0 collapses the conic to z=0.
		if !sagInterceptPlane(origin, dir, hit, normal, t) {
			return false
		}
		return radialExtent(hit.X, hit.Y, 0, c.ApertureR)
	}

	ox, oy, oz := origin.X, origin.Y, origin.Z
	dx, dy, dz := dir.X, dir.Y, dir.Z
	k1 := 1 + c.K

	a := dx*dx + dy*dy + k1*dz*dz
	b := 2*(ox*dx+oy*dy) + 2*k1*oz*dz - 2*c.R*dz
	cc := ox*ox + oy*oy + k1*oz*oz - 2*c.R*oz

	var tCandidate float64
	found := false

	if lin.AeqZ(a) {
		if lin.AeqZ(b) {
			return false
		}
		tCandidate = -cc / b
		if tCandidate >= 0 {
			found = true
		}
	} else {
		disc := b*b - 4*a*cc
		if disc < 0 {
			return false
		}
		sq := math.Sqrt(disc)
		t1 := (-b - sq) / (2 * a)
		t2 := (-b + sq) / (2 * a)
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 >= 0 {
			tCandidate, found = t1, true
		} else if t2 >= 0 {
			tCandidate, found = t2, true
		}
	}
	if !found {
		return false
	}

	hx := ox + dx*tCandidate
	hy := oy + dy*tCandidate
	hz := oz + dz*tCandidate
	if !radialExtent(hx, hy, 0, c.ApertureR) {
		return false
	}

	hit.SetS(hx, hy, hz)
	// Surface gradient of F(x,y,z) = x²+y²+(1+K)z²-2Rz is the outward
	// normal direction: (2x, 2y, 2(1+K)z-2R).
	normal.SetS(2*hx, 2*hy, 2*k1*hz-2*c.R)
	if normal.LenSqr() == 0 {
		normal.SetS(0, 0, 1)
	} else {
		normal.Unit()
		if normal.Z < 0 {
			normal.Scale(normal, -1)
		}
	}
	*t = tCandidate
	return true
}

func (c *conicCap) GeneratePoints(n int, outPts, outNormals []lin.V3) {
	uniformDiskSample(n, 0, c.ApertureR, outPts, outNormals)
	for i := 0; i < n && i < len(outPts); i++ {
		p := &outPts[i]
		r := math.Hypot(p.X, p.Y)
		p.Z = c.sagZ(r)
		k1 := 1 + c.K
		nrm := &outNormals[i]
		nrm.SetS(2*p.X, 2*p.Y, 2*k1*p.Z-2*c.R)
		if nrm.LenSqr() == 0 {
			nrm.SetS(0, 0, 1)
		} else {
			nrm.Unit()
			if nrm.Z < 0 {
				nrm.Scale(nrm, -1)
			}
		}
	}
}
