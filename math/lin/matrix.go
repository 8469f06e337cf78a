package lin

import "math"

// M3 is a 3x3 row-major matrix with individually addressable elements.
//
//	[Xx Xy Xz]
//	[Yx Yy Yz]
//	[Zx Zy Zz]
//
// A transform matrix applied to a column vector (x,y,z), as MultMv does,
// gives:
//
//	x' = Xx*x + Xy*y + Xz*z
//	y' = Yx*x + Yy*y + Yz*z
//	z' = Zx*x + Zy*y + Zz*z
//
// MultM computes the row-vector product instead, which applies the
// transpose.
type M3 struct {
	Xx, Xy, Xz float64
	Yx, Yy, Yz float64
	Zx, Zy, Zz float64
}

// M3I is a reference identity matrix. It must never be mutated.
var M3I = &M3{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// NewM3I returns a new identity matrix.
func NewM3I() *M3 { return &M3{1, 0, 0, 0, 1, 0, 0, 0, 1} }

// Eq reports exact equality.
func (m *M3) Eq(a *M3) bool {
	return m.Xx == a.Xx && m.Xy == a.Xy && m.Xz == a.Xz &&
		m.Yx == a.Yx && m.Yy == a.Yy && m.Yz == a.Yz &&
		m.Zx == a.Zx && m.Zy == a.Zy && m.Zz == a.Zz
}

// Aeq reports equality within tolerance, per element.
func (m *M3) Aeq(a *M3) bool {
	return Aeq(m.Xx, a.Xx) && Aeq(m.Xy, a.Xy) && Aeq(m.Xz, a.Xz) &&
		Aeq(m.Yx, a.Yx) && Aeq(m.Yy, a.Yy) && Aeq(m.Yz, a.Yz) &&
		Aeq(m.Zx, a.Zx) && Aeq(m.Zy, a.Zy) && Aeq(m.Zz, a.Zz)
}

// Set copies a into m and returns m.
func (m *M3) Set(a *M3) *M3 {
	*m = *a
	return m
}

// SetI sets m to the identity matrix and returns m.
func (m *M3) SetI() *M3 { return m.Set(M3I) }

// Mult sets m = a * b (applied to a column vector, b acts first, then a)
// and returns m. m may alias a or b; a temporary is used internally.
func (m *M3) Mult(a, b *M3) *M3 {
	xx := a.Xx*b.Xx + a.Xy*b.Yx + a.Xz*b.Zx
	xy := a.Xx*b.Xy + a.Xy*b.Yy + a.Xz*b.Zy
	xz := a.Xx*b.Xz + a.Xy*b.Yz + a.Xz*b.Zz
	yx := a.Yx*b.Xx + a.Yy*b.Yx + a.Yz*b.Zx
	yy := a.Yx*b.Xy + a.Yy*b.Yy + a.Yz*b.Zy
	yz := a.Yx*b.Xz + a.Yy*b.Yz + a.Yz*b.Zz
	zx := a.Zx*b.Xx + a.Zy*b.Yx + a.Zz*b.Zx
	zy := a.Zx*b.Xy + a.Zy*b.Yy + a.Zz*b.Zy
	zz := a.Zx*b.Xz + a.Zy*b.Yz + a.Zz*b.Zz
	m.Xx, m.Xy, m.Xz = xx, xy, xz
	m.Yx, m.Yy, m.Yz = yx, yy, yz
	m.Zx, m.Zy, m.Zz = zx, zy, zz
	return m
}

// Transpose sets m to the transpose of a and returns m.
func (m *M3) Transpose(a *M3) *M3 {
	xx, xy, xz := a.Xx, a.Yx, a.Zx
	yx, yy, yz := a.Xy, a.Yy, a.Zy
	zx, zy, zz := a.Xz, a.Yz, a.Zz
	m.Xx, m.Xy, m.Xz = xx, xy, xz
	m.Yx, m.Yy, m.Yz = yx, yy, yz
	m.Zx, m.Zy, m.Zz = zx, zy, zz
	return m
}

// Rot sets m to the rotation matrix for angle theta (radians) about the
// (not necessarily unit) axis k, using the Rodrigues rotation formula:
//
//	R = I + sin(θ)K + (1-cos(θ))K²
//
// where K is the cross-product matrix of the unit axis. Spec §3 requires
// Matrix3::rot to equal this exponential exactly. If k is the zero
// vector, m is set to the identity.
func (m *M3) Rot(k *V3, theta float64) *M3 {
	axis := V3{k.X, k.Y, k.Z}
	if axis.LenSqr() == 0 {
		return m.SetI()
	}
	axis.Unit()
	s, c := math.Sincos(theta)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	m.Xx = t*x*x + c
	m.Xy = t*x*y - s*z
	m.Xz = t*x*z + s*y

	m.Yx = t*x*y + s*z
	m.Yy = t*y*y + c
	m.Yz = t*y*z - s*x

	m.Zx = t*x*z - s*y
	m.Zy = t*y*z + s*x
	m.Zz = t*z*z + c
	return m
}

// NewM3Rot returns a new rotation matrix for angle theta about axis k.
func NewM3Rot(k *V3, theta float64) *M3 { return new(M3).Rot(k, theta) }

// AzEl sets m to the rotation that first rotates -az about +Z then
// (pi/2 - el) about +Y, per spec §3's Matrix3::azel definition.
func (m *M3) AzEl(az, el float64) *M3 {
	var rz, ry M3
	rz.Rot(&V3{0, 0, 1}, -az)
	ry.Rot(&V3{0, 1, 0}, PIx2/4-el)
	return m.Mult(&ry, &rz)
}
