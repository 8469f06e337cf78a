package lin

import "math"

// V3 is a 3 element Cartesian vector of 64-bit floats. It doubles as a
// point. Methods mutate the receiver and return it so expressions chain
// without heap allocation, eg. v.Cross(a, b).Unit().
type V3 struct {
	X, Y, Z float64
}

// NewV3 returns a new zero vector.
func NewV3() *V3 { return &V3{} }

// NewV3S returns a new vector with the given components.
func NewV3S(x, y, z float64) *V3 { return &V3{x, y, z} }

// Eq reports exact equality.
func (v *V3) Eq(a *V3) bool { return v.X == a.X && v.Y == a.Y && v.Z == a.Z }

// Aeq reports equality within tolerance, per component.
func (v *V3) Aeq(a *V3) bool { return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) && Aeq(v.Z, a.Z) }

// AeqZ reports whether v is close enough to the zero vector.
func (v *V3) AeqZ() bool { return v.Dot(v) < Epsilon }

// GetS returns the vector's components.
func (v *V3) GetS() (x, y, z float64) { return v.X, v.Y, v.Z }

// SetS sets the vector's components and returns v.
func (v *V3) SetS(x, y, z float64) *V3 {
	v.X, v.Y, v.Z = x, y, z
	return v
}

// Set copies a into v and returns v.
func (v *V3) Set(a *V3) *V3 {
	v.X, v.Y, v.Z = a.X, a.Y, a.Z
	return v
}

// Add sets v = a + b and returns v.
func (v *V3) Add(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.X+b.X, a.Y+b.Y, a.Z+b.Z
	return v
}

// Sub sets v = a - b and returns v.
func (v *V3) Sub(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return v
}

// Neg sets v = -a and returns v.
func (v *V3) Neg(a *V3) *V3 {
	v.X, v.Y, v.Z = -a.X, -a.Y, -a.Z
	return v
}

// Scale sets v = a*s and returns v.
func (v *V3) Scale(a *V3, s float64) *V3 {
	v.X, v.Y, v.Z = a.X*s, a.Y*s, a.Z*s
	return v
}

// Div sets v = v/s and returns v. v is unchanged if s is zero.
func (v *V3) Div(s float64) *V3 {
	if s != 0 {
		inv := 1 / s
		v.X, v.Y, v.Z = v.X*inv, v.Y*inv, v.Z*inv
	}
	return v
}

// Dot returns the dot product of v and a.
func (v *V3) Dot(a *V3) float64 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// Len returns the Euclidean length of v.
func (v *V3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// LenSqr returns the squared length of v.
func (v *V3) LenSqr() float64 { return v.Dot(v) }

// Dist returns the distance between points v and a.
func (v *V3) Dist(a *V3) float64 { return math.Sqrt(v.DistSqr(a)) }

// DistSqr returns the squared distance between points v and a.
func (v *V3) DistSqr(a *V3) float64 {
	dx, dy, dz := a.X-v.X, a.Y-v.Y, a.Z-v.Z
	return dx*dx + dy*dy + dz*dz
}

// Unit normalizes v to length 1. v is unchanged if its length is zero.
func (v *V3) Unit() *V3 {
	l := v.Len()
	if l != 0 {
		return v.Div(l)
	}
	return v
}

// Cross sets v to the cross product of a and b and returns v.
func (v *V3) Cross(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.Y*b.Z-a.Z*b.Y, a.Z*b.X-a.X*b.Z, a.X*b.Y-a.Y*b.X
	return v
}

// Lerp sets v to the linear interpolation between a and b and returns v.
func (v *V3) Lerp(a, b *V3, ratio float64) *V3 {
	v.X = Lerp(a.X, b.X, ratio)
	v.Y = Lerp(a.Y, b.Y, ratio)
	v.Z = Lerp(a.Z, b.Z, ratio)
	return v
}

// MultM sets v to the row-vector times matrix product v = rv * m and
// returns v.
func (v *V3) MultM(rv *V3, m *M3) *V3 {
	x := rv.X*m.Xx + rv.Y*m.Yx + rv.Z*m.Zx
	y := rv.X*m.Xy + rv.Y*m.Yy + rv.Z*m.Zy
	z := rv.X*m.Xz + rv.Y*m.Yz + rv.Z*m.Zz
	v.X, v.Y, v.Z = x, y, z
	return v
}

// MultMv sets v to the matrix times column-vector product v = m * cv and
// returns v.
func (v *V3) MultMv(m *M3, cv *V3) *V3 {
	x := m.Xx*cv.X + m.Xy*cv.Y + m.Xz*cv.Z
	y := m.Yx*cv.X + m.Yy*cv.Y + m.Yz*cv.Z
	z := m.Zx*cv.X + m.Zy*cv.Y + m.Zz*cv.Z
	v.X, v.Y, v.Z = x, y, z
	return v
}
