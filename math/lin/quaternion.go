package lin

import "math"

// Q is a unit-length quaternion with axis-angle construction, composition
// and conversion to M3, grounded on the teacher's math/lin/quaternion.go.
// The frame tree, TripodFrame included, tracks orientation as an M3
// directly and does not use Q.
type Q struct {
	X, Y, Z, W float64
}

// QI is a reference identity quaternion. It must never be mutated.
var QI = &Q{0, 0, 0, 1}

// NewQI returns a new identity quaternion.
func NewQI() *Q { return &Q{W: 1} }

// SetAa sets q to the rotation given by axis (ax,ay,az) and angle (radians)
// and returns q. q is left at identity if the axis has zero length.
func (q *Q) SetAa(ax, ay, az, angle float64) *Q {
	lenSqr := ax*ax + ay*ay + az*az
	if lenSqr == 0 {
		q.X, q.Y, q.Z, q.W = 0, 0, 0, 1
		return q
	}
	s := math.Sin(angle*0.5) / math.Sqrt(lenSqr)
	q.X, q.Y, q.Z, q.W = ax*s, ay*s, az*s, math.Cos(angle*0.5)
	return q
}

// Mult sets q = r * s (apply s's rotation after r's) and returns q.
func (q *Q) Mult(r, s *Q) *Q {
	x := r.W*s.X + r.X*s.W + r.Y*s.Z - r.Z*s.Y
	y := r.W*s.Y - r.X*s.Z + r.Y*s.W + r.Z*s.X
	z := r.W*s.Z + r.X*s.Y - r.Y*s.X + r.Z*s.W
	w := r.W*s.W - r.X*s.X - r.Y*s.Y - r.Z*s.Z
	q.X, q.Y, q.Z, q.W = x, y, z, w
	return q
}

// Unit normalizes q to length 1. q is unchanged if its length is zero.
func (q *Q) Unit() *Q {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l != 0 {
		inv := 1 / l
		q.X, q.Y, q.Z, q.W = q.X*inv, q.Y*inv, q.Z*inv, q.W*inv
	}
	return q
}

// ToM3 returns the rotation matrix equivalent to q.
func (q *Q) ToM3() *M3 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	x2, y2, z2 := x+x, y+y, z+z
	xx, yy, zz := x*x2, y*y2, z*z2
	xy, xz, yz := x*y2, x*z2, y*z2
	wx, wy, wz := w*x2, w*y2, w*z2
	return &M3{
		Xx: 1 - (yy + zz), Xy: xy + wz, Xz: xz - wy,
		Yx: xy - wz, Yy: 1 - (xx + zz), Yz: yz + wx,
		Zx: xz + wy, Zy: yz - wx, Zz: 1 - (xx + yy),
	}
}
