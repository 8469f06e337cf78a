package optics

import (
	"math"

	"github.com/gazed/optrace/math/lin"
)

// Circular is a flat disk of radius r centered at the local origin, normal
// along +Z. Grounded on castRayPlane's plane intersection, restricted to a
// radial clip test the way the teacher restricts a plane Shape to Aabb-free
// area-only bookkeeping.
type Circular struct {
	R float64
}

func NewCircular(r float64) *Circular { return &Circular{R: math.Abs(r)} }

func (c *Circular) Kind() ShapeKind { return KindCircular }
func (c *Circular) Area() float64   { return math.Pi * c.R * c.R }

func (c *Circular) Intercept(origin, dir *lin.V3, hit, normal *lin.V3, t *float64) bool {
	if !sagInterceptPlane(origin, dir, hit, normal, t) {
		return false
	}
	return radialExtent(hit.X, hit.Y, 0, c.R)
}

func (c *Circular) GeneratePoints(n int, outPts, outNormals []lin.V3) {
	uniformDiskSample(n, 0, c.R, outPts, outNormals)
}

func (c *Circular) HalfExtents() (hx, hy float64) { return c.R, c.R }

// Annular is a flat washer: a disk with a central circular hole.
type Annular struct {
	RInner, ROuter float64
}

func NewAnnular(rInner, rOuter float64) *Annular {
	return &Annular{math.Abs(rInner), math.Abs(rOuter)}
}

func (a *Annular) Kind() ShapeKind { return KindAnnular }
func (a *Annular) Area() float64 {
	return math.Pi * (a.ROuter*a.ROuter - a.RInner*a.RInner)
}

func (a *Annular) Intercept(origin, dir *lin.V3, hit, normal *lin.V3, t *float64) bool {
	if !sagInterceptPlane(origin, dir, hit, normal, t) {
		return false
	}
	return radialExtent(hit.X, hit.Y, a.RInner, a.ROuter)
}

func (a *Annular) GeneratePoints(n int, outPts, outNormals []lin.V3) {
	uniformDiskSample(n, a.RInner, a.ROuter, outPts, outNormals)
}

func (a *Annular) HalfExtents() (hx, hy float64) { return a.ROuter, a.ROuter }

// Rectangular is a flat rectangle of half-width hx, half-height hy centered
// at the local origin.
type Rectangular struct {
	Hx, Hy float64
}

func NewRectangular(hx, hy float64) *Rectangular {
	return &Rectangular{math.Abs(hx), math.Abs(hy)}
}

func (r *Rectangular) Kind() ShapeKind { return KindRectangular }
func (r *Rectangular) Area() float64   { return 4 * r.Hx * r.Hy }

func (r *Rectangular) Intercept(origin, dir *lin.V3, hit, normal *lin.V3, t *float64) bool {
	if !sagInterceptPlane(origin, dir, hit, normal, t) {
		return false
	}
	return math.Abs(hit.X) <= r.Hx && math.Abs(hit.Y) <= r.Hy
}

func (r *Rectangular) GeneratePoints(n int, outPts, outNormals []lin.V3) {
	if n <= 0 {
		return
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	i := 0
	for row := 0; row < rows && i < n; row++ {
		for col := 0; col < cols && i < n; col++ {
			fx := (float64(col)+0.5)/float64(cols)*2 - 1
			fy := (float64(row)+0.5)/float64(rows)*2 - 1
			outPts[i].SetS(fx*r.Hx, fy*r.Hy, 0)
			outNormals[i].SetS(0, 0, 1)
			i++
		}
	}
}

func (r *Rectangular) HalfExtents() (hx, hy float64) { return r.Hx, r.Hy }

// InfinitePlane is an unbounded flat surface, used for afocal reference
// planes and detectors with no physical clipping aperture of their own
// (clipping, when wanted, is applied by the owning MediumBoundary instead).
type InfinitePlane struct{}

func NewInfinitePlane() *InfinitePlane { return &InfinitePlane{} }

func (p *InfinitePlane) Kind() ShapeKind { return KindInfinitePlane }
func (p *InfinitePlane) Area() float64   { return math.Inf(1) }

func (p *InfinitePlane) Intercept(origin, dir *lin.V3, hit, normal *lin.V3, t *float64) bool {
	return sagInterceptPlane(origin, dir, hit, normal, t)
}

func (p *InfinitePlane) GeneratePoints(n int, outPts, outNormals []lin.V3) {
	uniformDiskSample(n, 0, 1, outPts, outNormals)
}

func (p *InfinitePlane) HalfExtents() (hx, hy float64) {
	return math.Inf(1), math.Inf(1)
}
