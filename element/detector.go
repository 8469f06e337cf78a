package element

import (
	"math"

	"github.com/gazed/optrace/frame"
	"github.com/gazed/optrace/math/lin"
	"github.com/gazed/optrace/optics"
)

// Footprint summarizes the hits recorded on a Detector's readout surface:
// the count intercepted, the centroid of their locations, and the
// max/RMS radial spread around that centroid.
//
// Grounded on original_source/RZGUI/FootprintInfoWidget.cpp's
// setFootprint: centroid is the plain mean of the recorded locations,
// MaxRadius accumulates the largest squared radius and takes a single
// final sqrt, and RMSRadius sums squared radii with Kahan (compensated)
// summation before a final sqrt(sum/N) — done to keep the running sum
// accurate over the thousands of hits a single trace can produce.
type Footprint struct {
	N         int
	Centroid  lin.V3
	MaxRadius float64
	RMSRadius float64
}

// Detector is an OpticalElement whose single readout surface absorbs
// every incident ray and records its hits, the way original_source's
// Detector (an OpticalElement subclass registered under the "Detector"
// factory name, per LibRZ/include/OMModel.h's registerDetector/
// m_nameToDetector) accumulates a footprint between clear() calls.
//
// The original Detector.h/.cpp themselves were not retrieved into this
// pack; Width/Height/Cols/Rows and the clear/footprint behavior below
// are inferred from their call sites in OMModel.cpp (addDetector's
// "height"/"width"/"cols"/"rows" property assignments) and
// RZGUI/FootprintInfoWidget.cpp (the footprint statistics), not read
// directly from the class itself.
type Detector struct {
	*OpticalElement

	Surface *OpticalSurface

	Width, Height float64
	Cols, Rows    int
}

// NewDetector builds a flat rectangular detector of the given half-width
// and half-height on frame f, with a single absorbing readout surface
// ("detector") that records every hit it intercepts.
func NewDetector(name string, f *frame.Frame, halfWidth, halfHeight float64) *Detector {
	oe := NewOpticalElement(name, f)
	boundary := optics.NewMediumBoundary(optics.NewRectangular(halfWidth, halfHeight), optics.NewAbsorber())
	surf := NewOpticalSurface("detector", f, boundary, oe)
	surf.RecordHits = true
	oe.AddSurface(surf)

	oe.DeclareProperty("width", RealValue(2*halfWidth))
	oe.DeclareProperty("height", RealValue(2*halfHeight))
	oe.DeclareProperty("cols", IntValue(0))
	oe.DeclareProperty("rows", IntValue(0))

	d := &Detector{OpticalElement: oe, Surface: surf, Width: 2 * halfWidth, Height: 2 * halfHeight}
	oe.asDetector = d
	oe.PropertyChanged = d.propertyChanged
	return d
}

// propertyChanged keeps Width/Height/Cols/Rows and the readout surface's
// clip rectangle in sync with "width"/"height"/"cols"/"rows" property
// assignments, the way addDetector's post-construction property sets
// resize the original's CCD-like readout.
func (d *Detector) propertyChanged(name string, v PropertyValue) {
	switch name {
	case "width":
		if r, ok := v.AsReal(); ok {
			d.Width = r
			d.resize()
		}
	case "height":
		if r, ok := v.AsReal(); ok {
			d.Height = r
			d.resize()
		}
	case "cols":
		if r, ok := v.AsReal(); ok {
			d.Cols = int(r)
		}
	case "rows":
		if r, ok := v.AsReal(); ok {
			d.Rows = int(r)
		}
	}
}

func (d *Detector) resize() {
	hx, hy := d.Width/2, d.Height/2
	if rect, ok := d.Surface.Boundary.Shape.(*optics.Rectangular); ok {
		rect.Hx, rect.Hy = hx, hy
	}
	d.Surface.Boundary.Hx, d.Surface.Boundary.Hy = hx, hy
}

// Clear discards every hit recorded since the last trace, mirroring
// OMModel::trace's "clear all detectors" step that runs before each
// cast/transfer pass.
func (d *Detector) Clear() { d.Surface.ClearHits() }

// Footprint computes the centroid/max-radius/RMS-radius statistics over
// the detector's currently recorded hits, in the surface's local frame.
func (d *Detector) Footprint() Footprint {
	hits := d.Surface.Hits()
	fp := Footprint{N: len(hits)}
	if len(hits) == 0 {
		return fp
	}

	var sx, sy, sz float64
	for _, h := range hits {
		sx += h.Location.X
		sy += h.Location.Y
		sz += h.Location.Z
	}
	n := float64(len(hits))
	fp.Centroid = lin.V3{X: sx / n, Y: sy / n, Z: sz / n}

	var maxSq float64
	var sum, corr float64
	for _, h := range hits {
		dx := h.Location.X - fp.Centroid.X
		dy := h.Location.Y - fp.Centroid.Y
		rSq := dx*dx + dy*dy
		if rSq > maxSq {
			maxSq = rSq
		}
		y := rSq - corr
		t := sum + y
		corr = (t - sum) - y
		sum = t
	}
	fp.MaxRadius = math.Sqrt(maxSq)
	fp.RMSRadius = math.Sqrt(sum / n)
	return fp
}
