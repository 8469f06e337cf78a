package frame

import (
	"math"

	"github.com/gazed/optrace/math/lin"
)

// recalculateTripod derives a Tripod frame's pose from three leg lengths
// anchored at the vertices of an equilateral triangle of the given base
// radius, centered on the parent's local Z axis. This is a small-tip-tilt
// approximation (first-order in the leg-length differences), adequate for
// the mechanism it models — a three-point kinematic mount — without
// claiming to solve the full closed-form hexapod/tripod geometry.
//
// Not exercised by the core ray-tracing path; defined per spec §4.1 for
// completeness.
func (f *Frame) recalculateTripod() {
	mean := (f.legLengths[0] + f.legLengths[1] + f.legLengths[2]) / 3

	var base lin.V3
	base.MultMv(&f.parent.orientation, &lin.V3{X: 0, Y: 0, Z: mean})
	f.center.Add(&f.parent.center, &base)

	// Leg vertices sit at 120-degree intervals in the parent's local XY
	// plane; tip/tilt is driven by the projection of each leg's length
	// deviation from the mean onto its vertex direction.
	var tiltX, tiltY float64
	for i, dl := range []float64{
		f.legLengths[0] - mean,
		f.legLengths[1] - mean,
		f.legLengths[2] - mean,
	} {
		angle := float64(i) * 2 * math.Pi / 3
		if f.legRadius > 0 {
			tiltX += dl / f.legRadius * math.Cos(angle)
			tiltY += dl / f.legRadius * math.Sin(angle)
		}
	}

	axis := lin.V3{X: -tiltY, Y: tiltX, Z: 0}
	theta := axis.Len()
	var r lin.M3
	if theta > lin.Epsilon {
		r.Rot(&axis, theta)
	} else {
		r.SetI()
	}
	f.orientation.Mult(&f.parent.orientation, &r)
}
