package engine

import (
	"fmt"

	"github.com/kestrel-nav/lanegrid/internal/odr/core"
	"github.com/kestrel-nav/lanegrid/internal/odr/element"
	"github.com/kestrel-nav/lanegrid/internal/odr/geom"
	"github.com/kestrel-nav/lanegrid/internal/odr/kdtree"
)

// clampTolerance separates "remainder is a real extra sample" from
// floating-point noise when deciding whether to clamp the final sample to
// the section end.
const clampTolerance = 1e-10

// lookupTolerance absorbs rounding at segment joints and at the exact
// road end during geometry lookup.
const lookupTolerance = 1e-6

// sampleCenterLane walks the section's arc-length domain at the fixed
// step and fills the center lane's central curve and both boundaries with
// identical points (the center lane has zero width). roadS is the running
// road-local cursor; it ends at the section's end so the next section
// continues seamlessly.
//
// The last sample is clamped to land exactly on the section end: when the
// remaining distance is smaller than the step (beyond clampTolerance) the
// overshoot is pulled back onto the end instead of past it.
func (c *Convertor) sampleCenterLane(road *element.Road, sec *core.Section, roadS *float64) error {
	center := sec.CenterLane
	startRoadS := *roadS
	sectionS := 0.0
	lastType := element.GeometryUnknown
	pointIdx := 0

	for {
		if sectionS > sec.Length {
			over := sectionS - sec.Length
			if over >= c.params.Step-clampTolerance {
				break
			}
			*roadS -= over
			sectionS = sec.Length
		}
		g := geometryAt(road.PlanView, *roadS)
		if g == nil {
			return fmt.Errorf("%s: no geometry covers arc length %.6f", sec.ID, *roadS)
		}
		ref := g.PointAt(*roadS)
		if offset := road.LaneOffsetAt(*roadS); offset != 0 {
			ref = geom.OffsetPoint(ref, offset)
		}
		pt := core.Point{
			X:       ref.X,
			Y:       ref.Y,
			Heading: ref.Heading,
			S:       sectionS,
			ID:      fmt.Sprintf("%s_%d", center.ID, pointIdx),
		}
		pointIdx++

		// One marker per contiguous run of a geometry type.
		if g.Type() != lastType {
			center.Geometries = append(center.Geometries,
				core.GeometryMarker{Type: g.Type(), Point: pt})
			lastType = g.Type()
		}

		center.CentralCurve.Pts = append(center.CentralCurve.Pts, pt)
		center.LeftBoundary.Curve.Pts = append(center.LeftBoundary.Curve.Pts, pt)
		center.RightBoundary.Curve.Pts = append(center.RightBoundary.Curve.Pts, pt)

		sectionS += c.params.Step
		*roadS += c.params.Step
	}
	// Leave the cursor exactly on the section end so the next section
	// continues without a gap, whatever the final increment overshot.
	*roadS = startRoadS + sec.Length
	return nil
}

// sampleLane derives a non-center lane from the reference curve of its
// laterally preceding lane. Per reference point it emits three points at
// the same arc length: the reference point as the lane's left boundary,
// the half-width offset as its centerline (registered for the spatial
// index), and the full-width offset as its right boundary, which in turn
// is the reference curve for the next lane outward. Width is signed by the
// lane's side, so left lanes grow leftward and right lanes rightward.
func (c *Convertor) sampleLane(eleLane *element.Lane, lane *core.Lane, refLine []core.Point) {
	dir := 1.0
	if eleLane.Index < 0 {
		dir = -1.0
	}
	for i, ref := range refLine {
		width := eleLane.WidthAt(ref.S) * dir
		baseID := fmt.Sprintf("%s_%d", lane.ID, i)

		left := ref
		left.ID = baseID + "_1"
		lane.LeftBoundary.Curve.Pts = append(lane.LeftBoundary.Curve.Pts, left)

		center := offsetPoint(ref, width/2)
		center.ID = baseID + "_2"
		lane.CentralCurve.Pts = append(lane.CentralCurve.Pts, center)
		c.centerPts = append(c.centerPts,
			kdtree.Sample{X: center.X, Y: center.Y, ID: center.ID})

		right := offsetPoint(ref, width)
		right.ID = baseID + "_3"
		lane.RightBoundary.Curve.Pts = append(lane.RightBoundary.Curve.Pts, right)
	}
}

// offsetPoint shifts a sampled point perpendicular to its heading,
// keeping its arc-length position.
func offsetPoint(p core.Point, offset float64) core.Point {
	shifted := geom.OffsetPoint(element.Point{X: p.X, Y: p.Y, Heading: p.Heading}, offset)
	return core.Point{X: shifted.X, Y: shifted.Y, Heading: shifted.Heading, S: p.S}
}

// geometryAt selects the plan-view segment covering road arc length s:
// the first segment whose upper bound reaches s, with a small tolerance
// for the exact road end. Returns nil when no segment covers s.
func geometryAt(geometries []element.Geometry, s float64) element.Geometry {
	for _, g := range geometries {
		if s <= g.EndS()+lookupTolerance {
			return g
		}
	}
	return nil
}
