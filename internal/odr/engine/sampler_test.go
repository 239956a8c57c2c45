package engine

import (
	"math"
	"testing"

	"github.com/kestrel-nav/lanegrid/internal/config"
	"github.com/kestrel-nav/lanegrid/internal/odr/core"
	"github.com/kestrel-nav/lanegrid/internal/odr/element"
	"github.com/kestrel-nav/lanegrid/internal/odr/geom"
	"github.com/kestrel-nav/lanegrid/internal/odr/kdtree"
)

// makeSection builds a lane section with one center lane and
// lanesPerSide constant-width lanes on each side.
func makeSection(s0, s1 float64, lanesPerSide int, width float64) element.LaneSection {
	sec := element.LaneSection{
		S0:     s0,
		S1:     s1,
		Center: []element.Lane{{Index: 0}},
	}
	widths := []element.WidthRecord{{Poly: element.Poly3{A: width}}}
	for i := 1; i <= lanesPerSide; i++ {
		sec.Left = append(sec.Left, element.Lane{Index: i, Widths: widths})
		sec.Right = append(sec.Right, element.Lane{Index: -i, Widths: widths})
	}
	return sec
}

// makeLineRoad builds a road with a single straight plan-view segment
// along the x axis starting at the origin.
func makeLineRoad(id int64, length float64, sections ...element.LaneSection) element.Road {
	return element.Road{
		ID:         id,
		Name:       "test road",
		JunctionID: element.NoLink,
		Length:     length,
		Rule:       "RHT",
		Link:       element.RoadLink{Predecessor: element.NoLink, Successor: element.NoLink},
		PlanView:   []element.Geometry{geom.NewLine(0, 0, 0, 0, length)},
		Sections:   sections,
	}
}

// convert runs a full conversion with the given step and returns the
// populated collaborators plus the final status.
func convert(t *testing.T, m *element.Map, step float64) (*core.Repository, *kdtree.KDTree, Status) {
	t.Helper()
	repo := core.NewRepository()
	tree := kdtree.New()
	params := (&config.EngineConfig{Step: &step}).Resolve()
	status := NewConvertor(repo, tree, params).Convert(m)
	return repo, tree, status
}

func sValues(c core.Curve) []float64 {
	out := make([]float64, len(c.Pts))
	for i, p := range c.Pts {
		out[i] = p.S
	}
	return out
}

func TestCenterLaneSamplingClampsFinalPoint(t *testing.T) {
	road := makeLineRoad(1, 0.25, makeSection(0, 0.25, 0, 0))
	repo, _, status := convert(t, &element.Map{Roads: []element.Road{road}}, 0.1)
	if !status.OK() {
		t.Fatalf("conversion failed: %v", status.Err())
	}

	lane, ok := repo.Lane("1_0_0")
	if !ok {
		t.Fatal("center lane 1_0_0 not found")
	}
	got := sValues(lane.CentralCurve)
	want := []float64{0, 0.1, 0.2, 0.25}
	if len(got) != len(want) {
		t.Fatalf("sampled s = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("sample %d: s = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCenterLaneSamplingExactMultiple(t *testing.T) {
	// A section length that is an exact multiple of the step must not
	// grow an extra clamped sample.
	road := makeLineRoad(1, 1.0, makeSection(0, 1.0, 0, 0))
	repo, _, status := convert(t, &element.Map{Roads: []element.Road{road}}, 0.1)
	if !status.OK() {
		t.Fatalf("conversion failed: %v", status.Err())
	}

	lane, _ := repo.Lane("1_0_0")
	got := sValues(lane.CentralCurve)
	if len(got) != 11 {
		t.Fatalf("got %d samples, want 11: %v", len(got), got)
	}
	if got[0] != 0 {
		t.Errorf("first sample s = %v, want 0", got[0])
	}
	// Step accumulation leaves the final sample a few ulps shy of the
	// section end; it must not overshoot or fall a whole step short.
	if last := got[len(got)-1]; math.Abs(last-1.0) > 1e-9 || last > 1.0 {
		t.Errorf("last sample s = %v, want 1.0", got[len(got)-1])
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Errorf("s sequence decreasing at %d: %v", i, got)
		}
	}
}

func TestCenterLaneZeroOffsetPassthrough(t *testing.T) {
	// Without lane offsets the center lane must lie exactly on the
	// reference line (here: the x axis).
	road := makeLineRoad(1, 2, makeSection(0, 2, 0, 0))
	repo, _, status := convert(t, &element.Map{Roads: []element.Road{road}}, 0.5)
	if !status.OK() {
		t.Fatalf("conversion failed: %v", status.Err())
	}

	lane, _ := repo.Lane("1_0_0")
	for _, p := range lane.CentralCurve.Pts {
		if p.Y != 0 || p.Heading != 0 {
			t.Errorf("point %s at (%v, %v) heading %v, want on x axis", p.ID, p.X, p.Y, p.Heading)
		}
		if math.Abs(p.X-p.S) > 1e-12 {
			t.Errorf("point %s x = %v, want s = %v", p.ID, p.X, p.S)
		}
	}
}

func TestCenterLaneOffsetShiftsPerpendicular(t *testing.T) {
	road := makeLineRoad(1, 2, makeSection(0, 2, 0, 0))
	road.Offsets = []element.OffsetRecord{{Poly: element.Poly3{A: 1.5}}}
	repo, _, status := convert(t, &element.Map{Roads: []element.Road{road}}, 0.5)
	if !status.OK() {
		t.Fatalf("conversion failed: %v", status.Err())
	}

	lane, _ := repo.Lane("1_0_0")
	for _, p := range lane.CentralCurve.Pts {
		// Heading +x, positive offset: shifted to +y, heading kept.
		if math.Abs(p.Y-1.5) > 1e-12 || p.Heading != 0 {
			t.Errorf("point %s at y = %v heading %v, want y = 1.5 heading 0", p.ID, p.Y, p.Heading)
		}
	}
}

func TestCenterLaneCurvesCoincide(t *testing.T) {
	// The center lane has zero width: central curve and both
	// boundaries hold the same points.
	road := makeLineRoad(1, 1, makeSection(0, 1, 0, 0))
	repo, _, status := convert(t, &element.Map{Roads: []element.Road{road}}, 0.25)
	if !status.OK() {
		t.Fatalf("conversion failed: %v", status.Err())
	}

	lane, _ := repo.Lane("1_0_0")
	n := len(lane.CentralCurve.Pts)
	if len(lane.LeftBoundary.Curve.Pts) != n || len(lane.RightBoundary.Curve.Pts) != n {
		t.Fatalf("curve lengths differ: %d central, %d left, %d right",
			n, len(lane.LeftBoundary.Curve.Pts), len(lane.RightBoundary.Curve.Pts))
	}
	for i := 0; i < n; i++ {
		if lane.CentralCurve.Pts[i] != lane.LeftBoundary.Curve.Pts[i] ||
			lane.CentralCurve.Pts[i] != lane.RightBoundary.Curve.Pts[i] {
			t.Errorf("point %d differs across center-lane curves", i)
		}
	}
}

func TestSideLaneGeometry(t *testing.T) {
	road := makeLineRoad(1, 1, makeSection(0, 1, 1, 3.5))
	repo, _, status := convert(t, &element.Map{Roads: []element.Road{road}}, 0.5)
	if !status.OK() {
		t.Fatalf("conversion failed: %v", status.Err())
	}

	left, ok := repo.Lane("1_0_1")
	if !ok {
		t.Fatal("left lane 1_0_1 not found")
	}
	right, ok := repo.Lane("1_0_-1")
	if !ok {
		t.Fatal("right lane 1_0_-1 not found")
	}

	for _, p := range left.CentralCurve.Pts {
		if math.Abs(p.Y-1.75) > 1e-12 {
			t.Errorf("left lane centerline y = %v, want 1.75", p.Y)
		}
	}
	for _, p := range left.RightBoundary.Curve.Pts {
		if math.Abs(p.Y-3.5) > 1e-12 {
			t.Errorf("left lane outer boundary y = %v, want 3.5", p.Y)
		}
	}
	for _, p := range right.CentralCurve.Pts {
		if math.Abs(p.Y+1.75) > 1e-12 {
			t.Errorf("right lane centerline y = %v, want -1.75", p.Y)
		}
	}
	for _, p := range right.RightBoundary.Curve.Pts {
		if math.Abs(p.Y+3.5) > 1e-12 {
			t.Errorf("right lane outer boundary y = %v, want -3.5", p.Y)
		}
	}
}

func TestLaneStitchingNoGapsOrOverlaps(t *testing.T) {
	road := makeLineRoad(1, 1, makeSection(0, 1, 2, 3.0))
	repo, _, status := convert(t, &element.Map{Roads: []element.Road{road}}, 0.25)
	if !status.OK() {
		t.Fatalf("conversion failed: %v", status.Err())
	}

	pairs := [][2]string{
		{"1_0_1", "1_0_2"},   // inner/outer left
		{"1_0_-1", "1_0_-2"}, // inner/outer right
	}
	for _, pair := range pairs {
		inner, _ := repo.Lane(pair[0])
		outer, _ := repo.Lane(pair[1])
		innerRight := inner.RightBoundary.Curve.Pts
		outerLeft := outer.LeftBoundary.Curve.Pts
		if len(innerRight) != len(outerLeft) {
			t.Fatalf("%s/%s: boundary lengths %d vs %d",
				pair[0], pair[1], len(innerRight), len(outerLeft))
		}
		for i := range innerRight {
			a, b := innerRight[i], outerLeft[i]
			if a.X != b.X || a.Y != b.Y || a.S != b.S {
				t.Errorf("%s right[%d] (%v,%v,s=%v) != %s left[%d] (%v,%v,s=%v)",
					pair[0], i, a.X, a.Y, a.S, pair[1], i, b.X, b.Y, b.S)
			}
		}
	}

	// The innermost left lane borrows the center lane's left boundary.
	center, _ := repo.Lane("1_0_0")
	innerLeft, _ := repo.Lane("1_0_1")
	for i := range center.LeftBoundary.Curve.Pts {
		a := center.LeftBoundary.Curve.Pts[i]
		b := innerLeft.LeftBoundary.Curve.Pts[i]
		if a.X != b.X || a.Y != b.Y || a.S != b.S {
			t.Errorf("center left boundary %d not shared with inner left lane", i)
		}
	}
}

func TestGeometryMarkersOnePerRun(t *testing.T) {
	line := geom.NewLine(0, 0, 0, 0, 5)
	end := line.PointAt(5)
	arc := geom.NewArc(5, end.X, end.Y, end.Heading, 5, 0.05)
	road := element.Road{
		ID:         1,
		JunctionID: element.NoLink,
		Length:     10,
		Link:       element.RoadLink{Predecessor: element.NoLink, Successor: element.NoLink},
		PlanView:   []element.Geometry{line, arc},
		Sections:   []element.LaneSection{makeSection(0, 10, 0, 0)},
	}
	repo, _, status := convert(t, &element.Map{Roads: []element.Road{road}}, 1)
	if !status.OK() {
		t.Fatalf("conversion failed: %v", status.Err())
	}

	lane, _ := repo.Lane("1_0_0")
	if len(lane.Geometries) != 2 {
		t.Fatalf("got %d geometry markers, want 2: %+v", len(lane.Geometries), lane.Geometries)
	}
	if lane.Geometries[0].Type != element.GeometryLine {
		t.Errorf("first marker type %v, want line", lane.Geometries[0].Type)
	}
	if lane.Geometries[1].Type != element.GeometryArc {
		t.Errorf("second marker type %v, want arc", lane.Geometries[1].Type)
	}
	if lane.Geometries[0].Point.S != 0 {
		t.Errorf("line marker at s = %v, want 0", lane.Geometries[0].Point.S)
	}
	if lane.Geometries[1].Point.S <= 5-1e-9 {
		t.Errorf("arc marker at s = %v, want > 5", lane.Geometries[1].Point.S)
	}
}

func TestMultiSectionContinuity(t *testing.T) {
	// Two sections with a step that does not divide the section length:
	// the second section must continue exactly where the first ended.
	road := makeLineRoad(1, 2,
		makeSection(0, 1, 0, 0),
		makeSection(1, 2, 0, 0))
	repo, _, status := convert(t, &element.Map{Roads: []element.Road{road}}, 0.3)
	if !status.OK() {
		t.Fatalf("conversion failed: %v", status.Err())
	}

	first, _ := repo.Lane("1_0_0")
	second, _ := repo.Lane("1_1_0")

	lastOfFirst := first.CentralCurve.Pts[len(first.CentralCurve.Pts)-1]
	firstOfSecond := second.CentralCurve.Pts[0]
	if lastOfFirst.S != 1.0 {
		t.Errorf("first section last sample s = %v, want 1.0", lastOfFirst.S)
	}
	if firstOfSecond.S != 0 {
		t.Errorf("second section first sample s = %v, want 0", firstOfSecond.S)
	}
	if math.Abs(lastOfFirst.X-firstOfSecond.X) > 1e-9 ||
		math.Abs(lastOfFirst.Y-firstOfSecond.Y) > 1e-9 {
		t.Errorf("section joint discontinuous: (%v,%v) vs (%v,%v)",
			lastOfFirst.X, lastOfFirst.Y, firstOfSecond.X, firstOfSecond.Y)
	}

	secondLast := second.CentralCurve.Pts[len(second.CentralCurve.Pts)-1]
	if secondLast.S != 1.0 {
		t.Errorf("second section last sample s = %v, want 1.0 (clamped)", secondLast.S)
	}
	// Road position of the very last sample is the road end.
	if math.Abs(secondLast.X-2.0) > 1e-9 {
		t.Errorf("last sample x = %v, want 2.0", secondLast.X)
	}
}

func TestNoGeometryCoverageFails(t *testing.T) {
	// Plan view covers only [0, 5] of a 10-long road.
	road := makeLineRoad(1, 10, makeSection(0, 10, 0, 0))
	road.PlanView = []element.Geometry{geom.NewLine(0, 0, 0, 0, 5)}
	_, _, status := convert(t, &element.Map{Roads: []element.Road{road}}, 1)

	if status.Code != ConversionError {
		t.Fatalf("status = %+v, want ConversionError", status)
	}
}
