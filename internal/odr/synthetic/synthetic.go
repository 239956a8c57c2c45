// Package synthetic builds parsed map trees programmatically for the
// command-line tools and benchmarks. It stands in for the external
// parser: the maps it produces exercise every geometry kind and the full
// lane-stitching path without any file input.
package synthetic

import (
	"fmt"

	"github.com/kestrel-nav/lanegrid/internal/odr/element"
	"github.com/kestrel-nav/lanegrid/internal/odr/geom"
)

// Options controls the generated network.
type Options struct {
	Roads        int     // number of chained roads
	LanesPerSide int     // driving lanes left and right of the reference line
	SectionLen   float64 // length of each of the three sections per road
	LaneWidth    float64 // constant lane width
	RoadSpacing  float64 // lateral spacing between road start points
}

// DefaultOptions is a small network suitable for demos.
func DefaultOptions() Options {
	return Options{
		Roads:        2,
		LanesPerSide: 2,
		SectionLen:   50,
		LaneWidth:    3.5,
		RoadSpacing:  40,
	}
}

// Network builds a map of chained roads. Each road's plan view is a
// line, an arc and a spiral of one section length each, joined with
// continuous poses, and carries three lane sections so the road-local
// cursor is threaded across section boundaries.
func Network(opts Options) *element.Map {
	m := &element.Map{
		Header: element.Header{
			RevMajor: 1,
			RevMinor: 4,
			Name:     fmt.Sprintf("synthetic-%dx%d", opts.Roads, opts.LanesPerSide),
			Version:  "1.0",
			Vendor:   "lanegrid",
			North:    opts.SectionLen * 3,
			East:     opts.SectionLen * 3,
		},
		Junctions: []element.Junction{
			{ID: 1, Name: "demo", Type: "default"},
		},
	}

	for i := 0; i < opts.Roads; i++ {
		road := buildRoad(int64(i), float64(i)*opts.RoadSpacing, opts)
		if i > 0 {
			road.Link.Predecessor = int64(i - 1)
		}
		if i < opts.Roads-1 {
			road.Link.Successor = int64(i + 1)
		}
		m.Roads = append(m.Roads, road)
	}
	return m
}

func buildRoad(id int64, y0 float64, opts Options) element.Road {
	l := opts.SectionLen
	line := geom.NewLine(0, 0, y0, 0, l)
	// Continue each segment from the evaluated end pose of the previous
	// one so the reference line has no kinks.
	p1 := line.PointAt(l)
	arc := geom.NewArc(l, p1.X, p1.Y, p1.Heading, l, 1.0/(4*l))
	p2 := arc.PointAt(2 * l)
	spiral := geom.NewSpiral(2*l, p2.X, p2.Y, p2.Heading, l, 1.0/(4*l), 0)

	road := element.Road{
		ID:         id,
		Name:       fmt.Sprintf("synthetic road %d", id),
		JunctionID: element.NoLink,
		Length:     3 * l,
		Rule:       "RHT",
		Link:       element.RoadLink{Predecessor: element.NoLink, Successor: element.NoLink},
		TypeInfo:   []element.RoadTypeInfo{{S: 0, Type: "town"}},
		PlanView:   []element.Geometry{line, arc, spiral},
	}

	for i := 0; i < 3; i++ {
		road.Sections = append(road.Sections,
			buildSection(float64(i)*l, float64(i+1)*l, opts))
	}
	return road
}

func buildSection(s0, s1 float64, opts Options) element.LaneSection {
	sec := element.LaneSection{
		S0:     s0,
		S1:     s1,
		Center: []element.Lane{{Index: 0, Type: "none"}},
	}
	width := []element.WidthRecord{{Poly: element.Poly3{A: opts.LaneWidth}}}
	for i := 1; i <= opts.LanesPerSide; i++ {
		sec.Left = append(sec.Left,
			element.Lane{Index: i, Type: "driving", Widths: width})
		sec.Right = append(sec.Right,
			element.Lane{Index: -i, Type: "driving", Widths: width})
	}
	return sec
}
