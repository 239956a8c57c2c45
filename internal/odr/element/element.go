// Package element holds the parsed road-network description consumed by the
// conversion engine. It is the boundary to the external parser world: the
// structs here mirror what an OpenDRIVE-style parser produces, and the
// Geometry interface is the narrow surface through which closed-form curve
// evaluation is reached. Nothing in this package reads files or evaluates
// geometry itself.
package element

// NoLink is the sentinel id meaning "no predecessor/successor/junction".
const NoLink int64 = -1

// GeometryType tags the closed-form shape of a plan-view segment.
type GeometryType int

const (
	GeometryUnknown GeometryType = iota
	GeometryLine
	GeometryArc
	GeometrySpiral
	GeometryPoly3
)

// String returns the lowercase OpenDRIVE tag for the geometry type.
func (t GeometryType) String() string {
	switch t {
	case GeometryLine:
		return "line"
	case GeometryArc:
		return "arc"
	case GeometrySpiral:
		return "spiral"
	case GeometryPoly3:
		return "poly3"
	}
	return "unknown"
}

// Point is an evaluated position on a road reference line.
type Point struct {
	X, Y    float64
	Heading float64 // radians, counter-clockwise from +x
}

// Geometry is one plan-view segment of a road reference line, evaluable at
// any arc length within its own sub-domain [StartS, EndS].
type Geometry interface {
	// StartS is the arc length at which the segment begins.
	StartS() float64
	// Length is the arc length the segment covers.
	Length() float64
	// EndS is StartS + Length.
	EndS() float64
	// Type tags the segment's closed-form shape.
	Type() GeometryType
	// PointAt evaluates position and heading at road arc length s.
	PointAt(s float64) Point
}

// Header carries map-level metadata.
type Header struct {
	RevMajor uint16
	RevMinor uint16
	Name     string
	Version  string
	Date     string
	Vendor   string
	North    float64
	South    float64
	East     float64
	West     float64
}

// RoadTypeInfo marks a road-type change at an arc-length position.
type RoadTypeInfo struct {
	S    float64
	Type string
}

// RoadLink holds the at-most-one predecessor and successor of a road.
// NoLink means the relation is absent.
type RoadLink struct {
	Predecessor int64
	Successor   int64
}

// Road is one parsed road: attributes, links, plan-view geometry, the lane
// offset of the reference line, and the ordered lane sections.
type Road struct {
	ID         int64
	Name       string
	JunctionID int64 // NoLink when the road is not inside a junction
	Length     float64
	Rule       string // traffic rule, e.g. "RHT"
	Link       RoadLink
	TypeInfo   []RoadTypeInfo
	PlanView   []Geometry // ordered, contiguous, covering [0, Length]
	Offsets    []OffsetRecord
	Sections   []LaneSection
}

// LaneOffsetAt evaluates the lateral offset of the lane reference line at
// road arc length s. With no matching record the offset is zero.
func (r *Road) LaneOffsetAt(s float64) float64 {
	idx := -1
	for i, rec := range r.Offsets {
		if rec.S > s {
			break
		}
		idx = i
	}
	if idx < 0 {
		return 0
	}
	return r.Offsets[idx].Poly.Eval(s - r.Offsets[idx].S)
}

// OffsetRecord is a cubic lane-offset polynomial valid from road arc
// length S until the next record.
type OffsetRecord struct {
	S    float64
	Poly Poly3
}

// LaneSection is a longitudinal slice of a road over which the lane
// cross-section is fixed. Left lanes are ordered innermost first
// (indices 1, 2, ...), right lanes likewise (-1, -2, ...). Center must
// hold exactly one lane for a well-formed map.
type LaneSection struct {
	S0     float64 // section start, road arc length
	S1     float64 // section end, road arc length
	Center []Lane
	Left   []Lane
	Right  []Lane
}

// Lane is one parsed lane of a section. Index is the signed local lane
// index: positive left of the reference line, negative right, 0 center.
type Lane struct {
	Index  int
	Type   string
	Widths []WidthRecord
}

// WidthAt evaluates the lane width at section-local arc length ds.
// With no matching record the width is zero.
func (l *Lane) WidthAt(ds float64) float64 {
	idx := -1
	for i, rec := range l.Widths {
		if rec.SOffset > ds {
			break
		}
		idx = i
	}
	if idx < 0 {
		return 0
	}
	return l.Widths[idx].Poly.Eval(ds - l.Widths[idx].SOffset)
}

// WidthRecord is a cubic lane-width polynomial valid from section-local
// arc length SOffset until the next record.
type WidthRecord struct {
	SOffset float64
	Poly    Poly3
}

// Junction is a parsed junction's attributes.
type Junction struct {
	ID   int64
	Name string
	Type string
}

// Map is the root of the parsed map tree handed to the conversion engine.
type Map struct {
	Header    Header
	Roads     []Road
	Junctions []Junction
}
