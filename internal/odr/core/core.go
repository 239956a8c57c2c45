// Package core defines the discretized lane-network model the conversion
// engine produces: sampled points and curves, lanes with boundaries,
// sections, roads, junctions, and the Repository that owns them all.
//
// Entities are created exactly once during a conversion run and never
// mutated afterwards; every cross-entity relationship is a compound id
// string resolved through the Repository maps, so there are no ownership
// cycles between entities.
package core

import "github.com/kestrel-nav/lanegrid/internal/odr/element"

// ID is a compound entity id of the form "<parent-id>_<local-index>".
// Ids are globally unique within their entity kind.
type ID = string

// GeometryType is re-exported so downstream consumers of the converted
// model do not need to import the element package for the tag alone.
type GeometryType = element.GeometryType

// Point is one discretized sample on a curve. S is the section-local arc
// length of the sample. Points are immutable once created.
type Point struct {
	X       float64
	Y       float64
	Heading float64
	S       float64
	ID      ID
}

// Curve is an ordered point sequence with non-decreasing S.
type Curve struct {
	Pts []Point
}

// Boundary is a lane boundary curve.
type Boundary struct {
	Curve Curve
}

// GeometryMarker records where a new plan-view geometry type begins along
// a lane. Each contiguous run of one type contributes exactly one marker.
type GeometryMarker struct {
	Type  GeometryType
	Point Point
}

// Lane is one discretized lane: its central curve, its two boundary
// curves, and the geometry-type markers along it.
type Lane struct {
	ID            ID
	ParentID      ID
	CentralCurve  Curve
	LeftBoundary  Boundary
	RightBoundary Boundary
	Geometries    []GeometryMarker
}

// Section is a longitudinal road slice with a fixed lane cross-section.
// Sections of a road are contiguous and ordered by increasing arc length.
// LeftLanes and RightLanes are ordered innermost first, matching the
// lateral stitching order used during sampling.
type Section struct {
	ID         ID
	ParentID   ID
	StartS     float64
	EndS       float64
	Length     float64
	CenterLane *Lane
	LeftLanes  []*Lane
	RightLanes []*Lane
}

// RoadInfo marks a road-type change at an arc-length position.
type RoadInfo struct {
	S    float64
	Type string
}

// Road is a converted road. PredecessorIDs and SuccessorIDs hold at most
// one id each; OpenDRIVE restricts a road to one predecessor and one
// successor.
type Road struct {
	ID             ID
	Name           string
	JunctionID     ID // empty when the road is not inside a junction
	Length         float64
	Rule           string
	PredecessorIDs []ID
	SuccessorIDs   []ID
	Infos          []RoadInfo
	Sections       []*Section
}

// Junction is a converted junction.
type Junction struct {
	ID   ID
	Name string
	Type string
}

// Header is the converted map metadata.
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
