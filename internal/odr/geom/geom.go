// Package geom provides the closed-form plan-view geometry evaluators
// (line, arc, clothoid spiral, cubic polynomial) behind the
// element.Geometry interface, plus the perpendicular-offset helper used
// when shifting reference-line points sideways into lane curves.
package geom

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/kestrel-nav/lanegrid/internal/odr/element"
)

// spiralQuadNodes is the Gauss-Legendre node count used when integrating
// the clothoid heading polynomial. 32 nodes keeps positional error well
// below the 0.1 m sampling step for segments up to several hundred meters.
const spiralQuadNodes = 32

// OffsetPoint shifts p perpendicular to its heading by offset. Positive
// offsets move to the left of the heading direction (the OpenDRIVE t-axis
// convention); the heading itself is unchanged.
func OffsetPoint(p element.Point, offset float64) element.Point {
	return element.Point{
		X:       p.X - offset*math.Sin(p.Heading),
		Y:       p.Y + offset*math.Cos(p.Heading),
		Heading: p.Heading,
	}
}

// base carries the fields every plan-view segment shares: the road arc
// length at which it starts, its start pose and its length.
type base struct {
	S0  float64
	X0  float64
	Y0  float64
	Hdg float64
	Len float64
}

func (b base) StartS() float64 { return b.S0 }
func (b base) Length() float64 { return b.Len }
func (b base) EndS() float64   { return b.S0 + b.Len }

// Line is a straight segment.
type Line struct {
	base
}

// NewLine builds a straight segment starting at road arc length s with
// pose (x, y, hdg) and the given length.
func NewLine(s, x, y, hdg, length float64) *Line {
	return &Line{base{S0: s, X0: x, Y0: y, Hdg: hdg, Len: length}}
}

func (g *Line) Type() element.GeometryType { return element.GeometryLine }

func (g *Line) PointAt(s float64) element.Point {
	ds := s - g.S0
	return element.Point{
		X:       g.X0 + ds*math.Cos(g.Hdg),
		Y:       g.Y0 + ds*math.Sin(g.Hdg),
		Heading: g.Hdg,
	}
}

// Arc is a constant-curvature segment. Positive curvature bends left.
type Arc struct {
	base
	Curvature float64
}

// NewArc builds a constant-curvature segment. curvature must be non-zero;
// use NewLine for straight segments.
func NewArc(s, x, y, hdg, length, curvature float64) *Arc {
	return &Arc{base{S0: s, X0: x, Y0: y, Hdg: hdg, Len: length}, curvature}
}

func (g *Arc) Type() element.GeometryType { return element.GeometryArc }

func (g *Arc) PointAt(s float64) element.Point {
	ds := s - g.S0
	hdg := g.Hdg + g.Curvature*ds
	return element.Point{
		X:       g.X0 + (math.Sin(hdg)-math.Sin(g.Hdg))/g.Curvature,
		Y:       g.Y0 - (math.Cos(hdg)-math.Cos(g.Hdg))/g.Curvature,
		Heading: hdg,
	}
}

// Spiral is a clothoid: curvature varies linearly from CurvStart at the
// segment start to CurvEnd at its end. Positions have no closed form, so
// PointAt integrates cos/sin of the heading polynomial with fixed
// Gauss-Legendre quadrature.
type Spiral struct {
	base
	CurvStart float64
	CurvEnd   float64
}

// NewSpiral builds a clothoid segment with linearly varying curvature.
func NewSpiral(s, x, y, hdg, length, curvStart, curvEnd float64) *Spiral {
	return &Spiral{base{S0: s, X0: x, Y0: y, Hdg: hdg, Len: length}, curvStart, curvEnd}
}

func (g *Spiral) Type() element.GeometryType { return element.GeometrySpiral }

// headingAt is the heading polynomial: hdg + k0*u + kdot*u^2/2 for local
// arc length u.
func (g *Spiral) headingAt(u float64) float64 {
	kdot := (g.CurvEnd - g.CurvStart) / g.Len
	return g.Hdg + g.CurvStart*u + 0.5*kdot*u*u
}

func (g *Spiral) PointAt(s float64) element.Point {
	ds := s - g.S0
	if ds == 0 {
		return element.Point{X: g.X0, Y: g.Y0, Heading: g.Hdg}
	}
	x := g.X0 + quad.Fixed(func(u float64) float64 {
		return math.Cos(g.headingAt(u))
	}, 0, ds, spiralQuadNodes, nil, 0)
	y := g.Y0 + quad.Fixed(func(u float64) float64 {
		return math.Sin(g.headingAt(u))
	}, 0, ds, spiralQuadNodes, nil, 0)
	return element.Point{X: x, Y: y, Heading: g.headingAt(ds)}
}

// Poly3 is a cubic-polynomial segment v = poly(u) in the local (u, v)
// frame anchored at the segment's start pose. The local abscissa u is
// approximated by the segment-local arc length, which is accurate for the
// gently varying polynomials maps use in practice.
type Poly3 struct {
	base
	Poly element.Poly3
}

// NewPoly3 builds a cubic-polynomial segment.
func NewPoly3(s, x, y, hdg, length float64, poly element.Poly3) *Poly3 {
	return &Poly3{base{S0: s, X0: x, Y0: y, Hdg: hdg, Len: length}, poly}
}

func (g *Poly3) Type() element.GeometryType { return element.GeometryPoly3 }

func (g *Poly3) PointAt(s float64) element.Point {
	u := s - g.S0
	v := g.Poly.Eval(u)
	sin, cos := math.Sin(g.Hdg), math.Cos(g.Hdg)
	return element.Point{
		X:       g.X0 + u*cos - v*sin,
		Y:       g.Y0 + u*sin + v*cos,
		Heading: g.Hdg + math.Atan(g.Poly.Slope(u)),
	}
}
