package element

import (
	"math"
	"testing"
)

func TestPoly3Eval(t *testing.T) {
	p := Poly3{A: 1, B: 2, C: 3, D: 4}
	// 1 + 2*2 + 3*4 + 4*8 = 49
	if got := p.Eval(2); got != 49 {
		t.Errorf("Eval(2) = %f, want 49", got)
	}
	// 2 + 6*2 + 12*4 = 62
	if got := p.Slope(2); got != 62 {
		t.Errorf("Slope(2) = %f, want 62", got)
	}
}

func TestLaneOffsetAtSelectsRecord(t *testing.T) {
	road := Road{Offsets: []OffsetRecord{
		{S: 0, Poly: Poly3{A: 1}},
		{S: 10, Poly: Poly3{A: 2, B: 0.5}},
	}}

	if got := road.LaneOffsetAt(5); got != 1 {
		t.Errorf("offset at s=5 = %f, want 1", got)
	}
	// Second record evaluates on ds = s - 10.
	if got := road.LaneOffsetAt(12); got != 3 {
		t.Errorf("offset at s=12 = %f, want 3", got)
	}
	// Exactly at a record boundary the new record wins.
	if got := road.LaneOffsetAt(10); got != 2 {
		t.Errorf("offset at s=10 = %f, want 2", got)
	}
}

func TestLaneOffsetAtNoRecords(t *testing.T) {
	road := Road{}
	if got := road.LaneOffsetAt(3); got != 0 {
		t.Errorf("offset with no records = %f, want 0", got)
	}
}

func TestWidthAtSelectsRecord(t *testing.T) {
	lane := Lane{Index: 1, Widths: []WidthRecord{
		{SOffset: 0, Poly: Poly3{A: 3.5}},
		{SOffset: 20, Poly: Poly3{A: 3.0, B: -0.1}},
	}}

	if got := lane.WidthAt(10); got != 3.5 {
		t.Errorf("width at ds=10 = %f, want 3.5", got)
	}
	if got := lane.WidthAt(25); math.Abs(got-2.5) > 1e-12 {
		t.Errorf("width at ds=25 = %f, want 2.5", got)
	}
}

func TestWidthAtNoRecords(t *testing.T) {
	lane := Lane{Index: -1}
	if got := lane.WidthAt(0); got != 0 {
		t.Errorf("width with no records = %f, want 0", got)
	}
}

func TestGeometryTypeString(t *testing.T) {
	cases := map[GeometryType]string{
		GeometryLine:    "line",
		GeometryArc:     "arc",
		GeometrySpiral:  "spiral",
		GeometryPoly3:   "poly3",
		GeometryUnknown: "unknown",
	}
	for typ, want := range cases {
		if typ.String() != want {
			t.Errorf("%d.String() = %q, want %q", typ, typ.String(), want)
		}
	}
}
