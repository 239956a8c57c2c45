package element

// Poly3 is a cubic polynomial a + b*ds + c*ds^2 + d*ds^3 over a local
// arc-length variable ds. OpenDRIVE expresses lane offsets, lane widths
// and poly3 plan-view segments with these coefficients.
type Poly3 struct {
	A, B, C, D float64
}

// Eval returns the polynomial value at ds, using Horner's scheme.
func (p Poly3) Eval(ds float64) float64 {
	return p.A + ds*(p.B+ds*(p.C+ds*p.D))
}

// Slope returns the first derivative at ds.
func (p Poly3) Slope(ds float64) float64 {
	return p.B + ds*(2*p.C+ds*3*p.D)
}
