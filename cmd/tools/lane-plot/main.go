// Command lane-plot renders the sampled lane curves of a synthetic
// network to an image: lane boundaries in gray, centerlines in color.
// Useful for eyeballing sampling density and lane stitching.
package main

import (
	"flag"
	"image/color"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kestrel-nav/lanegrid/internal/config"
	"github.com/kestrel-nav/lanegrid/internal/odr/core"
	"github.com/kestrel-nav/lanegrid/internal/odr/engine"
	"github.com/kestrel-nav/lanegrid/internal/odr/kdtree"
	"github.com/kestrel-nav/lanegrid/internal/odr/synthetic"
)

func main() {
	output := flag.String("o", "lanes.png", "output image path")
	roads := flag.Int("roads", 1, "number of synthetic roads")
	lanes := flag.Int("lanes", 2, "lanes per side")
	step := flag.Float64("step", 0.5, "sampling step in meters")
	flag.Parse()

	opts := synthetic.DefaultOptions()
	opts.Roads = *roads
	opts.LanesPerSide = *lanes
	m := synthetic.Network(opts)

	repo := core.NewRepository()
	tree := kdtree.New()
	params := (&config.EngineConfig{Step: step}).Resolve()
	if status := engine.NewConvertor(repo, tree, params).Convert(m); !status.OK() {
		log.Fatalf("conversion failed: %v", status.Err())
	}

	p := plot.New()
	p.Title.Text = "sampled lane network"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	boundary := color.RGBA{R: 160, G: 160, B: 160, A: 255}
	centerline := color.RGBA{B: 200, A: 255}
	for _, lane := range repo.Lanes() {
		addCurve(p, lane.LeftBoundary.Curve, boundary, vg.Points(0.5))
		addCurve(p, lane.RightBoundary.Curve, boundary, vg.Points(0.5))
		addCurve(p, lane.CentralCurve, centerline, vg.Points(1))
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, *output); err != nil {
		log.Fatalf("save plot: %v", err)
	}
	log.Printf("✓ Created: %s (%d lanes)", *output, len(repo.Lanes()))
}

func addCurve(p *plot.Plot, curve core.Curve, c color.Color, width vg.Length) {
	pts := make(plotter.XYs, 0, len(curve.Pts))
	for _, pt := range curve.Pts {
		pts = append(pts, plotter.XY{X: pt.X, Y: pt.Y})
	}
	if len(pts) == 0 {
		return
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		log.Fatalf("build line: %v", err)
	}
	line.Color = c
	line.Width = width
	p.Add(line)
}
