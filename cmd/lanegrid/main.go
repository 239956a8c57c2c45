// Command lanegrid converts a synthetic road network into the
// discretized lane model, persists it to SQLite, and runs a few
// nearest-point queries against the spatial index.
package main

import (
	"flag"
	"log"

	"github.com/google/uuid"

	"github.com/kestrel-nav/lanegrid/internal/config"
	"github.com/kestrel-nav/lanegrid/internal/lanedb"
	"github.com/kestrel-nav/lanegrid/internal/odr/core"
	"github.com/kestrel-nav/lanegrid/internal/odr/engine"
	"github.com/kestrel-nav/lanegrid/internal/odr/kdtree"
	"github.com/kestrel-nav/lanegrid/internal/odr/synthetic"
)

func main() {
	configPath := flag.String("config", "", "optional engine config JSON")
	dbPath := flag.String("db", "lanegrid.db", "output database path (empty to skip persistence)")
	roads := flag.Int("roads", 2, "number of synthetic roads")
	lanes := flag.Int("lanes", 2, "lanes per side")
	sectionLen := flag.Float64("section-length", 50, "section length in meters")
	step := flag.Float64("step", 0.5, "sampling step in meters")
	qx := flag.Float64("qx", 10, "query x")
	qy := flag.Float64("qy", 2, "query y")
	k := flag.Int("k", 3, "nearest neighbours to report")
	flag.Parse()

	var cfg *config.EngineConfig
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	} else {
		cfg = &config.EngineConfig{Step: step}
	}
	params := cfg.Resolve()

	opts := synthetic.DefaultOptions()
	opts.Roads = *roads
	opts.LanesPerSide = *lanes
	opts.SectionLen = *sectionLen
	m := synthetic.Network(opts)

	repo := core.NewRepository()
	tree := kdtree.New()
	conv := engine.NewConvertor(repo, tree, params)
	if status := conv.Convert(m); !status.OK() {
		log.Fatalf("conversion failed: %v", status.Err())
	}
	log.Printf("converted %q: %d roads, %d sections, %d lanes, %d indexed points",
		repo.Header().Name, len(repo.Roads()), len(repo.Sections()), len(repo.Lanes()), tree.Len())

	if *dbPath != "" {
		db, err := lanedb.NewLaneDB(*dbPath)
		if err != nil {
			log.Fatalf("open lane database: %v", err)
		}
		defer db.Close()
		runID := uuid.NewString()
		if err := db.SaveRepository(runID, repo.Header().Name, params.Step, repo); err != nil {
			log.Fatalf("persist repository: %v", err)
		}
		summary, err := db.Summary(runID)
		if err != nil {
			log.Fatalf("load run summary: %v", err)
		}
		log.Printf("saved run %s: %d points", summary.RunID, summary.Points)
	}

	results, err := tree.Query(*qx, *qy, *k)
	if err != nil {
		log.Fatalf("query (%g, %g, k=%d): %v", *qx, *qy, *k, err)
	}
	for i, r := range results {
		log.Printf("  #%d %s at (%.2f, %.2f) dist=%.3f", i+1, r.ID, r.X, r.Y, r.Dist)
	}
}
