// Package lanedb persists converted lane networks to SQLite so
// downstream consumers can load a network without re-running conversion.
// Persistence sits outside the conversion data path: a failure here never
// touches the in-memory repository or the spatial index.
package lanedb

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kestrel-nav/lanegrid/internal/odr/core"
)

type LaneDB struct {
	*sql.DB
}

// schema.sql defines the conversion-run, road, section, lane, junction
// and centerline-point tables.
//
//go:embed schema.sql
var schemaSQL string

// NewLaneDB opens (creating if needed) the database at path and applies
// the schema.
func NewLaneDB(path string) (*LaneDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to apply lane database schema: %w", err)
	}
	log.Println("initialized lane database schema")
	return &LaneDB{db}, nil
}

// RunSummary reports the stored entity counts of one conversion run.
type RunSummary struct {
	RunID     string
	MapName   string
	Roads     int
	Sections  int
	Lanes     int
	Junctions int
	Points    int
}

// SaveRepository stores a full snapshot of the repository under runID in
// a single transaction.
func (db *LaneDB) SaveRepository(runID, mapName string, step float64, repo *core.Repository) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	pointCount := 0
	for _, id := range sortedKeys(repo.Lanes()) {
		lane := repo.Lanes()[id]
		pointCount += len(lane.CentralCurve.Pts)
		if _, err := tx.Exec(
			`INSERT INTO lanes (run_id, lane_id, section_id, point_count) VALUES (?, ?, ?, ?)`,
			runID, lane.ID, lane.ParentID, len(lane.CentralCurve.Pts)); err != nil {
			return fmt.Errorf("failed to insert lane %s: %w", lane.ID, err)
		}
		for _, pt := range lane.CentralCurve.Pts {
			if _, err := tx.Exec(
				`INSERT INTO centerline_points (run_id, point_id, lane_id, x, y, heading, s)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				runID, pt.ID, lane.ID, pt.X, pt.Y, pt.Heading, pt.S); err != nil {
				return fmt.Errorf("failed to insert point %s: %w", pt.ID, err)
			}
		}
	}

	for _, id := range sortedKeys(repo.Roads()) {
		road := repo.Roads()[id]
		if _, err := tx.Exec(
			`INSERT INTO roads (run_id, road_id, name, junction_id, length, rule, predecessor_id, successor_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, road.ID, road.Name, road.JunctionID, road.Length, road.Rule,
			firstOrEmpty(road.PredecessorIDs), firstOrEmpty(road.SuccessorIDs)); err != nil {
			return fmt.Errorf("failed to insert road %s: %w", road.ID, err)
		}
	}

	for _, id := range sortedKeys(repo.Sections()) {
		sec := repo.Sections()[id]
		if _, err := tx.Exec(
			`INSERT INTO sections (run_id, section_id, road_id, start_s, end_s, length)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, sec.ID, sec.ParentID, sec.StartS, sec.EndS, sec.Length); err != nil {
			return fmt.Errorf("failed to insert section %s: %w", sec.ID, err)
		}
	}

	for _, id := range sortedKeys(repo.Junctions()) {
		j := repo.Junctions()[id]
		if _, err := tx.Exec(
			`INSERT INTO junctions (run_id, junction_id, name, junction_type) VALUES (?, ?, ?, ?)`,
			runID, j.ID, j.Name, j.Type); err != nil {
			return fmt.Errorf("failed to insert junction %s: %w", j.ID, err)
		}
	}

	mapName = runMapName(mapName, repo)
	if _, err := tx.Exec(
		`INSERT INTO conversion_runs (run_id, map_name, created_unix_nanos, step,
		 road_count, section_count, lane_count, junction_count, point_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, mapName, time.Now().UnixNano(), step,
		len(repo.Roads()), len(repo.Sections()), len(repo.Lanes()),
		len(repo.Junctions()), pointCount); err != nil {
		return fmt.Errorf("failed to insert conversion run: %w", err)
	}

	return tx.Commit()
}

// Summary loads the stored counts for one conversion run.
func (db *LaneDB) Summary(runID string) (RunSummary, error) {
	var s RunSummary
	err := db.QueryRow(
		`SELECT run_id, map_name, road_count, section_count, lane_count, junction_count, point_count
		 FROM conversion_runs WHERE run_id = ?`, runID).
		Scan(&s.RunID, &s.MapName, &s.Roads, &s.Sections, &s.Lanes, &s.Junctions, &s.Points)
	if err != nil {
		return RunSummary{}, fmt.Errorf("failed to load run summary: %w", err)
	}
	return s, nil
}

func runMapName(mapName string, repo *core.Repository) string {
	if mapName != "" {
		return mapName
	}
	if h := repo.Header(); h != nil {
		return h.Name
	}
	return ""
}

func firstOrEmpty(ids []core.ID) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// sortedKeys gives a stable iteration order so stored rows are
// deterministic for identical input.
func sortedKeys[V any](m map[core.ID]V) []core.ID {
	keys := make([]core.ID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
