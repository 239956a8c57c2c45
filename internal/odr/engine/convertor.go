// Package engine converts a parsed road-network description into the
// discretized lane-level model: it walks each road's arc-length domain,
// samples every lane's center and boundary curves, assembles the
// Road → Section → Lane topology in the repository, and builds the
// spatial index over all sampled centerline points.
package engine

import (
	"fmt"
	"log"
	"strconv"

	"github.com/kestrel-nav/lanegrid/internal/config"
	"github.com/kestrel-nav/lanegrid/internal/odr/core"
	"github.com/kestrel-nav/lanegrid/internal/odr/element"
	"github.com/kestrel-nav/lanegrid/internal/odr/kdtree"
)

// Convertor drives the conversion pipeline:
//
//	header → roads (sections + lanes + sampling) → junctions → index build
//
// Stages run in that order and each stage is a no-op once the status has
// failed, so the first error short-circuits the rest of the run and is
// returned unmodified. A Convertor is single-threaded; run one conversion
// at a time.
type Convertor struct {
	params config.Params
	repo   *core.Repository
	tree   *kdtree.KDTree

	status Status
	// centerPts accumulates every sampled lane-centerline point across
	// all roads; it feeds the spatial index and is released after build.
	centerPts []kdtree.Sample
}

// NewConvertor wires a convertor to its collaborators. The repository
// receives the converted entities and the tree is rebuilt over the
// sampled centerline points at the end of a successful run.
func NewConvertor(repo *core.Repository, tree *kdtree.KDTree, params config.Params) *Convertor {
	if params.Step < config.MinStep {
		params.Step = config.MinStep
	}
	return &Convertor{params: params, repo: repo, tree: tree}
}

// Convert runs the full pipeline over the parsed map. On failure the
// returned status carries the first error; entities stored before the
// failure remain in the repository and it is up to the caller to discard
// them.
func (c *Convertor) Convert(m *element.Map) Status {
	c.status = Status{Code: OK, Msg: "ok"}
	c.centerPts = nil
	if c.repo == nil || c.tree == nil {
		c.fail(InitError, "convertor missing repository or index")
		return c.status
	}
	if m == nil {
		c.fail(InitError, "nil element map")
		return c.status
	}

	c.convertHeader(m)
	c.convertRoads(m)
	c.convertJunctions(m)
	c.buildIndex()
	return c.status
}

func (c *Convertor) ok() bool { return c.status.Code == OK }

func (c *Convertor) fail(code ErrorCode, msg string) {
	c.status = Status{Code: code, Msg: msg}
}

func (c *Convertor) convertHeader(m *element.Map) {
	if !c.ok() {
		return
	}
	h := m.Header
	c.repo.SetHeader(&core.Header{
		RevMajor: h.RevMajor,
		RevMinor: h.RevMinor,
		Name:     h.Name,
		Version:  h.Version,
		Date:     h.Date,
		Vendor:   h.Vendor,
		North:    h.North,
		South:    h.South,
		East:     h.East,
		West:     h.West,
	})
}

func (c *Convertor) convertRoads(m *element.Map) {
	if !c.ok() {
		return
	}
	for i := range m.Roads {
		eleRoad := &m.Roads[i]
		// Negative source ids mark malformed elements; skip silently.
		if eleRoad.ID < 0 {
			continue
		}
		road := c.convertRoadAttr(eleRoad)
		c.convertSections(eleRoad, road)
		if !c.ok() {
			return
		}
		if err := c.repo.AddRoad(road); err != nil {
			c.fail(ConversionError, err.Error())
			return
		}
	}
	log.Printf("converted %d roads", len(c.repo.Roads()))
}

func (c *Convertor) convertRoadAttr(eleRoad *element.Road) *core.Road {
	road := &core.Road{
		ID:     strconv.FormatInt(eleRoad.ID, 10),
		Name:   eleRoad.Name,
		Length: eleRoad.Length,
		Rule:   eleRoad.Rule,
	}
	if eleRoad.JunctionID != element.NoLink {
		road.JunctionID = strconv.FormatInt(eleRoad.JunctionID, 10)
	}
	// A road carries at most one predecessor and one successor.
	if eleRoad.Link.Predecessor != element.NoLink {
		road.PredecessorIDs = append(road.PredecessorIDs,
			strconv.FormatInt(eleRoad.Link.Predecessor, 10))
	}
	if eleRoad.Link.Successor != element.NoLink {
		road.SuccessorIDs = append(road.SuccessorIDs,
			strconv.FormatInt(eleRoad.Link.Successor, 10))
	}
	for _, info := range eleRoad.TypeInfo {
		road.Infos = append(road.Infos, core.RoadInfo{S: info.S, Type: info.Type})
	}
	return road
}

// convertSections builds each section of a road, samples its lanes, and
// threads the road-local arc-length cursor across sections so sampling is
// continuous along the whole road.
func (c *Convertor) convertSections(eleRoad *element.Road, road *core.Road) {
	if !c.ok() {
		return
	}
	roadS := 0.0
	for i := range eleRoad.Sections {
		eleSec := &eleRoad.Sections[i]
		sec := &core.Section{
			ID:       fmt.Sprintf("%s_%d", road.ID, i),
			ParentID: road.ID,
			StartS:   eleSec.S0,
			EndS:     eleSec.S1,
			Length:   eleSec.S1 - eleSec.S0,
		}
		road.Sections = append(road.Sections, sec)
		if err := c.repo.AddSection(sec); err != nil {
			c.fail(ConversionError, err.Error())
			return
		}

		if len(eleSec.Center) != 1 {
			c.fail(ConversionError,
				fmt.Sprintf("%s: center lane count %d, want 1", sec.ID, len(eleSec.Center)))
			return
		}
		center := &core.Lane{ID: sec.ID + "_0", ParentID: sec.ID}
		sec.CenterLane = center
		if err := c.sampleCenterLane(eleRoad, sec, &roadS); err != nil {
			c.fail(ConversionError, err.Error())
			return
		}
		if err := c.repo.AddLane(center); err != nil {
			c.fail(ConversionError, err.Error())
			return
		}

		// Left lanes stitch outward from the center lane's left
		// boundary: each lane's right boundary becomes the next lane's
		// reference curve.
		refLine := center.LeftBoundary.Curve.Pts
		for j := range eleSec.Left {
			eleLane := &eleSec.Left[j]
			lane := c.sampleSideLane(eleLane, sec, refLine)
			if lane == nil {
				return
			}
			sec.LeftLanes = append(sec.LeftLanes, lane)
			refLine = lane.RightBoundary.Curve.Pts
		}

		// Right lanes stitch outward from the center lane's right
		// boundary.
		refLine = center.RightBoundary.Curve.Pts
		for j := range eleSec.Right {
			eleLane := &eleSec.Right[j]
			lane := c.sampleSideLane(eleLane, sec, refLine)
			if lane == nil {
				return
			}
			sec.RightLanes = append(sec.RightLanes, lane)
			refLine = lane.RightBoundary.Curve.Pts
		}
	}
}

// sampleSideLane builds and stores one non-center lane. It returns nil
// after recording a failure status.
func (c *Convertor) sampleSideLane(eleLane *element.Lane, sec *core.Section, refLine []core.Point) *core.Lane {
	lane := &core.Lane{
		ID:       fmt.Sprintf("%s_%d", sec.ID, eleLane.Index),
		ParentID: sec.ID,
	}
	c.sampleLane(eleLane, lane, refLine)
	if err := c.repo.AddLane(lane); err != nil {
		c.fail(ConversionError, err.Error())
		return nil
	}
	return lane
}

func (c *Convertor) convertJunctions(m *element.Map) {
	if !c.ok() {
		return
	}
	for _, eleJunction := range m.Junctions {
		if eleJunction.ID < 0 {
			continue
		}
		j := &core.Junction{
			ID:   strconv.FormatInt(eleJunction.ID, 10),
			Name: eleJunction.Name,
			Type: eleJunction.Type,
		}
		if err := c.repo.AddJunction(j); err != nil {
			c.fail(ConversionError, err.Error())
			return
		}
	}
}

// buildIndex rebuilds the spatial index over the accumulated centerline
// samples and releases the flat collection.
func (c *Convertor) buildIndex() {
	if !c.ok() {
		return
	}
	c.tree.Build(c.centerPts, kdtree.Params{LeafSize: c.params.LeafSize})
	log.Printf("indexed %d centerline points", len(c.centerPts))
	c.centerPts = nil
}
