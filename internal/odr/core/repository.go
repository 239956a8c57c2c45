package core

import "fmt"

// Repository is the owning store for a converted network: id-keyed maps
// of roads, sections, lanes and junctions plus the header. It is written
// only by the conversion engine; after a successful run it is treated as
// read-only and is safe for concurrent readers.
//
// Inserting a duplicate id is a hard error. The source this model derives
// from silently overwrote on collision; surfacing the collision instead
// turns malformed input into a diagnosable failure rather than a quietly
// corrupted map.
type Repository struct {
	header    *Header
	roads     map[ID]*Road
	sections  map[ID]*Section
	lanes     map[ID]*Lane
	junctions map[ID]*Junction
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{
		roads:     make(map[ID]*Road),
		sections:  make(map[ID]*Section),
		lanes:     make(map[ID]*Lane),
		junctions: make(map[ID]*Junction),
	}
}

// SetHeader stores the converted map metadata.
func (r *Repository) SetHeader(h *Header) { r.header = h }

// Header returns the converted map metadata, nil before conversion.
func (r *Repository) Header() *Header { return r.header }

// AddRoad inserts a road, failing on a duplicate id.
func (r *Repository) AddRoad(road *Road) error {
	if _, ok := r.roads[road.ID]; ok {
		return fmt.Errorf("duplicate road id %q", road.ID)
	}
	r.roads[road.ID] = road
	return nil
}

// AddSection inserts a section, failing on a duplicate id.
func (r *Repository) AddSection(sec *Section) error {
	if _, ok := r.sections[sec.ID]; ok {
		return fmt.Errorf("duplicate section id %q", sec.ID)
	}
	r.sections[sec.ID] = sec
	return nil
}

// AddLane inserts a lane, failing on a duplicate id.
func (r *Repository) AddLane(lane *Lane) error {
	if _, ok := r.lanes[lane.ID]; ok {
		return fmt.Errorf("duplicate lane id %q", lane.ID)
	}
	r.lanes[lane.ID] = lane
	return nil
}

// AddJunction inserts a junction, failing on a duplicate id.
func (r *Repository) AddJunction(j *Junction) error {
	if _, ok := r.junctions[j.ID]; ok {
		return fmt.Errorf("duplicate junction id %q", j.ID)
	}
	r.junctions[j.ID] = j
	return nil
}

// Road resolves a road id; the second result reports whether it exists.
func (r *Repository) Road(id ID) (*Road, bool) {
	road, ok := r.roads[id]
	return road, ok
}

// Section resolves a section id.
func (r *Repository) Section(id ID) (*Section, bool) {
	sec, ok := r.sections[id]
	return sec, ok
}

// Lane resolves a lane id.
func (r *Repository) Lane(id ID) (*Lane, bool) {
	lane, ok := r.lanes[id]
	return lane, ok
}

// Junction resolves a junction id.
func (r *Repository) Junction(id ID) (*Junction, bool) {
	j, ok := r.junctions[id]
	return j, ok
}

// Roads returns the road map. Callers must treat it as read-only.
func (r *Repository) Roads() map[ID]*Road { return r.roads }

// Sections returns the section map. Callers must treat it as read-only.
func (r *Repository) Sections() map[ID]*Section { return r.sections }

// Lanes returns the lane map. Callers must treat it as read-only.
func (r *Repository) Lanes() map[ID]*Lane { return r.lanes }

// Junctions returns the junction map. Callers must treat it as read-only.
func (r *Repository) Junctions() map[ID]*Junction { return r.junctions }
