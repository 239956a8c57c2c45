// Package kdtree implements the static spatial index over sampled lane
// centerline points: build once after conversion, query many times for
// nearest-point lookups (map matching a position to lane centerlines).
//
// The tree is a balanced 2-d tree stored in a flat array, rebuilt from
// scratch on every Build. There is no incremental insert or delete.
package kdtree

import (
	"container/heap"
	"errors"
	"math"
	"sort"
	"sync"
)

// DefaultLeafSize is the bucket size below which subtrees are scanned
// linearly instead of split further.
const DefaultLeafSize = 16

// ErrOutOfRange is returned by Query when k exceeds the number of indexed
// points (or is not positive). The index is left untouched.
var ErrOutOfRange = errors.New("kdtree: k out of range")

// Params are build-time knobs forwarded from configuration. They are
// opaque to the conversion engine.
type Params struct {
	// LeafSize is the maximum bucket size of a leaf node. Values < 1
	// fall back to DefaultLeafSize.
	LeafSize int
}

// Sample is one indexable point: a 2D coordinate plus the opaque id of
// the centerline point it came from.
type Sample struct {
	X, Y float64
	ID   string
}

// Result is one query hit. Dist is the true Euclidean distance to the
// query position (squared distances are used internally only).
type Result struct {
	X, Y float64
	ID   string
	Dist float64
}

// KDTree is a build-once, query-many nearest-neighbour index.
// Build takes the write lock; Query takes the read lock, so queries run
// concurrently with each other but never with a rebuild.
type KDTree struct {
	mu       sync.RWMutex
	pts      []Sample // reordered into tree layout by build
	leafSize int
}

// New returns an empty tree. Call Build before querying.
func New() *KDTree {
	return &KDTree{leafSize: DefaultLeafSize}
}

// Len returns the number of indexed points.
func (t *KDTree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.pts)
}

// Build replaces the index contents with the given samples. The previous
// index is fully discarded; the input slice is copied and left unchanged.
func (t *KDTree) Build(samples []Sample, p Params) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.leafSize = p.LeafSize
	if t.leafSize < 1 {
		t.leafSize = DefaultLeafSize
	}
	t.pts = make([]Sample, len(samples))
	copy(t.pts, samples)
	t.build(0, len(t.pts), 0)
}

// build recursively partitions pts[lo:hi) around the axis median, leaving
// the median at the midpoint so the tree layout is implicit in the array.
func (t *KDTree) build(lo, hi, depth int) {
	if hi-lo <= t.leafSize {
		return
	}
	axis := depth % 2
	sub := t.pts[lo:hi]
	sort.Slice(sub, func(i, j int) bool {
		return coord(sub[i], axis) < coord(sub[j], axis)
	})
	mid := (lo + hi) / 2
	t.build(lo, mid, depth+1)
	t.build(mid+1, hi, depth+1)
}

// Query returns the k indexed points nearest to (x, y), ordered by
// ascending Euclidean distance. Ties in distance keep the tree's internal
// visit order; callers must not rely on any id ordering among equidistant
// hits. Query fails with ErrOutOfRange, without touching the index, when
// k is not in [1, Len()]; it never returns a truncated result set.
func (t *KDTree) Query(x, y float64, k int) ([]Result, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if k < 1 || k > len(t.pts) {
		return nil, ErrOutOfRange
	}
	best := make(resultHeap, 0, k)
	t.search(x, y, k, 0, len(t.pts), 0, &best)

	// Drain the max-heap into ascending order.
	out := make([]Result, len(best))
	for i := len(best) - 1; i >= 0; i-- {
		item := heap.Pop(&best).(heapItem)
		s := t.pts[item.idx]
		out[i] = Result{X: s.X, Y: s.Y, ID: s.ID, Dist: math.Sqrt(item.dist2)}
	}
	return out, nil
}

func (t *KDTree) search(x, y float64, k, lo, hi, depth int, best *resultHeap) {
	if hi-lo <= t.leafSize {
		for i := lo; i < hi; i++ {
			best.offer(k, i, sqDist(t.pts[i], x, y))
		}
		return
	}
	axis := depth % 2
	mid := (lo + hi) / 2
	pivot := t.pts[mid]
	best.offer(k, mid, sqDist(pivot, x, y))

	q := x
	if axis == 1 {
		q = y
	}
	delta := q - coord(pivot, axis)
	nearLo, nearHi, farLo, farHi := lo, mid, mid+1, hi
	if delta >= 0 {
		nearLo, nearHi, farLo, farHi = mid+1, hi, lo, mid
	}
	t.search(x, y, k, nearLo, nearHi, depth+1, best)
	// The far half can only help if the splitting plane is closer than
	// the current worst candidate, or the heap is not yet full.
	if len(*best) < k || delta*delta < (*best)[0].dist2 {
		t.search(x, y, k, farLo, farHi, depth+1, best)
	}
}

func coord(s Sample, axis int) float64 {
	if axis == 0 {
		return s.X
	}
	return s.Y
}

func sqDist(s Sample, x, y float64) float64 {
	dx, dy := s.X-x, s.Y-y
	return dx*dx + dy*dy
}

// heapItem pairs a point index with its squared distance to the query.
type heapItem struct {
	dist2 float64
	idx   int
}

// resultHeap is a max-heap on squared distance holding the k best
// candidates seen so far.
type resultHeap []heapItem

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].dist2 > h[j].dist2 }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// offer inserts a candidate, evicting the current worst once k candidates
// are held.
func (h *resultHeap) offer(k, idx int, d2 float64) {
	if len(*h) < k {
		heap.Push(h, heapItem{dist2: d2, idx: idx})
		return
	}
	if d2 < (*h)[0].dist2 {
		(*h)[0] = heapItem{dist2: d2, idx: idx}
		heap.Fix(h, 0)
	}
}
