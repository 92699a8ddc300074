// README: In-memory R-tree over courier positions for window queries.
package matching

import (
	"math"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"

	"teleport/internal/modules/location"
	"teleport/internal/types"
)

const (
	treeMinChildren = 25
	treeMaxChildren = 50
	pointTolerance  = 1e-6
)

// courierEntry wraps a courier to satisfy rtreego.Spatial. Coordinates are
// stored as (lng, lat).
type courierEntry struct {
	courier Courier
	rect    rtreego.Rect
}

func (e *courierEntry) Bounds() rtreego.Rect { return e.rect }

func newCourierEntry(c Courier) *courierEntry {
	p := rtreego.Point{c.Position.Lng, c.Position.Lat}
	return &courierEntry{courier: c, rect: p.ToRect(pointTolerance)}
}

// Index is safe for concurrent use. Replace swaps the whole tree.
type Index struct {
	mu   sync.RWMutex
	tree *rtreego.Rtree
	byID map[types.ID]*courierEntry
}

func NewIndex(couriers []Courier) *Index {
	idx := &Index{}
	idx.Replace(couriers)
	return idx
}

// Replace rebuilds the index from a full courier snapshot.
func (i *Index) Replace(couriers []Courier) {
	tree := rtreego.NewTree(2, treeMinChildren, treeMaxChildren)
	byID := make(map[types.ID]*courierEntry, len(couriers))
	for _, c := range couriers {
		if old, ok := byID[c.ID]; ok {
			tree.Delete(old)
		}
		e := newCourierEntry(c)
		tree.Insert(e)
		byID[c.ID] = e
	}

	i.mu.Lock()
	i.tree = tree
	i.byID = byID
	i.mu.Unlock()
}

// Upsert inserts or moves a single courier.
func (i *Index) Upsert(c Courier) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if old, ok := i.byID[c.ID]; ok {
		i.tree.Delete(old)
	}
	e := newCourierEntry(c)
	i.tree.Insert(e)
	i.byID[c.ID] = e
}

// Remove drops a courier; unknown ids are ignored.
func (i *Index) Remove(id types.ID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if old, ok := i.byID[id]; ok {
		i.tree.Delete(old)
		delete(i.byID, id)
	}
}

func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

// Within returns couriers no further than radiusKm (great-circle) from p,
// ordered by ID so the result is deterministic.
func (i *Index) Within(p types.Point, radiusKm float64) []Courier {
	if radiusKm <= 0 {
		return nil
	}
	window, err := searchWindow(p, radiusKm)
	if err != nil {
		return nil
	}

	i.mu.RLock()
	hits := i.tree.SearchIntersect(window)
	i.mu.RUnlock()

	out := make([]Courier, 0, len(hits))
	for _, h := range hits {
		c := h.(*courierEntry).courier
		if location.DistanceKm(p, c.Position) <= radiusKm {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// searchWindow is the lng/lat bounding box of a circle around p.
func searchWindow(p types.Point, radiusKm float64) (rtreego.Rect, error) {
	dLat := radiusKm / kmPerDegree
	cos := math.Cos(p.Lat * math.Pi / 180)
	dLng := 180.0
	if cos > 1e-9 {
		dLng = math.Min(dLat/cos, 180)
	}
	return rtreego.NewRectFromPoints(
		rtreego.Point{p.Lng - dLng, p.Lat - dLat},
		rtreego.Point{p.Lng + dLng, p.Lat + dLat},
	)
}
