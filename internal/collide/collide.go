// Package collide implements the collision/gather detector (component D):
// for a set of moving gatherers and stationary items, it yields the ordered
// list of pickup/base-touch events that occurred during one tick.
package collide

import (
	"sort"

	"github.com/wricardo/dogloot/internal/geom"
)

// Item is anything a Gatherer can touch: a loot object or an office. Width
// is the item's own collision radius contribution.
type Item struct {
	Position geom.PointDouble
	Width    float64
}

// Gatherer is an avatar's last-tick line segment as seen by the detector.
type Gatherer struct {
	Start geom.PointDouble
	End   geom.PointDouble
	Width float64
}

// Event is one gather: gatherer index g touched item index i at parameter
// t along g's segment.
type Event struct {
	ItemIndex       int
	GathererIndex   int
	SquaredDistance float64
	Parameter       float64
}

// Detect returns the gather events between items and gatherers during one
// tick, sorted by Parameter ascending, ties broken by (GathererIndex,
// ItemIndex) for determinism. Gatherers with a zero-length segment never
// contribute events.
func Detect(items []Item, gatherers []Gatherer) []Event {
	var events []Event

	for gi, g := range gatherers {
		u := g.End.Sub(g.Start)
		if u == (geom.PointDouble{}) {
			continue
		}
		uu := u.Dot(u)

		for ii, it := range items {
			w := it.Position.Sub(g.Start)
			t := clamp01(u.Dot(w) / uu)
			q := g.Start.Add(u.Scale(t))
			d2 := q.Sub(it.Position).SquaredLength()

			limit := g.Width + it.Width
			if d2 <= limit*limit {
				events = append(events, Event{
					ItemIndex:       ii,
					GathererIndex:   gi,
					SquaredDistance: d2,
					Parameter:       t,
				})
			}
		}
	}

	sort.Slice(events, func(i, j int) bool { return less(events[i], events[j]) })
	return events
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func less(a, b Event) bool {
	if a.Parameter != b.Parameter {
		return a.Parameter < b.Parameter
	}
	if a.GathererIndex != b.GathererIndex {
		return a.GathererIndex < b.GathererIndex
	}
	return a.ItemIndex < b.ItemIndex
}
