// Package session implements the Session (component F): the live world of
// a single map. It owns that map's dogs and loot objects, and drives
// per-tick movement and gather resolution.
package session

import (
	"sort"

	"github.com/wricardo/dogloot/internal/avatar"
	"github.com/wricardo/dogloot/internal/collide"
	"github.com/wricardo/dogloot/internal/geom"
	"github.com/wricardo/dogloot/internal/idalloc"
	"github.com/wricardo/dogloot/internal/loot"
	"github.com/wricardo/dogloot/internal/worldmap"
)

// Session is the live world attached to one Map. No cross-session avatar
// ever exists: a Session only ever touches its own Map, its own Dogs, and
// its own loot objects.
type Session struct {
	Map *worldmap.Map

	dogs    []*avatar.Dog
	loot    map[int]*loot.Object
	lootIDs *idalloc.Counter
	gen     *loot.Generator
}

// New creates an empty session bound to m, using lootIDs as the shared
// per-Game loot id allocator and gen as the session's own loot generator
// instance.
func New(m *worldmap.Map, lootIDs *idalloc.Counter, gen *loot.Generator) *Session {
	return &Session{
		Map:     m,
		loot:    make(map[int]*loot.Object),
		lootIDs: lootIDs,
		gen:     gen,
	}
}

// AddDog attaches a dog to the session. Sessions hold a non-owning
// reference; the owning Player outlives the session attachment.
func (s *Session) AddDog(d *avatar.Dog) {
	s.dogs = append(s.dogs, d)
}

// Dogs returns the session's dogs in join order.
func (s *Session) Dogs() []*avatar.Dog {
	return s.dogs
}

// LootObjects returns the live loot-id -> LootObject map.
func (s *Session) LootObjects() map[int]*loot.Object {
	return s.loot
}

// RestoreLootObject inserts a loot object with a pre-existing id, used only
// by snapshot restore. It does not consult or advance the generator.
func (s *Session) RestoreLootObject(o *loot.Object) {
	s.loot[o.ID] = o
}

// GenerateLoot asks the session's generator how many new loot items to
// spawn given deltaMS elapsed and the current loot/gatherer counts, then
// materializes that many items at random map positions with random types.
func (s *Session) GenerateLoot(deltaMS float64) {
	n := s.gen.Generate(deltaMS, len(s.loot), len(s.dogs))
	for i := 0; i < n; i++ {
		pos, err := s.Map.RandomPosition()
		if err != nil {
			return
		}
		typeIdx, value, err := s.Map.RandomLootType()
		if err != nil {
			return
		}
		obj := &loot.Object{
			ID:       s.lootIDs.Next(),
			TypeIdx:  typeIdx,
			Value:    value,
			Position: pos,
		}
		s.loot[obj.ID] = obj
	}
}

// UpdateDogsPositions advances every dog by deltaSeconds along the road
// network (§4.F), recording each dog's last-tick segment, then runs gather
// resolution over the updated positions (§4.D).
func (s *Session) UpdateDogsPositions(deltaSeconds float64) {
	for _, d := range s.dogs {
		start := d.Position
		d.Position = advance(s.Map, d, deltaSeconds)
		d.LastSegment = avatar.Segment{Start: start, End: d.Position}
	}

	s.resolveGathers()
}

// advance resolves one dog's movement for one tick per §4.F.
func advance(m *worldmap.Map, d *avatar.Dog, deltaSeconds float64) geom.PointDouble {
	pInt := geom.Round(d.Position)
	candidates := m.RoadsAt(pInt)
	if len(candidates) == 0 {
		d.Stop()
		return d.Position
	}

	next := d.Position.Add(d.Velocity.Scale(deltaSeconds))

	for _, r := range candidates {
		if r.IsOnArea(next) {
			return next
		}
	}

	best := candidates[0].Clamp(next)
	bestDist := geom.Distance(d.Position, best)
	for _, r := range candidates[1:] {
		c := r.Clamp(next)
		if dist := geom.Distance(d.Position, c); dist > bestDist {
			best = c
			bestDist = dist
		}
	}

	d.Stop()
	return best
}

// resolveGathers runs the collision detector over this tick's items
// (live loot ∪ offices) and gatherers (dogs' last-tick segments), then
// applies pickup/bank semantics in parameter order.
func (s *Session) resolveGathers() {
	type itemRef struct {
		isOffice bool
		lootID   int
		office   worldmap.Office
	}

	var items []collide.Item
	var refs []itemRef

	// Loot objects first, then offices — order only affects ItemIndex
	// identity, not application semantics, since refs carries the kind.
	lootIDsOrdered := make([]int, 0, len(s.loot))
	for id := range s.loot {
		lootIDsOrdered = append(lootIDsOrdered, id)
	}
	sort.Ints(lootIDsOrdered)
	for _, id := range lootIDsOrdered {
		o := s.loot[id]
		items = append(items, collide.Item{Position: o.Position, Width: loot.Width})
		refs = append(refs, itemRef{lootID: id})
	}
	for _, o := range s.Map.Offices() {
		items = append(items, collide.Item{Position: o.Position.ToDouble(), Width: o.Width()})
		refs = append(refs, itemRef{isOffice: true, office: o})
	}

	var gatherers []collide.Gatherer
	for _, d := range s.dogs {
		gatherers = append(gatherers, collide.Gatherer{Start: d.LastSegment.Start, End: d.LastSegment.End, Width: 0})
	}

	events := collide.Detect(items, gatherers)

	for _, ev := range events {
		d := s.dogs[ev.GathererIndex]
		ref := refs[ev.ItemIndex]

		if ref.isOffice {
			// Score was already credited on pickup; banking only empties the bag.
			d.Bag.Empty()
			continue
		}

		o, stillPresent := s.loot[ref.lootID]
		if !stillPresent {
			continue
		}
		if d.Bag.IsFull() {
			continue
		}
		delete(s.loot, ref.lootID)
		d.Bag.Add(*o)
		d.Score += o.Value
	}
}
