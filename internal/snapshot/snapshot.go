// Package snapshot implements the snapshot serializer (component I): it
// converts a Game's full live state to and from an opaque JSON byte stream,
// restoring player, dog, and loot identity and the three monotonic id
// counters. Schema evolution is not supported: the stream carries no
// version, and only a stream that fails to parse is treated as unreadable.
package snapshot

import (
	"encoding/json"
	"os"

	"github.com/wricardo/dogloot/internal/auth"
	"github.com/wricardo/dogloot/internal/avatar"
	"github.com/wricardo/dogloot/internal/gameregistry"
	"github.com/wricardo/dogloot/internal/geom"
	"github.com/wricardo/dogloot/internal/loot"
)

type fileFormat struct {
	Sessions        []sessionDoc `json:"sessions"`
	DogIDCounter    int          `json:"dogIdCounter"`
	PlayerIDCounter int          `json:"playerIdCounter"`
	LootIDCounter   int          `json:"lootIdCounter"`
}

type sessionDoc struct {
	MapID   string       `json:"mapId"`
	Players []playerDoc  `json:"players"`
	Loot    []lootDoc    `json:"loot"`
}

type playerDoc struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Token string `json:"token"`
	Dog   dogDoc `json:"dog"`
}

type dogDoc struct {
	ID          int              `json:"id"`
	Position    geom.PointDouble `json:"position"`
	Velocity    geom.PointDouble `json:"velocity"`
	Facing      avatar.Direction `json:"facing"`
	Speed       float64          `json:"speed"`
	Score       int              `json:"score"`
	Bag         []lootDoc        `json:"bag"`
	LastSegment segmentDoc       `json:"lastSegment"`
}

type segmentDoc struct {
	Start geom.PointDouble `json:"start"`
	End   geom.PointDouble `json:"end"`
}

type lootDoc struct {
	ID       int              `json:"id"`
	TypeIdx  int              `json:"typeIdx"`
	Value    int              `json:"value"`
	Position geom.PointDouble `json:"position"`
}

// Save serializes g's full live state to a buffer and writes it to path.
// Marshal and write failures are both silent: save is best-effort, and the
// next periodic save will retry.
func Save(g *gameregistry.Game, path string) error {
	doc := fileFormat{}

	for _, m := range g.Maps() {
		sess := g.SessionFor(m)
		sd := sessionDoc{MapID: m.ID}

		for _, o := range sess.LootObjects() {
			sd.Loot = append(sd.Loot, lootDoc{ID: o.ID, TypeIdx: o.TypeIdx, Value: o.Value, Position: o.Position})
		}

		tokens := g.TokensOf(sess)
		for tok, p := range tokens {
			sd.Players = append(sd.Players, playerDoc{
				ID:    p.ID,
				Name:  p.Name,
				Token: string(tok),
				Dog:   dogToDoc(p.Dog),
			})
		}

		doc.Sessions = append(doc.Sessions, sd)
	}

	doc.DogIDCounter, doc.PlayerIDCounter, doc.LootIDCounter = g.IDCounters()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil
	}
	return nil
}

func dogToDoc(d *avatar.Dog) dogDoc {
	dd := dogDoc{
		ID:       d.ID,
		Position: d.Position,
		Velocity: d.Velocity,
		Facing:   d.Facing,
		Speed:    d.Speed,
		Score:    d.Score,
		LastSegment: segmentDoc{
			Start: d.LastSegment.Start,
			End:   d.LastSegment.End,
		},
	}
	for _, o := range d.Bag.Items() {
		dd.Bag = append(dd.Bag, lootDoc{ID: o.ID, TypeIdx: o.TypeIdx, Value: o.Value, Position: o.Position})
	}
	return dd
}

// Restore reads path and rebuilds g's sessions, players, and loot objects
// from it. A missing or unreadable file, or a stream that does not parse,
// is treated as a cold start: Restore returns nil and leaves g untouched.
// Sessions whose map id is no longer present in g are skipped.
func Restore(g *gameregistry.Game, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var doc fileFormat
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}

	for _, sd := range doc.Sessions {
		m, ok := g.FindMap(sd.MapID)
		if !ok {
			continue
		}
		sess := g.SessionFor(m)

		for _, ld := range sd.Loot {
			sess.RestoreLootObject(&loot.Object{ID: ld.ID, TypeIdx: ld.TypeIdx, Value: ld.Value, Position: ld.Position})
		}

		for _, pd := range sd.Players {
			dog := dogFromDoc(pd.Dog, m.BagCapacity)
			sess.AddDog(dog)

			player := &gameregistry.Player{ID: pd.ID, Name: pd.Name, Dog: dog, MapID: sd.MapID}
			g.RegisterRestoredPlayer(sd.MapID, player, auth.Token(pd.Token))
		}
	}

	g.EnsureIDCounters(doc.DogIDCounter, doc.PlayerIDCounter, doc.LootIDCounter)
	return nil
}

func dogFromDoc(dd dogDoc, bagCapacity int) *avatar.Dog {
	bag := avatar.NewBag(bagCapacity)
	for _, ld := range dd.Bag {
		bag.Add(loot.Object{ID: ld.ID, TypeIdx: ld.TypeIdx, Value: ld.Value, Position: ld.Position})
	}
	return &avatar.Dog{
		ID:       dd.ID,
		Position: dd.Position,
		Velocity: dd.Velocity,
		Facing:   dd.Facing,
		Speed:    dd.Speed,
		Bag:      bag,
		Score:    dd.Score,
		LastSegment: avatar.Segment{
			Start: dd.LastSegment.Start,
			End:   dd.LastSegment.End,
		},
	}
}
