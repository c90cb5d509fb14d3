package worldmap

import "github.com/wricardo/dogloot/internal/geom"

// Building is an axis-aligned rectangle. It is advisory only — the core
// simulation never tests collisions against it.
type Building struct {
	X, Y, Width, Height int
}

// officeWidth is the effective gather width of a base, per spec.
const officeWidth = 0.5

// Office is a base: a drop-off point that empties a dog's bag and banks its
// score. Its position sits on the integer lattice; Offset is an advisory
// drawing offset only.
type Office struct {
	ID        string
	Position  geom.Point
	OffsetX   int
	OffsetY   int
}

// Width returns the office's gather width, used as its collide.Item width.
func (o Office) Width() float64 { return officeWidth }

// LootType is a row in a map's loot presentation/value table.
type LootType struct {
	Name     string
	File     string
	Type     string
	Rotation *int
	Color    string
	Scale    *float64
	Value    int
}
