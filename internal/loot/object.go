package loot

import "github.com/wricardo/dogloot/internal/geom"

// Width is the collision width of a loot object: a point gatherer-target.
const Width = 0.0

// Object is a live loot item: a stable, per-Game monotonic id, a loot
// type index into its map's LootType table, the value it was minted with,
// and its position.
type Object struct {
	ID       int
	TypeIdx  int
	Value    int
	Position geom.PointDouble
}
