package worldmap

import "errors"

// Load-time configuration errors. These are fail-fast: a map built with bad
// input never becomes usable.
var (
	ErrDuplicateOffice = errors.New("worldmap: duplicate office id")
	ErrNoRoads         = errors.New("worldmap: map has no roads")
	ErrNoLootTypes     = errors.New("worldmap: map has no loot types")
)
