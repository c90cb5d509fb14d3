package config

import "errors"

var (
	// ErrDuplicateMapID is returned when two maps in the same config share an id.
	ErrDuplicateMapID = errors.New("config: duplicate map id")
	// ErrNoMaps is returned when a config's maps array is empty.
	ErrNoMaps = errors.New("config: no maps")
	// ErrInvalidRoad is returned when a road object has neither x1 nor y1.
	ErrInvalidRoad = errors.New("config: road missing x1 or y1")
)
