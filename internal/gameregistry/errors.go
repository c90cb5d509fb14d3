package gameregistry

import "errors"

var (
	// ErrDuplicateMap is returned by AddMap for a repeated map id.
	ErrDuplicateMap = errors.New("gameregistry: duplicate map id")
	// ErrMapNotFound is returned by Join when given a nil map.
	ErrMapNotFound = errors.New("gameregistry: map not found")
)
