// Package avatar implements the Dog (component E): a mutable per-player
// entity with position, velocity, facing, bag, and score.
package avatar

import "github.com/wricardo/dogloot/internal/geom"

// Segment is the avatar's last-tick line segment, recorded exclusively for
// the gather detector.
type Segment struct {
	Start geom.PointDouble
	End   geom.PointDouble
}

// Dog is a player's in-world avatar.
type Dog struct {
	ID       int
	Position geom.PointDouble
	Velocity geom.PointDouble
	Facing   Direction
	Speed    float64
	Bag      Bag
	Score    int

	LastSegment Segment
}

// New creates a dog at pos with the given speed and bag capacity, facing
// North and stopped.
func New(id int, pos geom.PointDouble, speed float64, bagCapacity int) *Dog {
	return &Dog{
		ID:       id,
		Position: pos,
		Facing:   North,
		Speed:    speed,
		Bag:      NewBag(bagCapacity),
	}
}

// SetDirection applies a direction token to the dog's velocity. The mapping
// is: "U"->North (vy=-speed), "D"->South (vy=+speed), "L"->East (vx=-speed),
// "R"->West (vx=+speed), ""->stop (v=0, facing unchanged). Any other token
// is ErrBadAction.
func (d *Dog) SetDirection(token string) error {
	switch token {
	case "U":
		d.Facing = North
		d.Velocity = geom.PointDouble{X: 0, Y: -d.Speed}
	case "D":
		d.Facing = South
		d.Velocity = geom.PointDouble{X: 0, Y: d.Speed}
	case "L":
		d.Facing = East
		d.Velocity = geom.PointDouble{X: -d.Speed, Y: 0}
	case "R":
		d.Facing = West
		d.Velocity = geom.PointDouble{X: d.Speed, Y: 0}
	case "":
		d.Velocity = geom.PointDouble{}
	default:
		return ErrBadAction
	}
	return nil
}

// Stop zeroes velocity while preserving facing, used by the movement
// resolver when a dog runs off the end of its road.
func (d *Dog) Stop() {
	d.Velocity = geom.PointDouble{}
}

// DirectionToken renders the dog's facing as the action token a client
// would send to reproduce it, the inverse of SetDirection's mapping (so a
// dog facing West reports "R"). It reflects facing regardless of whether
// the dog is currently moving: a stopped dog still reports the direction
// it last faced.
func (d *Dog) DirectionToken() string {
	switch d.Facing {
	case North:
		return "U"
	case South:
		return "D"
	case East:
		return "L"
	case West:
		return "R"
	default:
		return ""
	}
}
