package worldmap

import "github.com/wricardo/dogloot/internal/geom"

// roadHalfWidth is the 0.4 game-unit extension applied on each side of a
// road's centerline segment to form the legal travel rectangle.
const roadHalfWidth = 0.4

// Orientation distinguishes horizontal and vertical roads.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Road is a closed axis-aligned segment between two lattice points, widened
// by roadHalfWidth on each side into a travel rectangle.
type Road struct {
	Orientation Orientation
	Start       geom.Point
	End         geom.Point
}

// rect returns the widened rectangle as (minX, minY, maxX, maxY).
func (r Road) rect() (minX, minY, maxX, maxY float64) {
	x0, x1 := float64(r.Start.X), float64(r.End.X)
	y0, y1 := float64(r.Start.Y), float64(r.End.Y)
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return x0 - roadHalfWidth, y0 - roadHalfWidth, x1 + roadHalfWidth, y1 + roadHalfWidth
}

// IsOnArea tests closed inclusion of p in the road's widened rectangle.
func (r Road) IsOnArea(p geom.PointDouble) bool {
	minX, minY, maxX, maxY := r.rect()
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}

// Clamp projects p into the road rectangle by clamping each coordinate
// independently.
func (r Road) Clamp(p geom.PointDouble) geom.PointDouble {
	minX, minY, maxX, maxY := r.rect()
	return geom.PointDouble{X: clampF(p.X, minX, maxX), Y: clampF(p.Y, minY, maxY)}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
