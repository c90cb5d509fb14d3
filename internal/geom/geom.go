// Package geom implements the lattice and continuous geometry primitives the
// rest of the simulation is built on: points, vectors, and the rounding rule
// that maps a continuous position onto the lattice a road index is keyed by.
package geom

import "math"

// Point is a position on the integer lattice used to index roads.
type Point struct {
	X, Y int
}

// PointDouble is a continuous-valued position or vector.
type PointDouble struct {
	X, Y float64
}

// Add returns p+q componentwise.
func (p PointDouble) Add(q PointDouble) PointDouble {
	return PointDouble{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q componentwise.
func (p PointDouble) Sub(q PointDouble) PointDouble {
	return PointDouble{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p*k componentwise.
func (p PointDouble) Scale(k float64) PointDouble {
	return PointDouble{X: p.X * k, Y: p.Y * k}
}

// Dot returns the dot product of p and q.
func (p PointDouble) Dot(q PointDouble) float64 {
	return p.X*q.X + p.Y*q.Y
}

// SquaredLength returns |p|^2.
func (p PointDouble) SquaredLength() float64 {
	return p.Dot(p)
}

// Round rounds p to the nearest integer lattice point, ties away from zero.
func Round(p PointDouble) Point {
	return Point{X: roundAwayFromZero(p.X), Y: roundAwayFromZero(p.Y)}
}

func roundAwayFromZero(v float64) int {
	if v >= 0 {
		return int(math.Floor(v + 0.5))
	}
	return int(math.Ceil(v - 0.5))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b PointDouble) float64 {
	return math.Sqrt(a.Sub(b).SquaredLength())
}

// ToDouble widens an integer lattice point to a continuous point.
func (p Point) ToDouble() PointDouble {
	return PointDouble{X: float64(p.X), Y: float64(p.Y)}
}
