package geom

import "testing"

func TestRoundTiesAwayFromZero(t *testing.T) {
	tests := []struct {
		name string
		in   PointDouble
		want Point
	}{
		{"positive tie", PointDouble{X: 0.5, Y: 2.5}, Point{X: 1, Y: 3}},
		{"negative tie", PointDouble{X: -0.5, Y: -2.5}, Point{X: -1, Y: -3}},
		{"plain", PointDouble{X: 1.2, Y: 1.8}, Point{X: 1, Y: 2}},
		{"zero", PointDouble{X: 0, Y: 0}, Point{X: 0, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round(tt.in); got != tt.want {
				t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	a := PointDouble{X: 0, Y: 0}
	b := PointDouble{X: 3, Y: 4}
	if d := Distance(a, b); d != 5 {
		t.Errorf("Distance() = %v, want 5", d)
	}
}

func TestVectorOps(t *testing.T) {
	a := PointDouble{X: 1, Y: 2}
	b := PointDouble{X: 3, Y: 4}

	if got := a.Add(b); got != (PointDouble{X: 4, Y: 6}) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != (PointDouble{X: 2, Y: 2}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != (PointDouble{X: 2, Y: 4}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != 11 {
		t.Errorf("Dot = %v, want 11", got)
	}
}
