package avatar

import (
	"errors"
	"testing"

	"github.com/wricardo/dogloot/internal/geom"
)

func TestSetDirectionMapping(t *testing.T) {
	tests := []struct {
		token    string
		wantVel  geom.PointDouble
		wantFace Direction
	}{
		{"U", geom.PointDouble{X: 0, Y: -2}, North},
		{"D", geom.PointDouble{X: 0, Y: 2}, South},
		{"L", geom.PointDouble{X: -2, Y: 0}, East},
		{"R", geom.PointDouble{X: 2, Y: 0}, West},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			d := New(1, geom.PointDouble{}, 2, 3)
			if err := d.SetDirection(tt.token); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Velocity != tt.wantVel {
				t.Errorf("Velocity = %v, want %v", d.Velocity, tt.wantVel)
			}
			if d.Facing != tt.wantFace {
				t.Errorf("Facing = %v, want %v", d.Facing, tt.wantFace)
			}
		})
	}
}

func TestSetDirectionStopPreservesFacing(t *testing.T) {
	d := New(1, geom.PointDouble{}, 2, 3)
	if err := d.SetDirection("D"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.SetDirection(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Velocity != (geom.PointDouble{}) {
		t.Errorf("expected zero velocity after stop, got %v", d.Velocity)
	}
	if d.Facing != South {
		t.Errorf("expected facing preserved as South, got %v", d.Facing)
	}
}

func TestDirectionTokenReflectsFacingWhileStopped(t *testing.T) {
	d := New(1, geom.PointDouble{}, 2, 3)
	if err := d.SetDirection("R"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.Stop()
	if got := d.DirectionToken(); got != "R" {
		t.Errorf("DirectionToken() after Stop() = %q, want %q", got, "R")
	}
}

func TestSetDirectionBadToken(t *testing.T) {
	d := New(1, geom.PointDouble{}, 2, 3)
	if err := d.SetDirection("X"); !errors.Is(err, ErrBadAction) {
		t.Errorf("expected ErrBadAction, got %v", err)
	}
}

func TestBagFullness(t *testing.T) {
	b := NewBag(2)
	if b.IsFull() {
		t.Fatal("empty bag should not be full")
	}
	b.Add(placeholderLoot(1))
	if b.IsFull() {
		t.Fatal("bag with 1/2 items should not be full")
	}
	b.Add(placeholderLoot(2))
	if !b.IsFull() {
		t.Fatal("bag with 2/2 items should be full")
	}
}
