package collide

import (
	"testing"

	"github.com/wricardo/dogloot/internal/geom"
)

func TestDetectBasicPickup(t *testing.T) {
	items := []Item{{Position: geom.PointDouble{X: 2, Y: 0}, Width: 0}}
	gatherers := []Gatherer{{Start: geom.PointDouble{X: 1, Y: 0}, End: geom.PointDouble{X: 3, Y: 0}, Width: 0.3}}

	events := Detect(items, gatherers)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ItemIndex != 0 || events[0].GathererIndex != 0 {
		t.Errorf("unexpected event indices: %+v", events[0])
	}
	if events[0].Parameter != 0.5 {
		t.Errorf("expected parameter 0.5 (midpoint), got %v", events[0].Parameter)
	}
}

func TestDetectNoEventOutsideRadius(t *testing.T) {
	items := []Item{{Position: geom.PointDouble{X: 100, Y: 100}, Width: 0}}
	gatherers := []Gatherer{{Start: geom.PointDouble{X: 0, Y: 0}, End: geom.PointDouble{X: 1, Y: 0}, Width: 0.3}}

	if events := Detect(items, gatherers); len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestDetectZeroLengthSegmentContributesNothing(t *testing.T) {
	items := []Item{{Position: geom.PointDouble{X: 0, Y: 0}, Width: 10}}
	gatherers := []Gatherer{{Start: geom.PointDouble{X: 0, Y: 0}, End: geom.PointDouble{X: 0, Y: 0}, Width: 10}}

	if events := Detect(items, gatherers); len(events) != 0 {
		t.Errorf("expected stationary gatherer to contribute no events, got %d", len(events))
	}
}

func TestDetectOrderingByParameter(t *testing.T) {
	items := []Item{
		{Position: geom.PointDouble{X: 8, Y: 0}, Width: 0.1}, // far along segment
		{Position: geom.PointDouble{X: 2, Y: 0}, Width: 0.1}, // near start
		{Position: geom.PointDouble{X: 5, Y: 0}, Width: 0.1}, // middle
	}
	gatherers := []Gatherer{{Start: geom.PointDouble{X: 0, Y: 0}, End: geom.PointDouble{X: 10, Y: 0}, Width: 0.2}}

	events := Detect(items, gatherers)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	wantOrder := []int{1, 2, 0} // item 1 (x=2) first, then 2 (x=5), then 0 (x=8)
	for i, want := range wantOrder {
		if events[i].ItemIndex != want {
			t.Errorf("event %d: ItemIndex = %d, want %d", i, events[i].ItemIndex, want)
		}
	}
}

func TestDetectTieBreakByGathererThenItem(t *testing.T) {
	items := []Item{
		{Position: geom.PointDouble{X: 1, Y: 0.05}, Width: 0.2},
		{Position: geom.PointDouble{X: 1, Y: -0.05}, Width: 0.2},
	}
	gatherers := []Gatherer{
		{Start: geom.PointDouble{X: 0, Y: 0}, End: geom.PointDouble{X: 2, Y: 0}, Width: 0.3},
		{Start: geom.PointDouble{X: 0, Y: 0}, End: geom.PointDouble{X: 2, Y: 0}, Width: 0.3},
	}

	events := Detect(items, gatherers)
	if len(events) != 4 {
		t.Fatalf("expected 4 events (2 gatherers x 2 items, identical parameter), got %d", len(events))
	}
	for i := 0; i < len(events)-1; i++ {
		a, b := events[i], events[i+1]
		if a.GathererIndex > b.GathererIndex {
			t.Errorf("events not ordered by gatherer index at %d: %+v then %+v", i, a, b)
		}
		if a.GathererIndex == b.GathererIndex && a.ItemIndex > b.ItemIndex {
			t.Errorf("events not ordered by item index within gatherer at %d: %+v then %+v", i, a, b)
		}
	}
}
