package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wricardo/dogloot/internal/gameregistry"
	"github.com/wricardo/dogloot/internal/geom"
	"github.com/wricardo/dogloot/internal/worldmap"
)

func testMap(id string) *worldmap.Map {
	m := worldmap.New(id, "Map "+id, 1.0, 3)
	m.AddRoad(worldmap.Road{Orientation: worldmap.Horizontal, Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}})
	m.AddOffice(worldmap.Office{ID: "o1", Position: geom.Point{X: 0, Y: 0}})
	m.AddLootType(worldmap.LootType{Name: "key", Value: 10})
	m.BuildRoadIndex()
	return m
}

func TestSaveThenRestoreRoundTripsIdentity(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "snapshot_test_*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)
	path := filepath.Join(tempDir, "state.json")

	g := gameregistry.New(1000, 0.5, false)
	m := testMap("m1")
	g.AddMap(m)

	player, token, err := g.Join(m, "Rex")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	player.Dog.Score = 42

	sess := g.SessionFor(m)
	sess.GenerateLoot(100000) // force at least one loot item to exist to round-trip

	if err := Save(g, path); err != nil {
		t.Fatalf("unexpected error from Save: %v", err)
	}

	g2 := gameregistry.New(1000, 0.5, false)
	g2.AddMap(testMap("m1"))

	if err := Restore(g2, path); err != nil {
		t.Fatalf("unexpected error from Restore: %v", err)
	}

	restored, ok := g2.FindPlayerByToken(token)
	if !ok {
		t.Fatal("expected restored game to resolve the original token")
	}
	if restored.ID != player.ID || restored.Name != player.Name {
		t.Errorf("restored player = %+v, want id=%d name=%s", restored, player.ID, player.Name)
	}
	if restored.Dog.Score != 42 {
		t.Errorf("restored dog score = %d, want 42", restored.Dog.Score)
	}

	sess2 := g2.SessionFor(g2.Maps()[0])
	if len(sess2.LootObjects()) == 0 {
		t.Error("expected restored session to carry over loot objects")
	}
}

func TestRestoreMissingFileIsColdStart(t *testing.T) {
	g := gameregistry.New(1000, 0.5, false)
	g.AddMap(testMap("m1"))

	if err := Restore(g, filepath.Join(t.TempDir(), "does-not-exist.json")); err != nil {
		t.Fatalf("expected silent cold start, got error: %v", err)
	}
	if len(g.Maps()[0].Offices()) != 1 {
		t.Error("expected game to be untouched by a missing-file restore")
	}
}

func TestRestoreAdvancesIDCountersPastPersistedMax(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "snapshot_test_*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)
	path := filepath.Join(tempDir, "state.json")

	g := gameregistry.New(1000, 0.5, false)
	m := testMap("m1")
	g.AddMap(m)
	g.Join(m, "Rex")
	g.Join(m, "Fido")

	if err := Save(g, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g2 := gameregistry.New(1000, 0.5, false)
	g2.AddMap(testMap("m1"))
	if err := Restore(g2, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m2, _ := g2.FindMap("m1")
	newPlayer, _, err := g2.Join(m2, "NewPlayer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newPlayer.ID < 2 {
		t.Errorf("expected new player id to continue past restored max, got %d", newPlayer.ID)
	}
}
