package main

import (
	"context"
	"os"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/dogloot/internal/gameregistry"
	"github.com/wricardo/dogloot/internal/geom"
	"github.com/wricardo/dogloot/internal/worldmap"
)

func TestConstants(t *testing.T) {
	if appName == "" {
		t.Error("appName should not be empty")
	}
	if version == "" {
		t.Error("version should not be empty")
	}
}

func TestNgrokShouldRunFromFlag(t *testing.T) {
	cmd := &cli.Command{
		Flags: []cli.Flag{&cli.BoolFlag{Name: "ngrok"}},
	}
	if err := cmd.Run(t.Context(), []string{"gameserver", "--ngrok"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ngrokShouldRun(cmd) {
		t.Error("expected ngrokShouldRun to be true when --ngrok is set")
	}
}

func TestNgrokShouldRunFromEnv(t *testing.T) {
	cmd := &cli.Command{Flags: []cli.Flag{&cli.BoolFlag{Name: "ngrok"}}}
	if err := cmd.Run(t.Context(), []string{"gameserver"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	os.Setenv("NGROK_ENABLED", "true")
	defer os.Unsetenv("NGROK_ENABLED")

	if !ngrokShouldRun(cmd) {
		t.Error("expected ngrokShouldRun to be true when NGROK_ENABLED=true")
	}
}

func TestNgrokShouldRunDefaultsFalse(t *testing.T) {
	cmd := &cli.Command{Flags: []cli.Flag{&cli.BoolFlag{Name: "ngrok"}}}
	if err := cmd.Run(t.Context(), []string{"gameserver"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ngrokShouldRun(cmd) {
		t.Error("expected ngrokShouldRun to default to false")
	}
}

func testGame() *gameregistry.Game {
	g := gameregistry.New(1000, 0.5, false)
	m := worldmap.New("m1", "Town", 1.0, 3)
	m.AddRoad(worldmap.Road{Orientation: worldmap.Horizontal, Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}})
	m.AddOffice(worldmap.Office{ID: "o1", Position: geom.Point{X: 0, Y: 0}})
	m.AddLootType(worldmap.LootType{Name: "key", Value: 10})
	m.BuildRoadIndex()
	g.AddMap(m)
	return g
}

func TestStateByMapIncludesJoinedPlayers(t *testing.T) {
	g := testGame()
	m, _ := g.FindMap("m1")
	if _, _, err := g.Join(m, "Rex"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	states := stateByMap(g)
	mapState, ok := states["m1"]
	if !ok {
		t.Fatal("expected a state entry for m1")
	}
	doc, ok := mapState.(map[string]any)
	if !ok {
		t.Fatalf("unexpected state shape: %T", mapState)
	}
	players, ok := doc["players"].(map[int]map[string]any)
	if !ok || len(players) != 1 {
		t.Errorf("expected 1 player in state, got %v", doc["players"])
	}
}

func TestFlagsRequireConfigFile(t *testing.T) {
	cmd := &cli.Command{
		Flags: []cli.Flag{&cli.StringFlag{Name: "config-file", Required: true}},
		Action: func(ctx context.Context, c *cli.Command) error {
			return nil
		},
	}
	if err := cmd.Run(t.Context(), []string{"gameserver"}); err == nil {
		t.Error("expected an error when --config-file is omitted")
	}
}
