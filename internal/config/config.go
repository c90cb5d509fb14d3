// Package config loads the JSON game configuration (§6 of the external
// interfaces): default dog speed/bag capacity, the loot generator's period
// and probability, and the set of maps, and builds ready-to-use
// worldmap.Map instances from it.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wricardo/dogloot/internal/geom"
	"github.com/wricardo/dogloot/internal/worldmap"
)

// defaultPeriodSeconds/defaultProbability mirror the original loader's
// fallback values when lootGeneratorConfig is absent.
const (
	defaultPeriodSeconds = 1.0
	defaultProbability   = 0.0
	defaultDogSpeed      = 1.0
)

// Config is the fully parsed, validated, ready-to-wire result of loading a
// game config file.
type Config struct {
	LootBaseIntervalMS float64
	LootProbability    float64
	Maps               []*worldmap.Map
}

type rawConfig struct {
	DefaultDogSpeed     *float64         `json:"defaultDogSpeed,omitempty"`
	DefaultBagCapacity  *int             `json:"defaultBagCapacity,omitempty"`
	LootGeneratorConfig *rawLootGenerator `json:"lootGeneratorConfig,omitempty"`
	Maps                []rawMap         `json:"maps"`
}

type rawLootGenerator struct {
	Period      float64 `json:"period"`
	Probability float64 `json:"probability"`
}

type rawMap struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	DogSpeed    *float64      `json:"dogSpeed,omitempty"`
	BagCapacity *int          `json:"bagCapacity,omitempty"`
	Roads       []rawRoad     `json:"roads"`
	Buildings   []rawBuilding `json:"buildings"`
	Offices     []rawOffice   `json:"offices"`
	LootTypes   []rawLootType `json:"lootTypes,omitempty"`
}

type rawRoad struct {
	X0 int  `json:"x0"`
	Y0 int  `json:"y0"`
	X1 *int `json:"x1,omitempty"`
	Y1 *int `json:"y1,omitempty"`
}

type rawBuilding struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type rawOffice struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

type rawLootType struct {
	Name     string   `json:"name"`
	File     string   `json:"file"`
	Type     string   `json:"type"`
	Rotation *int     `json:"rotation,omitempty"`
	Color    string   `json:"color"`
	Scale    *float64 `json:"scale,omitempty"`
	Value    int      `json:"value"`
}

// Load reads and parses the config file at path, then builds its maps.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return build(&raw)
}

func build(raw *rawConfig) (*Config, error) {
	if len(raw.Maps) == 0 {
		return nil, ErrNoMaps
	}

	period := defaultPeriodSeconds
	probability := defaultProbability
	if raw.LootGeneratorConfig != nil {
		period = raw.LootGeneratorConfig.Period
		probability = raw.LootGeneratorConfig.Probability
	}

	dogSpeed := defaultDogSpeed
	if raw.DefaultDogSpeed != nil {
		dogSpeed = *raw.DefaultDogSpeed
	}
	bagCapacity := worldmap.DefaultBagCapacity
	if raw.DefaultBagCapacity != nil {
		bagCapacity = *raw.DefaultBagCapacity
	}

	cfg := &Config{
		LootBaseIntervalMS: period * 1000,
		LootProbability:    probability,
	}

	seen := make(map[string]bool, len(raw.Maps))
	for _, rm := range raw.Maps {
		if seen[rm.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMapID, rm.ID)
		}
		seen[rm.ID] = true

		m, err := buildMap(rm, dogSpeed, bagCapacity)
		if err != nil {
			return nil, err
		}
		cfg.Maps = append(cfg.Maps, m)
	}

	return cfg, nil
}

func buildMap(rm rawMap, defaultSpeed float64, defaultBagCapacity int) (*worldmap.Map, error) {
	speed := defaultSpeed
	if rm.DogSpeed != nil {
		speed = *rm.DogSpeed
	}
	bag := defaultBagCapacity
	if rm.BagCapacity != nil {
		bag = *rm.BagCapacity
	}

	m := worldmap.New(rm.ID, rm.Name, speed, bag)

	for _, rr := range rm.Roads {
		switch {
		case rr.X1 != nil:
			m.AddRoad(worldmap.Road{
				Orientation: worldmap.Horizontal,
				Start:       geom.Point{X: rr.X0, Y: rr.Y0},
				End:         geom.Point{X: *rr.X1, Y: rr.Y0},
			})
		case rr.Y1 != nil:
			m.AddRoad(worldmap.Road{
				Orientation: worldmap.Vertical,
				Start:       geom.Point{X: rr.X0, Y: rr.Y0},
				End:         geom.Point{X: rr.X0, Y: *rr.Y1},
			})
		default:
			return nil, fmt.Errorf("map %s: %w", rm.ID, ErrInvalidRoad)
		}
	}
	if len(m.Roads()) == 0 {
		return nil, fmt.Errorf("map %s: %w", rm.ID, worldmap.ErrNoRoads)
	}

	for _, rb := range rm.Buildings {
		m.AddBuilding(worldmap.Building{X: rb.X, Y: rb.Y, Width: rb.W, Height: rb.H})
	}

	for _, ro := range rm.Offices {
		o := worldmap.Office{
			ID:       ro.ID,
			Position: geom.Point{X: ro.X, Y: ro.Y},
			OffsetX:  ro.OffsetX,
			OffsetY:  ro.OffsetY,
		}
		if err := m.AddOffice(o); err != nil {
			return nil, fmt.Errorf("map %s: %w", rm.ID, err)
		}
	}

	for _, rl := range rm.LootTypes {
		m.AddLootType(worldmap.LootType{
			Name:     rl.Name,
			File:     rl.File,
			Type:     rl.Type,
			Rotation: rl.Rotation,
			Color:    rl.Color,
			Scale:    rl.Scale,
			Value:    rl.Value,
		})
	}

	m.BuildRoadIndex()
	return m, nil
}
