package worldmap

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mathrand "math/rand"

	"github.com/wricardo/dogloot/internal/geom"
)

// RoadIndex is the coarse lattice-point filter described in spec.B: at most
// one horizontal and one vertical road index per lattice point, with later
// insertion winning a collision.
type RoadIndex struct {
	horizontal map[int]int // y -> road index, horizontal roads only
	vertical   map[int]int // x -> road index, vertical roads only
}

// Map is a map's static, load-time-immutable world: roads, buildings,
// offices, loot types, and movement parameters. Only BuildRoadIndex mutates
// it after construction, and only once.
type Map struct {
	ID          string
	Name        string
	DogSpeed    float64
	BagCapacity int

	roads     []Road
	buildings []Building
	offices   []Office
	officeIdx map[string]int
	lootTypes []LootType

	index *RoadIndex

	rng *mathrand.Rand
}

// DefaultBagCapacity is used when a map's configuration omits bagCapacity.
const DefaultBagCapacity = 3

// New creates an empty map ready for AddRoad/AddBuilding/AddOffice calls.
func New(id, name string, dogSpeed float64, bagCapacity int) *Map {
	if bagCapacity <= 0 {
		bagCapacity = DefaultBagCapacity
	}
	return &Map{
		ID:          id,
		Name:        name,
		DogSpeed:    dogSpeed,
		BagCapacity: bagCapacity,
		officeIdx:   make(map[string]int),
		rng:         mathrand.New(mathrand.NewSource(seedSource())),
	}
}

func seedSource() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		n, _ := rand.Int(rand.Reader, big.NewInt(1<<62))
		return n.Int64()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) & (1<<63 - 1))
}

// AddRoad appends a road. Append-only: used only at load time.
func (m *Map) AddRoad(r Road) {
	m.roads = append(m.roads, r)
}

// AddBuilding appends a building.
func (m *Map) AddBuilding(b Building) {
	m.buildings = append(m.buildings, b)
}

// AddOffice appends an office. Fails with ErrDuplicateOffice on a repeated
// id, leaving the map unchanged.
func (m *Map) AddOffice(o Office) error {
	if _, exists := m.officeIdx[o.ID]; exists {
		return ErrDuplicateOffice
	}
	m.officeIdx[o.ID] = len(m.offices)
	m.offices = append(m.offices, o)
	return nil
}

// AddLootType appends a loot type to the table.
func (m *Map) AddLootType(lt LootType) {
	m.lootTypes = append(m.lootTypes, lt)
}

// Roads returns the map's roads in insertion order.
func (m *Map) Roads() []Road { return m.roads }

// Buildings returns the map's buildings in insertion order.
func (m *Map) Buildings() []Building { return m.buildings }

// Offices returns the map's offices in insertion order.
func (m *Map) Offices() []Office { return m.offices }

// LootTypes returns the map's loot type table in insertion order.
func (m *Map) LootTypes() []LootType { return m.lootTypes }

// BuildRoadIndex memoizes the two lattice-coordinate lookup maps. Must be
// called once, after all roads have been added.
func (m *Map) BuildRoadIndex() {
	idx := &RoadIndex{
		horizontal: make(map[int]int),
		vertical:   make(map[int]int),
	}
	for i, r := range m.roads {
		switch r.Orientation {
		case Horizontal:
			idx.horizontal[r.Start.Y] = i
		case Vertical:
			idx.vertical[r.Start.X] = i
		}
	}
	m.index = idx
}

// RoadsAt returns the candidate roads covering the lattice point p, at most
// one horizontal followed by at most one vertical. Candidates are only an
// index hit — callers must still validate against the road's actual area.
func (m *Map) RoadsAt(p geom.Point) []Road {
	if m.index == nil {
		return nil
	}
	var out []Road
	if i, ok := m.index.horizontal[p.Y]; ok {
		out = append(out, m.roads[i])
	}
	if i, ok := m.index.vertical[p.X]; ok {
		out = append(out, m.roads[i])
	}
	return out
}

// StartSpawn returns the start of road index 0.
func (m *Map) StartSpawn() (geom.PointDouble, error) {
	if len(m.roads) == 0 {
		return geom.PointDouble{}, ErrNoRoads
	}
	return m.roads[0].Start.ToDouble(), nil
}

// RandomSpawn picks a uniform-random road, then a uniform-random point along
// its axis (lattice-aligned on the perpendicular axis).
func (m *Map) RandomSpawn() (geom.PointDouble, error) {
	if len(m.roads) == 0 {
		return geom.PointDouble{}, ErrNoRoads
	}
	r := m.roads[m.rng.Intn(len(m.roads))]
	switch r.Orientation {
	case Horizontal:
		x0, x1 := float64(r.Start.X), float64(r.End.X)
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		return geom.PointDouble{X: x0 + m.rng.Float64()*(x1-x0), Y: float64(r.Start.Y)}, nil
	default:
		y0, y1 := float64(r.Start.Y), float64(r.End.Y)
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		return geom.PointDouble{X: float64(r.Start.X), Y: y0 + m.rng.Float64()*(y1-y0)}, nil
	}
}

// RandomPosition picks a uniform-random road, then a uniform-random point
// anywhere in its full widened rectangle. Used for loot spawning.
func (m *Map) RandomPosition() (geom.PointDouble, error) {
	if len(m.roads) == 0 {
		return geom.PointDouble{}, ErrNoRoads
	}
	r := m.roads[m.rng.Intn(len(m.roads))]
	minX, minY, maxX, maxY := r.rect()
	return geom.PointDouble{
		X: minX + m.rng.Float64()*(maxX-minX),
		Y: minY + m.rng.Float64()*(maxY-minY),
	}, nil
}

// RandomLootType picks a uniform-random entry from the loot type table and
// returns its index and value.
func (m *Map) RandomLootType() (typeIndex int, value int, err error) {
	if len(m.lootTypes) == 0 {
		return 0, 0, ErrNoLootTypes
	}
	i := m.rng.Intn(len(m.lootTypes))
	return i, m.lootTypes[i].Value, nil
}
