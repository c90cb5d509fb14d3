// Package gameregistry implements the Game (component G): it owns the set
// of Maps, the Sessions keyed by map id, and the Player<->Token tables per
// session, and exposes join/find/tick over them.
package gameregistry

import (
	"github.com/wricardo/dogloot/internal/auth"
	"github.com/wricardo/dogloot/internal/avatar"
	"github.com/wricardo/dogloot/internal/geom"
	"github.com/wricardo/dogloot/internal/idalloc"
	"github.com/wricardo/dogloot/internal/loot"
	"github.com/wricardo/dogloot/internal/session"
	"github.com/wricardo/dogloot/internal/worldmap"
)

// Game is the root of the live server state. Per SPEC_FULL.md §5, exactly
// one goroutine (the "api strand") is assumed to call any mutating method
// at a time; Game itself holds no internal locks.
type Game struct {
	maps     []*worldmap.Map
	mapIndex map[string]int
	sessions map[string]*session.Session // by map id
	tokens   map[string]PlayerTokens     // by map id
	players  map[int]*Player

	dogIDs    idalloc.Counter
	playerIDs idalloc.Counter
	lootIDs   idalloc.Counter
	issuer    *auth.Issuer

	randomizeSpawn     bool
	lootBaseIntervalMS float64
	lootProbability    float64

	// AutoTickEnabled gates /api/v1/game/tick: when true, the tick driver
	// (external) owns ticking and manual ticks are rejected.
	AutoTickEnabled bool
}

// New creates an empty game registry. lootBaseIntervalMS/lootProbability
// configure every session's loot generator (§4.C); randomizeSpawn selects
// RandomSpawn over StartSpawn for Join.
func New(lootBaseIntervalMS, lootProbability float64, randomizeSpawn bool) *Game {
	return &Game{
		mapIndex:           make(map[string]int),
		sessions:           make(map[string]*session.Session),
		tokens:             make(map[string]PlayerTokens),
		players:            make(map[int]*Player),
		issuer:             auth.NewIssuer(),
		randomizeSpawn:     randomizeSpawn,
		lootBaseIntervalMS: lootBaseIntervalMS,
		lootProbability:    lootProbability,
	}
}

// AddMap appends and indexes m by id. Fails atomically with ErrDuplicateMap
// on a repeated id.
func (g *Game) AddMap(m *worldmap.Map) error {
	if _, exists := g.mapIndex[m.ID]; exists {
		return ErrDuplicateMap
	}
	g.mapIndex[m.ID] = len(g.maps)
	g.maps = append(g.maps, m)
	return nil
}

// Maps returns all maps in insertion order.
func (g *Game) Maps() []*worldmap.Map {
	return g.maps
}

// FindMap returns the map with the given id, or false if none exists. The
// returned pointer is the shared, immutable map instance — maps are never
// copied per-request.
func (g *Game) FindMap(id string) (*worldmap.Map, bool) {
	i, ok := g.mapIndex[id]
	if !ok {
		return nil, false
	}
	return g.maps[i], true
}

// SessionFor returns the existing session for m, creating an empty one on
// first access.
func (g *Game) SessionFor(m *worldmap.Map) *session.Session {
	if s, ok := g.sessions[m.ID]; ok {
		return s
	}
	gen := loot.New(g.lootBaseIntervalMS, g.lootProbability)
	s := session.New(m, &g.lootIDs, gen)
	g.sessions[m.ID] = s
	g.tokens[m.ID] = make(PlayerTokens)
	return s
}

// Join creates a Player with a fresh Dog on m's session, spawns it per the
// registry's spawn policy, issues a fresh Token, and records it in that
// session's PlayerTokens. Fails with ErrMapNotFound if m is nil.
func (g *Game) Join(m *worldmap.Map, playerName string) (*Player, auth.Token, error) {
	if m == nil {
		return nil, "", ErrMapNotFound
	}

	sess := g.SessionFor(m)

	spawnPos, err := g.spawnPosition(m)
	if err != nil {
		return nil, "", err
	}

	dog := avatar.New(g.dogIDs.Next(), spawnPos, m.DogSpeed, m.BagCapacity)
	sess.AddDog(dog)

	player := &Player{ID: g.playerIDs.Next(), Name: playerName, Dog: dog, MapID: m.ID}
	g.players[player.ID] = player

	token := g.issuer.Issue()
	g.tokens[m.ID][token] = player

	return player, token, nil
}

func (g *Game) spawnPosition(m *worldmap.Map) (geom.PointDouble, error) {
	if g.randomizeSpawn {
		return m.RandomSpawn()
	}
	return m.StartSpawn()
}

// FindPlayerByToken performs the linear search across per-session token
// maps called for in §4.G.
func (g *Game) FindPlayerByToken(token auth.Token) (*Player, bool) {
	for _, pt := range g.tokens {
		if p, ok := pt[token]; ok {
			return p, true
		}
	}
	return nil, false
}

// FindPlayerByID returns the player with the given id, if any.
func (g *Game) FindPlayerByID(id int) (*Player, bool) {
	p, ok := g.players[id]
	return p, ok
}

// TokensOf returns the PlayerTokens table owned by sess, or an empty table
// if sess is not one of this game's sessions.
func (g *Game) TokensOf(sess *session.Session) PlayerTokens {
	for mapID, s := range g.sessions {
		if s == sess {
			return g.tokens[mapID]
		}
	}
	return PlayerTokens{}
}

// IDCounters returns the next id each allocator would hand out, for
// persisting alongside a snapshot.
func (g *Game) IDCounters() (dog, player, loot int) {
	return g.dogIDs.Peek(), g.playerIDs.Peek(), g.lootIDs.Peek()
}

// RegisterRestoredPlayer inserts a fully-built Player (with its original id
// and dog, already attached to mapID's session by the caller) under its
// original token. Used only by snapshot restore, which reconstructs
// identity from a persisted stream rather than minting fresh ids/tokens.
func (g *Game) RegisterRestoredPlayer(mapID string, player *Player, token auth.Token) {
	g.players[player.ID] = player
	if _, ok := g.tokens[mapID]; !ok {
		g.tokens[mapID] = make(PlayerTokens)
	}
	g.tokens[mapID][token] = player
}

// EnsureIDCounters advances the dog/player/loot id allocators so that each
// is at least the given value, without moving any counter backwards. Used
// by snapshot restore to avoid colliding with ids seen in the persisted
// stream.
func (g *Game) EnsureIDCounters(dogMax, playerMax, lootMax int) {
	g.dogIDs.EnsureAtLeast(dogMax)
	g.playerIDs.EnsureAtLeast(playerMax)
	g.lootIDs.EnsureAtLeast(lootMax)
}

// Tick advances the whole game by deltaMS milliseconds: it runs loot
// generation for every session, then advances every session's dogs and
// resolves gathers.
func (g *Game) Tick(deltaMS float64) {
	for _, s := range g.sessions {
		s.GenerateLoot(deltaMS)
	}
	for _, s := range g.sessions {
		s.UpdateDogsPositions(deltaMS / 1000)
	}
}
