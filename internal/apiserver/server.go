// Package apiserver implements the HTTP/JSON API described in SPEC_FULL.md
// §6: map listing, joining, player state, direction changes, and the
// manual tick endpoint, routed with gorilla/mux the way the teacher's
// api/server.go does.
package apiserver

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wricardo/dogloot/internal/auth"
	"github.com/wricardo/dogloot/internal/gameregistry"
	"github.com/wricardo/dogloot/internal/requestid"
	"github.com/wricardo/dogloot/internal/strand"
	"github.com/wricardo/dogloot/internal/worldmap"
)

// Server is the HTTP front end over a Game. It holds no game state of its
// own; every handler reaches the game through strand.Do so that concurrent
// requests never touch *gameregistry.Game directly.
type Server struct {
	strand *strand.Strand
	router *mux.Router
	debug  bool
}

// New builds a Server with all routes registered, funneling every handler
// through s. debug additionally exposes /api/v1/game/debug/counters.
func New(s *strand.Strand, debug bool) *Server {
	srv := &Server{
		strand: s,
		router: mux.NewRouter(),
		debug:  debug,
	}
	srv.router.Use(requestid.Middleware)
	srv.router.Use(loggingMiddleware)
	srv.setupRoutes()
	return srv
}

// loggingMiddleware logs one line per request with method, path, status,
// and the request's correlation id, the way the teacher's main.go logs
// startup/shutdown milestones with stdlib log.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Printf("%s %s %d [%s]", r.Method, r.URL.Path, sw.status, requestid.FromContext(r.Context()))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

var routeMethods = map[string][]string{
	"/api/v1/maps":               {"GET", "HEAD"},
	"/api/v1/maps/{id}":          {"GET", "HEAD"},
	"/api/v1/game/join":          {"POST"},
	"/api/v1/game/players":       {"GET", "HEAD"},
	"/api/v1/game/state":         {"GET", "HEAD"},
	"/api/v1/game/player/action": {"POST"},
	"/api/v1/game/tick":          {"POST"},
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/maps", s.handleListMaps).Methods("GET", "HEAD")
	api.HandleFunc("/maps/{id}", s.handleGetMap).Methods("GET", "HEAD")
	api.HandleFunc("/game/join", s.handleJoin).Methods("POST")
	api.HandleFunc("/game/players", s.handlePlayers).Methods("GET", "HEAD")
	api.HandleFunc("/game/state", s.handleState).Methods("GET", "HEAD")
	api.HandleFunc("/game/player/action", s.handleAction).Methods("POST")
	api.HandleFunc("/game/tick", s.handleTick).Methods("POST")

	if s.debug {
		api.HandleFunc("/game/debug/counters", s.handleDebugCounters).Methods("GET")
	}

	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// mux.CurrentRoute is nil on a method mismatch, so find the route
		// whose path matches and take its methods from routeMethods.
		s.router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
			tpl, err := route.GetPathTemplate()
			if err != nil {
				return nil
			}
			methods, ok := routeMethods[tpl]
			if !ok {
				return nil
			}
			if re, err := route.GetPathRegexp(); err == nil && regexp.MustCompile(re).MatchString(r.URL.Path) {
				w.Header().Set("Allow", strings.Join(methods, ", "))
			}
			return nil
		})
		writeError(w, apiError{http.StatusMethodNotAllowed, "methodNotAllowed"})
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("apiserver: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err apiError) {
	writeJSON(w, err.status, map[string]string{"code": err.code})
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errParseError
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errParseError
	}
	return nil
}

// authenticate reads the Authorization header and resolves it to a player,
// per the Bearer-token contract in SPEC_FULL.md §6. It must run inside a
// strand.Do closure — the returned *Player is only safe to read there.
func authenticate(g *gameregistry.Game, r *http.Request) (*gameregistry.Player, apiError) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errMissingAuth
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, errInvalidToken
	}
	tok := strings.TrimPrefix(header, prefix)
	if !auth.Valid(tok) {
		return nil, errInvalidToken
	}
	player, ok := g.FindPlayerByToken(auth.Token(tok))
	if !ok {
		return nil, errUnknownToken
	}
	return player, apiError{}
}

// Maps

type mapSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	var out []mapSummary
	s.strand.Do(func(g *gameregistry.Game) {
		maps := g.Maps()
		out = make([]mapSummary, 0, len(maps))
		for _, m := range maps {
			out = append(out, mapSummary{ID: m.ID, Name: m.Name})
		}
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var doc mapDoc
	var found bool
	s.strand.Do(func(g *gameregistry.Game) {
		m, ok := g.FindMap(id)
		if !ok {
			return
		}
		found = true
		doc = mapDocFrom(m)
	})
	if !found {
		writeError(w, errMapNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Join

type joinRequest struct {
	UserName string `json:"userName"`
	MapID    string `json:"mapId"`
}

type joinResponse struct {
	AuthToken string `json:"authToken"`
	PlayerID  int    `json:"playerId"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, errParseError)
		return
	}

	var resp joinResponse
	var apiErr apiError
	s.strand.Do(func(g *gameregistry.Game) {
		m, ok := g.FindMap(req.MapID)
		if !ok {
			apiErr = errMapNotFound
			return
		}
		player, token, err := g.Join(m, req.UserName)
		if err != nil {
			apiErr = errBadRequest
			return
		}
		resp = joinResponse{AuthToken: string(token), PlayerID: player.ID}
	})
	if apiErr != (apiError{}) {
		writeError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Players

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	var out map[int]map[string]string
	var apiErr apiError
	s.strand.Do(func(g *gameregistry.Game) {
		player, authErr := authenticate(g, r)
		if authErr != (apiError{}) {
			apiErr = authErr
			return
		}
		m, ok := g.FindMap(player.MapID)
		if !ok {
			apiErr = errMapNotFound
			return
		}
		sess := g.SessionFor(m)

		out = make(map[int]map[string]string)
		for _, p := range g.TokensOf(sess) {
			out[p.ID] = map[string]string{"name": p.Name}
		}
	})
	if apiErr != (apiError{}) {
		writeError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// State

type playerStateDoc struct {
	Position [2]float64 `json:"pos"`
	Speed    [2]float64 `json:"speed"`
	Dir      string     `json:"dir"`
	Bag      []bagItem  `json:"bag"`
	Score    int        `json:"score"`
}

type bagItem struct {
	ID      int `json:"id"`
	TypeIdx int `json:"type"`
}

type lostObjectDoc struct {
	ID      int        `json:"id"`
	TypeIdx int        `json:"type"`
	Pos     [2]float64 `json:"pos"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var players map[int]playerStateDoc
	var lost []lostObjectDoc
	var apiErr apiError

	s.strand.Do(func(g *gameregistry.Game) {
		player, authErr := authenticate(g, r)
		if authErr != (apiError{}) {
			apiErr = authErr
			return
		}
		m, ok := g.FindMap(player.MapID)
		if !ok {
			apiErr = errMapNotFound
			return
		}
		sess := g.SessionFor(m)

		players = make(map[int]playerStateDoc)
		for _, p := range g.TokensOf(sess) {
			d := p.Dog
			bag := make([]bagItem, 0, d.Bag.Len())
			for _, o := range d.Bag.Items() {
				bag = append(bag, bagItem{ID: o.ID, TypeIdx: o.TypeIdx})
			}
			players[p.ID] = playerStateDoc{
				Position: [2]float64{d.Position.X, d.Position.Y},
				Speed:    [2]float64{d.Velocity.X, d.Velocity.Y},
				Dir:      d.DirectionToken(),
				Bag:      bag,
				Score:    d.Score,
			}
		}

		lost = make([]lostObjectDoc, 0, len(sess.LootObjects()))
		for _, o := range sess.LootObjects() {
			lost = append(lost, lostObjectDoc{ID: o.ID, TypeIdx: o.TypeIdx, Pos: [2]float64{o.Position.X, o.Position.Y}})
		}
	})
	if apiErr != (apiError{}) {
		writeError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"players":     players,
		"lostObjects": lost,
	})
}

// Action

type actionRequest struct {
	Move string `json:"move"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, errParseError)
		return
	}

	var apiErr apiError
	s.strand.Do(func(g *gameregistry.Game) {
		player, authErr := authenticate(g, r)
		if authErr != (apiError{}) {
			apiErr = authErr
			return
		}
		if err := player.Dog.SetDirection(req.Move); err != nil {
			apiErr = errBadAction
			return
		}
	})
	if apiErr != (apiError{}) {
		writeError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{})
}

// Tick

type tickRequest struct {
	TimeDelta float64 `json:"timeDelta"`
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req tickRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, errParseError)
		return
	}

	var apiErr apiError
	s.strand.Do(func(g *gameregistry.Game) {
		if g.AutoTickEnabled {
			apiErr = errTickForbidden
			return
		}
		g.Tick(req.TimeDelta)
	})
	if apiErr != (apiError{}) {
		writeError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{})
}

// Debug counters

type counterDoc struct {
	Dog    int `json:"dog"`
	Player int `json:"player"`
	Loot   int `json:"loot"`
}

// handleDebugCounters reports the next id each allocator would hand out.
// Only mounted when the server is started with --debug; purely for
// operational visibility, not part of the documented API surface.
func (s *Server) handleDebugCounters(w http.ResponseWriter, r *http.Request) {
	var doc counterDoc
	s.strand.Do(func(g *gameregistry.Game) {
		doc.Dog, doc.Player, doc.Loot = g.IDCounters()
	})
	writeJSON(w, http.StatusOK, doc)
}

// mapDoc mirrors the config wire format so clients can render a map the
// same way they read it from the game config file.
type mapDoc struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Roads     []roadDoc     `json:"roads"`
	Buildings []buildingDoc `json:"buildings"`
	Offices   []officeDoc   `json:"offices"`
	LootTypes []lootTypeDoc `json:"lootTypes,omitempty"`
}

type roadDoc struct {
	X0 int  `json:"x0"`
	Y0 int  `json:"y0"`
	X1 *int `json:"x1,omitempty"`
	Y1 *int `json:"y1,omitempty"`
}

type buildingDoc struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type officeDoc struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

type lootTypeDoc struct {
	Name     string   `json:"name"`
	File     string   `json:"file"`
	Type     string   `json:"type"`
	Rotation *int     `json:"rotation,omitempty"`
	Color    string   `json:"color"`
	Scale    *float64 `json:"scale,omitempty"`
	Value    int      `json:"value"`
}

func mapDocFrom(m *worldmap.Map) mapDoc {
	doc := mapDoc{ID: m.ID, Name: m.Name}

	for _, r := range m.Roads() {
		rd := roadDoc{X0: r.Start.X, Y0: r.Start.Y}
		if r.Orientation == worldmap.Horizontal {
			x1 := r.End.X
			rd.X1 = &x1
		} else {
			y1 := r.End.Y
			rd.Y1 = &y1
		}
		doc.Roads = append(doc.Roads, rd)
	}

	for _, b := range m.Buildings() {
		doc.Buildings = append(doc.Buildings, buildingDoc{X: b.X, Y: b.Y, W: b.Width, H: b.Height})
	}

	for _, o := range m.Offices() {
		doc.Offices = append(doc.Offices, officeDoc{ID: o.ID, X: o.Position.X, Y: o.Position.Y, OffsetX: o.OffsetX, OffsetY: o.OffsetY})
	}

	for _, lt := range m.LootTypes() {
		doc.LootTypes = append(doc.LootTypes, lootTypeDoc{
			Name: lt.Name, File: lt.File, Type: lt.Type,
			Rotation: lt.Rotation, Color: lt.Color, Scale: lt.Scale, Value: lt.Value,
		})
	}

	return doc
}
