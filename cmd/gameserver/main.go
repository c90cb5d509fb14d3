// Command gameserver starts the dog-loot game server: it loads a map
// configuration, restores any persisted state, and serves the HTTP/JSON
// API, an optional static web root, and an MCP tool endpoint over the same
// in-process Game.
//
// Two ticking modes are supported, matching the teacher's manual-vs-auto
// split on its game loop: with --tick-period set the server ticks itself on
// an interval and /api/v1/game/tick is rejected; without it, callers must
// drive the simulation with manual tick requests.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/dogloot/internal/apiserver"
	"github.com/wricardo/dogloot/internal/config"
	"github.com/wricardo/dogloot/internal/gameregistry"
	"github.com/wricardo/dogloot/internal/mcptools"
	"github.com/wricardo/dogloot/internal/snapshot"
	"github.com/wricardo/dogloot/internal/strand"
	"github.com/wricardo/dogloot/internal/wsbroadcast"
)

const (
	appName = "Dog Loot Game Server"
	version = "1.0.0"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cmd := &cli.Command{
		Name:    "gameserver",
		Usage:   appName,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-file", Usage: "path to the game config JSON", Required: true},
			&cli.StringFlag{Name: "www-root", Usage: "directory of static web client files to serve at /"},
			&cli.IntFlag{Name: "tick-period", Usage: "autotick period in milliseconds; 0 disables autotick and enables manual /api/v1/game/tick"},
			&cli.BoolFlag{Name: "randomize-spawn-points", Usage: "spawn joining players at a random point instead of the map's start point"},
			&cli.StringFlag{Name: "state-file", Usage: "path to load/save the persisted snapshot"},
			&cli.IntFlag{Name: "save-state-period", Usage: "periodic snapshot-save interval in milliseconds; 0 disables periodic saves"},
			&cli.StringFlag{Name: "addr", Value: "localhost:8080", Usage: "address to listen on"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging and the /api/v1/game/debug/counters endpoint"},
			&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel"},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token (or NGROK_AUTHTOKEN/NGROK_AUTH_TOKEN env vars)"},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	cfg, err := config.Load(cmd.String("config-file"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	randomizeSpawn := cmd.Bool("randomize-spawn-points")
	game := gameregistry.New(cfg.LootBaseIntervalMS, cfg.LootProbability, randomizeSpawn)
	for _, m := range cfg.Maps {
		if err := game.AddMap(m); err != nil {
			return fmt.Errorf("adding map %s: %w", m.ID, err)
		}
	}

	stateFile := cmd.String("state-file")
	if stateFile != "" {
		if err := snapshot.Restore(game, stateFile); err != nil {
			log.Printf("Warning: failed to restore state from %s: %v", stateFile, err)
		}
	}

	tickPeriodMS := int(cmd.Int("tick-period"))
	if tickPeriodMS > 0 {
		game.AutoTickEnabled = true
	}

	s := strand.New(game)
	defer s.Close()

	hub := wsbroadcast.NewHub()
	go hub.Run()

	apiSrv := apiserver.New(s, cmd.Bool("debug"))
	mcpSrv := mcptools.New(s)

	mainRouter := mux.NewRouter()
	mainRouter.PathPrefix("/api/").Handler(apiSrv)

	mainRouter.HandleFunc("/ws/{mapId}", func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, mux.Vars(r)["mapId"])
	})

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpSrv.MCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		data, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(data)
	}).Methods("POST")

	if wwwRoot := cmd.String("www-root"); wwwRoot != "" {
		mainRouter.PathPrefix("/").Handler(http.FileServer(http.Dir(wwwRoot)))
	}

	addr := cmd.String("addr")
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	if tickPeriodMS > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runTickLoop(shutdownCtx, s, hub, game, time.Duration(tickPeriodMS)*time.Millisecond)
		}()
	}

	saveStatePeriodMS := int(cmd.Int("save-state-period"))
	if stateFile != "" && saveStatePeriodMS > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runSaveLoop(shutdownCtx, s, game, stateFile, time.Duration(saveStatePeriodMS)*time.Millisecond)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("%s v%s listening on %s", appName, version, addr)
		log.Printf("HTTP API: http://%s/api/v1", addr)
		log.Printf("WebSocket: ws://%s/ws/<mapId>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if ngrokShouldRun(cmd) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(shutdownCtx, cmd, mainRouter)
		}()
	}

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownTimeoutCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownTimeoutCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if stateFile != "" {
		s.Do(func(g *gameregistry.Game) {
			if err := snapshot.Save(g, stateFile); err != nil {
				log.Printf("Warning: failed to save final state: %v", err)
			}
		})
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// runTickLoop advances the game once per period, then broadcasts the
// resulting state for every map over the websocket hub. It broadcasts
// unconditionally rather than tracking whether a tick actually produced a
// gather or movement change, since the core exposes no such signal.
func runTickLoop(ctx context.Context, s *strand.Strand, hub *wsbroadcast.Hub, game *gameregistry.Game, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	deltaMS := float64(period / time.Millisecond)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var states map[string]any
			s.Do(func(g *gameregistry.Game) {
				g.Tick(deltaMS)
				states = stateByMap(g)
			})
			for mapID, state := range states {
				hub.BroadcastState(mapID, state)
			}
		}
	}
}

func stateByMap(g *gameregistry.Game) map[string]any {
	out := make(map[string]any, len(g.Maps()))
	for _, m := range g.Maps() {
		sess := g.SessionFor(m)
		players := make(map[int]map[string]any)
		for _, p := range g.TokensOf(sess) {
			players[p.ID] = map[string]any{
				"pos":   [2]float64{p.Dog.Position.X, p.Dog.Position.Y},
				"score": p.Dog.Score,
			}
		}
		loot := make([]map[string]any, 0, len(sess.LootObjects()))
		for _, o := range sess.LootObjects() {
			loot = append(loot, map[string]any{
				"id":  o.ID,
				"pos": [2]float64{o.Position.X, o.Position.Y},
			})
		}
		out[m.ID] = map[string]any{"players": players, "loot": loot}
	}
	return out
}

// runSaveLoop periodically writes the game's state to path. Save failures
// are logged and not fatal; the next periodic save will retry.
func runSaveLoop(ctx context.Context, s *strand.Strand, game *gameregistry.Game, path string, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Do(func(g *gameregistry.Game) {
				if err := snapshot.Save(g, path); err != nil {
					log.Printf("Warning: periodic state save failed: %v", err)
				}
			})
		}
	}
}

func ngrokShouldRun(cmd *cli.Command) bool {
	if cmd.Bool("ngrok") {
		return true
	}
	enabled := os.Getenv("NGROK_ENABLED")
	return enabled == "true" || enabled == "1"
}

// runNgrokTunnel provisions a public ngrok tunnel and serves mainRouter
// through it until ctx is cancelled.
func runNgrokTunnel(ctx context.Context, cmd *cli.Command, mainRouter http.Handler) {
	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if authToken == "" {
		log.Println("WARNING: ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	domain := cmd.String("ngrok-domain")
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	log.Printf("Ngrok tunnel established: %s", tun.URL())

	if err := http.Serve(tun, mainRouter); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}
