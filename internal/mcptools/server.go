// Package mcptools exposes the game registry as an MCP tool surface, the
// way transport/mcp/client.go exposes the teacher's REST API to an MCP
// client — but directly against the in-process Game rather than proxying
// back over HTTP, since tool handlers and the game share a process here.
// Every tool handler reaches the game through a strand.Strand, the same
// single-writer channel internal/apiserver uses.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/dogloot/internal/auth"
	"github.com/wricardo/dogloot/internal/gameregistry"
	"github.com/wricardo/dogloot/internal/strand"
)

// Server wraps a Game (reached through its strand) with an MCP tool server
// exposing list_maps, join_game, set_direction, and get_state.
type Server struct {
	strand    *strand.Strand
	mcpServer *server.MCPServer
}

// New builds a Server with all tools registered.
func New(s *strand.Strand) *Server {
	srv := &Server{strand: s}
	srv.mcpServer = server.NewMCPServer(
		"Dog Loot Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Dog Loot Game - MCP Interface

Join a map as a dog, steer it around to gather loot, and bank it at an
office. Tools:
- list_maps: list the available maps
- join_game: join a map by id, returns an auth token and player id
- set_direction: steer your dog ("U","D","L","R", or "" to stop)
- get_state: fetch players and loose loot on your map`),
	)
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server for serving over a transport.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List the available maps",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListMaps)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "join_game",
		Description: "Join a map as a new player, returning an auth token and player id",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Id of the map to join",
				},
				"user_name": map[string]interface{}{
					"type":        "string",
					"description": "Display name for the new player",
				},
			},
			Required: []string{"map_id", "user_name"},
		},
	}, s.handleJoinGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "set_direction",
		Description: "Steer a joined dog",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"auth_token": map[string]interface{}{
					"type":        "string",
					"description": "Token returned by join_game",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"U", "D", "L", "R", ""},
					"description": "Movement token; empty string stops the dog",
				},
			},
			Required: []string{"auth_token", "direction"},
		},
	}, s.handleSetDirection)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_state",
		Description: "Fetch players and loose loot on your map",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"auth_token": map[string]interface{}{
					"type":        "string",
					"description": "Token returned by join_game",
				},
			},
			Required: []string{"auth_token"},
		},
	}, s.handleGetState)
}

func argString(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func toolResultJSON(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type mapSummary struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	var out []mapSummary
	s.strand.Do(func(g *gameregistry.Game) {
		maps := g.Maps()
		out = make([]mapSummary, 0, len(maps))
		for _, m := range maps {
			out = append(out, mapSummary{ID: m.ID, Name: m.Name})
		}
	})
	return toolResultJSON(out)
}

func (s *Server) handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	mapID := argString(args, "map_id")
	userName := argString(args, "user_name")

	var authToken string
	var playerID int
	var joinErr error
	s.strand.Do(func(g *gameregistry.Game) {
		m, ok := g.FindMap(mapID)
		if !ok {
			joinErr = fmt.Errorf("map not found: %s", mapID)
			return
		}
		player, token, err := g.Join(m, userName)
		if err != nil {
			joinErr = err
			return
		}
		authToken = string(token)
		playerID = player.ID
	})
	if joinErr != nil {
		return mcp.NewToolResultError(joinErr.Error()), nil
	}

	return toolResultJSON(map[string]any{
		"authToken": authToken,
		"playerId":  playerID,
	})
}

func (s *Server) handleSetDirection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	token := argString(args, "auth_token")
	direction := argString(args, "direction")

	var setErr error
	s.strand.Do(func(g *gameregistry.Game) {
		player, ok := g.FindPlayerByToken(auth.Token(token))
		if !ok {
			setErr = fmt.Errorf("unknown token")
			return
		}
		setErr = player.Dog.SetDirection(direction)
	})
	if setErr != nil {
		return mcp.NewToolResultError(setErr.Error()), nil
	}

	return mcp.NewToolResultText("ok"), nil
}

type playerView struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Pos   [2]float64 `json:"pos"`
	Score int        `json:"score"`
}

type lootView struct {
	ID  int        `json:"id"`
	Pos [2]float64 `json:"pos"`
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	token := argString(args, "auth_token")

	var players []playerView
	var loot []lootView
	var stateErr error

	s.strand.Do(func(g *gameregistry.Game) {
		player, ok := g.FindPlayerByToken(auth.Token(token))
		if !ok {
			stateErr = fmt.Errorf("unknown token")
			return
		}
		m, ok := g.FindMap(player.MapID)
		if !ok {
			stateErr = fmt.Errorf("map not found: %s", player.MapID)
			return
		}
		sess := g.SessionFor(m)

		players = make([]playerView, 0)
		for _, p := range g.TokensOf(sess) {
			players = append(players, playerView{
				ID:    p.ID,
				Name:  p.Name,
				Pos:   [2]float64{p.Dog.Position.X, p.Dog.Position.Y},
				Score: p.Dog.Score,
			})
		}

		loot = make([]lootView, 0)
		for _, o := range sess.LootObjects() {
			loot = append(loot, lootView{ID: o.ID, Pos: [2]float64{o.Position.X, o.Position.Y}})
		}
	})
	if stateErr != nil {
		return mcp.NewToolResultError(stateErr.Error()), nil
	}

	return toolResultJSON(map[string]any{
		"players": players,
		"loot":    loot,
	})
}
