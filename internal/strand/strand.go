// Package strand realizes the "api strand" from SPEC_FULL.md §5: a single
// goroutine owns the *gameregistry.Game and every mutating or reading
// operation runs on it, serialized through a command channel. This plays
// the role the teacher's game/session/manager.go fills with a
// sync.RWMutex around its Manager — here the core (internal/gameregistry)
// carries no lock of its own, and callers on other goroutines (HTTP
// handlers, MCP tool handlers, the autotick and autosave loops) reach the
// game only through Strand.Do.
package strand

import "github.com/wricardo/dogloot/internal/gameregistry"

// Strand serializes access to a single *gameregistry.Game.
type Strand struct {
	game *gameregistry.Game
	cmds chan func(*gameregistry.Game)
	done chan struct{}
}

// New starts a strand owning game. Callers must eventually call Close.
func New(game *gameregistry.Game) *Strand {
	s := &Strand{
		game: game,
		cmds: make(chan func(*gameregistry.Game), 64),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Strand) run() {
	for cmd := range s.cmds {
		cmd(s.game)
	}
	close(s.done)
}

// Do runs fn against the owned game on the strand goroutine and blocks
// until fn returns.
func (s *Strand) Do(fn func(g *gameregistry.Game)) {
	wait := make(chan struct{})
	s.cmds <- func(g *gameregistry.Game) {
		fn(g)
		close(wait)
	}
	<-wait
}

// Close stops the strand's goroutine once all pending commands have run.
// The Strand must not be used after Close.
func (s *Strand) Close() {
	close(s.cmds)
	<-s.done
}
