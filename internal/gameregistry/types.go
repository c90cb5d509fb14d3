package gameregistry

import (
	"github.com/wricardo/dogloot/internal/auth"
	"github.com/wricardo/dogloot/internal/avatar"
)

// Player is a stable, process-wide (per-Game) identity: a display name plus
// a strong reference to its Dog and a weak reference (by map id) to the
// session it joined.
type Player struct {
	ID    int
	Name  string
	Dog   *avatar.Dog
	MapID string
}

// PlayerTokens is the injective Token -> Player mapping owned by one
// session.
type PlayerTokens map[auth.Token]*Player
