package room

import (
	"blobarena/game"
	"blobarena/protocol"
)

type Conn interface {
	Send([]byte) error
	Close() error
}

// Join: issued once after the join envelope is parsed
type Join struct {
	Conn  Conn
	Codec protocol.Codec
	Name  string
	Reply chan<- JoinResult
}

type JoinResult struct {
	PlayerID string
}

// Spectate attaches a read-only viewer to the room.
type Spectate struct {
	Conn  Conn
	Codec protocol.Codec
	Reply chan<- JoinResult
}

type Ready struct {
	PlayerID string
}

// Input: latest pointer target for a player
type Input struct {
	PlayerID         string
	TargetX, TargetY float64
}

// Action: queued split/eject, applied at the start of the next tick
type Action struct {
	PlayerID string
	Action   game.Action
}

type Chat struct {
	PlayerID string
	Message  string
}

// Leave: issued on disconnect, for players and spectators alike
type Leave struct {
	PlayerID string
}
