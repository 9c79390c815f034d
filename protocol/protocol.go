package protocol

import (
	"encoding/json"
)

// client -> server
const (
	MsgJoin     = "join"
	MsgSpectate = "spectate"
	MsgReady    = "ready"
	MsgInput    = "input"
	MsgAction   = "action"
	MsgChat     = "chat"
)

// server -> client
const (
	MsgInit         = "game_init"
	MsgSpectateInit = "spectate_init"
	MsgLobby        = "lobby_update"
	MsgCountdown    = "countdown_start"
	MsgGameStart    = "game_start"
	MsgState        = "game_update"
	MsgGameOver     = "game_over"
	MsgRespawn      = "respawn"
	MsgChatMessage  = "chat_broadcast"
	MsgError        = "error"
)

const (
	SimTickHz     = 60
	ClientInputHz = 20
	BroadcastHz   = 30
)

type Envelope struct {
	T     string          `json:"t"`
	P     json.RawMessage `json:"p"` // raw payload bytes
	Codec Codec           `json:"-"`
}
