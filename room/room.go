package room

import (
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"blobarena/game"
	"blobarena/protocol"
)

var ErrRoomClosed = errors.New("room: closed")

const maxChatRunes = 200

type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "gameover"
)

type Config struct {
	Game        game.Settings
	BroadcastHz int
	Countdown   time.Duration // zero starts the match as soon as everyone is ready
	IdleTimeout time.Duration // a room nobody has connected to closes after this
}

const defaultIdleTimeout = time.Minute

func DefaultConfig() Config {
	return Config{
		Game:        game.DefaultSettings(),
		BroadcastHz: protocol.BroadcastHz,
		IdleTimeout: defaultIdleTimeout,
	}
}

type client struct {
	conn  Conn
	codec protocol.Codec
	name  string
	ready bool
}

// Room owns one match. All state below Inbox is touched only by the Run
// goroutine; other goroutines talk to it through Send.
type Room struct {
	Inbox chan any

	Code    string            // room code (e.g. "ABC123")
	OnEmpty func(code string) // called when the last connection leaves or the room sits idle

	cfg            Config
	tickHz         int
	broadcastEvery int
	phase          Phase
	state          *game.State
	clients        map[string]*client
	spectators     map[string]*client
	latestInputs   map[string]game.Input

	ticker     *time.Ticker
	tickC      <-chan time.Time
	countdown  *time.Timer
	countdownC <-chan time.Time
	idle       *time.Timer
	idleC      <-chan time.Time

	players  atomic.Int32
	quit     chan struct{}
	stopOnce sync.Once
}

func New(cfg Config) *Room {
	if cfg.Game.TickHz <= 0 {
		cfg.Game.TickHz = protocol.SimTickHz
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	broadcastEvery := 1
	if cfg.BroadcastHz > 0 && cfg.BroadcastHz < cfg.Game.TickHz {
		broadcastEvery = cfg.Game.TickHz / cfg.BroadcastHz
	}
	return &Room{
		Inbox:          make(chan any, 256),
		cfg:            cfg,
		tickHz:         cfg.Game.TickHz,
		broadcastEvery: broadcastEvery,
		phase:          PhaseWaiting,
		state:          game.NewState(cfg.Game),
		clients:        make(map[string]*client),
		spectators:     make(map[string]*client),
		latestInputs:   make(map[string]game.Input),
		quit:           make(chan struct{}),
	}
}

// Send hands a command to the room, failing once the room has stopped.
func (r *Room) Send(cmd any) error {
	select {
	case <-r.quit:
		return ErrRoomClosed
	default:
	}
	select {
	case r.Inbox <- cmd:
		return nil
	case <-r.quit:
		return ErrRoomClosed
	}
}

func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// Done is closed once the room has stopped accepting commands.
func (r *Room) Done() <-chan struct{} { return r.quit }

// NumPlayers returns the current number of connected players.
func (r *Room) NumPlayers() int {
	return int(r.players.Load())
}

func (r *Room) Run() {
	defer r.shutdown()
	if r.empty() {
		r.armIdle()
	}
	for {
		select {
		case <-r.quit:
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case <-r.countdownC:
			r.countdown, r.countdownC = nil, nil
			r.startMatch()
		case <-r.tickC:
			r.tick()
		case <-r.idleC:
			r.idle, r.idleC = nil, nil
			if r.empty() {
				r.logf("idle for %v with no connections", r.cfg.IdleTimeout)
				r.teardown()
			}
		}
	}
}

func (r *Room) logf(format string, args ...any) {
	log.Printf("[room %s] "+format, append([]any{r.Code}, args...)...)
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		r.handleJoin(c)
	case Spectate:
		id := "spec-" + uuid.NewString()
		r.disarmIdle()
		r.spectators[id] = &client{conn: c.Conn, codec: c.Codec, name: "spectator"}
		c.Reply <- JoinResult{PlayerID: id}
		r.sendTo(r.spectators[id], protocol.MsgSpectateInit, r.buildInit(""))
	case Ready:
		r.handleReady(c.PlayerID)
	case Input:
		if _, ok := r.clients[c.PlayerID]; !ok {
			return
		}
		if !finite(c.TargetX) || !finite(c.TargetY) {
			r.logf("dropping non-finite target from %s: (%v, %v)", c.PlayerID, c.TargetX, c.TargetY)
			return
		}
		inp := r.latestInputs[c.PlayerID]
		inp.TargetX, inp.TargetY, inp.HasTarget = c.TargetX, c.TargetY, true
		r.latestInputs[c.PlayerID] = inp
	case Action:
		if _, ok := r.clients[c.PlayerID]; !ok || r.phase != PhasePlaying {
			return
		}
		inp := r.latestInputs[c.PlayerID]
		inp.Actions = append(inp.Actions, c.Action)
		r.latestInputs[c.PlayerID] = inp
	case Chat:
		r.handleChat(c)
	case Leave:
		r.handleLeave(c.PlayerID)
	default:
		r.logf("unknown command %T", cmd)
	}
}

func (r *Room) handleJoin(c Join) {
	playerID := uuid.NewString()
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = "Player " + playerID[:4]
	}
	r.disarmIdle()
	r.clients[playerID] = &client{conn: c.Conn, codec: c.Codec, name: name}
	r.players.Add(1)
	r.state.AddPlayer(playerID, name)
	c.Reply <- JoinResult{PlayerID: playerID}
	r.logf("%s joined as %q (%d players, %s)", playerID, name, len(r.clients), r.phase)

	r.sendTo(r.clients[playerID], protocol.MsgInit, r.buildInit(playerID))
	if r.countdown != nil {
		// a newcomer is not ready yet
		r.cancelCountdown()
	}
	r.broadcastLobby()
}

func (r *Room) handleReady(playerID string) {
	c, ok := r.clients[playerID]
	if !ok {
		return
	}
	if r.phase == PhaseGameOver {
		r.resetForRematch()
	}
	c.ready = true
	r.broadcastLobby()
	r.checkStart()
}

func (r *Room) handleChat(c Chat) {
	sender, ok := r.clients[c.PlayerID]
	if !ok {
		sender, ok = r.spectators[c.PlayerID]
	}
	if !ok {
		return
	}
	msg := strings.TrimSpace(c.Message)
	if msg == "" {
		return
	}
	if utf8.RuneCountInString(msg) > maxChatRunes {
		msg = string([]rune(msg)[:maxChatRunes])
	}
	r.broadcast(protocol.MsgChatMessage, protocol.ChatMessage{Sender: sender.name, Message: msg})
}

// checkStart moves waiting -> playing once at least one player is connected
// and every player is ready, optionally via a countdown.
func (r *Room) checkStart() {
	if r.phase != PhaseWaiting || r.countdown != nil || len(r.clients) == 0 {
		return
	}
	for _, c := range r.clients {
		if !c.ready {
			return
		}
	}
	if r.cfg.Countdown > 0 {
		r.countdown = time.NewTimer(r.cfg.Countdown)
		r.countdownC = r.countdown.C
		r.broadcast(protocol.MsgCountdown, protocol.Countdown{Seconds: r.cfg.Countdown.Seconds()})
		r.logf("countdown %v", r.cfg.Countdown)
		return
	}
	r.startMatch()
}

func (r *Room) startMatch() {
	if r.phase == PhasePlaying {
		return
	}
	r.phase = PhasePlaying
	r.state.StartMatch()
	clear(r.latestInputs)
	r.startTicker()
	r.broadcast(protocol.MsgGameStart, protocol.GameStart{Time: r.state.Timer})
	r.logf("match started with %d players", len(r.clients))
}

func (r *Room) tick() {
	if r.phase != PhasePlaying {
		return
	}
	game.Step(r.state, r.latestInputs)
	for id, inp := range r.latestInputs {
		inp.Actions = nil
		r.latestInputs[id] = inp
	}
	for _, e := range r.state.Events {
		if e.Kind != game.EventRespawn {
			continue
		}
		if c, ok := r.clients[e.PlayerID]; ok {
			r.sendTo(c, protocol.MsgRespawn, protocol.Respawn{X: e.X, Y: e.Y})
		}
	}
	if r.state.MatchOver() {
		r.endMatch()
		return
	}
	if r.state.Tick%r.broadcastEvery == 0 {
		r.broadcastState()
	}
}

func (r *Room) endMatch() {
	r.stopTicker()
	r.phase = PhaseGameOver
	for _, c := range r.clients {
		c.ready = false
	}
	over := r.buildGameOver()
	if over.Winner != nil {
		r.logf("match over, winner %q with %.0f", over.Winner.Name, over.Winner.Score)
	} else {
		r.logf("match over, no winner")
	}
	r.broadcast(protocol.MsgGameOver, over)
}

func (r *Room) resetForRematch() {
	r.phase = PhaseWaiting
	for _, c := range r.clients {
		c.ready = false
	}
	r.state.ResetWorld()
	clear(r.latestInputs)
	r.logf("reset for rematch")
}

// teardown stops the scheduler and rewinds the room once no player is left,
// so a later start does not resume stale entities.
func (r *Room) teardown() {
	r.stopTicker()
	r.cancelCountdown()
	r.disarmIdle()
	r.phase = PhaseWaiting
	r.state.ResetWorld()
	clear(r.latestInputs)
	r.logf("empty, scheduler stopped")
	if r.OnEmpty != nil && r.Code != "" {
		r.OnEmpty(r.Code)
	}
}

// empty reports whether no player or spectator is connected.
func (r *Room) empty() bool {
	return len(r.clients) == 0 && len(r.spectators) == 0
}

func (r *Room) armIdle() {
	r.disarmIdle()
	r.idle = time.NewTimer(r.cfg.IdleTimeout)
	r.idleC = r.idle.C
}

func (r *Room) disarmIdle() {
	if r.idle == nil {
		return
	}
	r.idle.Stop()
	r.idle, r.idleC = nil, nil
}

func (r *Room) startTicker() {
	r.stopTicker()
	r.ticker = time.NewTicker(time.Second / time.Duration(r.tickHz))
	r.tickC = r.ticker.C
}

func (r *Room) stopTicker() {
	if r.ticker == nil {
		return
	}
	r.ticker.Stop()
	r.ticker, r.tickC = nil, nil
}

func (r *Room) cancelCountdown() {
	if r.countdown == nil {
		return
	}
	r.countdown.Stop()
	r.countdown, r.countdownC = nil, nil
}

func (r *Room) handleLeave(playerID string) {
	if s, ok := r.spectators[playerID]; ok {
		_ = s.conn.Close()
		delete(r.spectators, playerID)
		if r.empty() {
			r.teardown()
		}
		return
	}
	c, ok := r.clients[playerID]
	if !ok {
		return
	}
	_ = c.conn.Close()
	delete(r.clients, playerID)
	delete(r.latestInputs, playerID)
	r.state.RemovePlayer(playerID)
	r.players.Add(-1)
	r.logf("%s left (%d players)", playerID, len(r.clients))

	if r.empty() {
		r.teardown()
		return
	}
	r.broadcastLobby()
	r.checkStart()
}

func (r *Room) shutdown() {
	r.stopTicker()
	r.cancelCountdown()
	r.disarmIdle()
	for _, c := range r.clients {
		_ = c.conn.Close()
	}
	for _, c := range r.spectators {
		_ = c.conn.Close()
	}
}

func (r *Room) broadcastLobby() {
	if r.phase == PhasePlaying {
		return
	}
	r.broadcast(protocol.MsgLobby, r.buildLobby())
}

func (r *Room) broadcastState() {
	r.broadcast(protocol.MsgState, r.buildSnapshot())
}

// broadcast encodes the payload at most once per codec and drops every
// connection whose Send fails.
func (r *Room) broadcast(t string, payload any) {
	var frames [2][]byte
	var failed []string
	send := func(id string, c *client) {
		b := frames[c.codec]
		if b == nil {
			var err error
			if b, err = c.codec.Encode(t, payload); err != nil {
				r.logf("encode %s (%s): %v", t, c.codec, err)
				return
			}
			frames[c.codec] = b
		}
		if err := c.conn.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for id, c := range r.clients {
		send(id, c)
	}
	for id, c := range r.spectators {
		send(id, c)
	}
	for _, id := range failed {
		r.logf("dropping %s: send failed", id)
		r.handleLeave(id)
	}
}

func (r *Room) sendTo(c *client, t string, payload any) {
	b, err := c.codec.Encode(t, payload)
	if err != nil {
		r.logf("encode %s: %v", t, err)
		return
	}
	_ = c.conn.Send(b)
}
