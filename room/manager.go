package room

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"slices"
	"strings"
	"sync"
)

const DefaultRoomCode = "default"

// joinAttempts bounds how often Join retries when it races a room that is
// being torn down.
const joinAttempts = 3

// RoomInfo is returned by the API for the server list.
type RoomInfo struct {
	Code    string `json:"code"`
	Players int    `json:"players"`
}

// Manager holds multiple rooms by code. Rooms are created on first join or via CreateRoom,
// and removed when the last player leaves.
type Manager struct {
	cfg   Config
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:   cfg,
		rooms: make(map[string]*Room),
	}
}

// GetOrCreateRoom returns the room for the given code, creating it if needed.
// An empty code maps to DefaultRoomCode.
func (m *Manager) GetOrCreateRoom(code string) *Room {
	code = normalizeCode(code)
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[code]; ok {
		return r
	}
	return m.startRoomLocked(code)
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CreateRoom generates a unique 6-char code, creates the room, and returns the code.
func (m *Manager) CreateRoom() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		code := generateCode(6)
		if _, exists := m.rooms[code]; exists {
			continue
		}
		m.startRoomLocked(code)
		return code
	}
}

func (m *Manager) startRoomLocked(code string) *Room {
	r := New(m.cfg)
	r.Code = code
	r.OnEmpty = func(string) {
		m.removeRoom(r)
	}
	m.rooms[code] = r
	go r.Run()
	log.Printf("[room %s] created", code)
	return r
}

func (m *Manager) removeRoom(r *Room) {
	m.forget(r)
	r.Stop()
	log.Printf("[room %s] removed", r.Code)
}

// forget unregisters r unless its code already points at a newer room.
func (m *Manager) forget(r *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.rooms[r.Code]; ok && cur == r {
		delete(m.rooms, r.Code)
	}
}

// Join places a connection in the room with the given code. If the room
// shuts down before accepting the join, a fresh room is created and the
// join is retried.
func (m *Manager) Join(ctx context.Context, code string, j Join) (*Room, JoinResult, error) {
	return m.attach(ctx, code, func(reply chan<- JoinResult) any {
		j.Reply = reply
		return j
	})
}

// Spectate attaches a read-only viewer, with the same retry rules as Join.
func (m *Manager) Spectate(ctx context.Context, code string, s Spectate) (*Room, JoinResult, error) {
	return m.attach(ctx, code, func(reply chan<- JoinResult) any {
		s.Reply = reply
		return s
	})
}

func (m *Manager) attach(ctx context.Context, code string, build func(chan<- JoinResult) any) (*Room, JoinResult, error) {
	for range joinAttempts {
		r := m.GetOrCreateRoom(code)
		reply := make(chan JoinResult, 1)
		if err := r.Send(build(reply)); err != nil {
			if errors.Is(err, ErrRoomClosed) {
				m.forget(r)
				continue
			}
			return nil, JoinResult{}, err
		}
		select {
		case res := <-reply:
			return r, res, nil
		case <-r.Done():
			m.forget(r)
			continue
		case <-ctx.Done():
			return nil, JoinResult{}, ctx.Err()
		}
	}
	return nil, JoinResult{}, ErrRoomClosed
}

// ListRooms returns all active rooms with code and player count.
func (m *Manager) ListRooms() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for code, r := range m.rooms {
		out = append(out, RoomInfo{Code: code, Players: r.NumPlayers()})
	}
	slices.SortFunc(out, func(a, b RoomInfo) int { return strings.Compare(a.Code, b.Code) })
	return out
}

// Close stops every room. Connections are closed by each room on exit.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, r := range m.rooms {
		r.Stop()
		delete(m.rooms, code)
	}
}

func normalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultRoomCode
	}
	return code
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
