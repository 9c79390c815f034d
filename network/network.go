package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"blobarena/game"
	"blobarena/protocol"
	"blobarena/room"
)

const joinTimeout = 5 * time.Second

// Server binds websocket connections to rooms.
type Server struct {
	rooms          *room.Manager
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

func NewServer(rooms *room.Manager, allowedOrigins []string) *Server {
	s := &Server{rooms: rooms, allowedOrigins: allowedOrigins}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/rooms", s.handleRooms)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// checkOrigin allows non-browser clients, same-origin pages, localhost and
// anything listed in allowedOrigins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(s.allowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		log.Printf("[network] invalid origin %q", origin)
		return false
	}
	if u.Host == r.Host {
		return true
	}
	if host := u.Hostname(); host == "localhost" || host == "127.0.0.1" {
		return true
	}
	log.Printf("[network] rejected origin %q", origin)
	return false
}

// handleRooms lists rooms on GET and mints a fresh room code on POST.
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(s.rooms.ListRooms())
	case http.MethodPost:
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": s.rooms.CreateRoom()})
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	codec, err := protocol.ParseCodec(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Upgrade HTTP -> WebSocket
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[network] upgrade:", err)
		return
	}
	conn := newWSConn(ws, codec)
	go conn.writePump()
	defer conn.Close()

	// Basic timeouts + pong handling (keeps connections healthy)
	ws.SetReadLimit(maxMessage)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	rm, playerID, err := s.attach(r.Context(), conn)
	if err != nil {
		log.Printf("[network] %s: %v", r.RemoteAddr, err)
		conn.sendError(err.Error())
		return
	}
	defer func() { _ = rm.Send(room.Leave{PlayerID: playerID}) }()

	for {
		env, err := readEnvelope(conn)
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[network] read %s: %v", playerID, err)
			}
			return
		}
		cmd, err := toCommand(playerID, env)
		if err != nil {
			log.Printf("[network] %s: %v", playerID, err)
			continue
		}
		if err := rm.Send(cmd); err != nil {
			return
		}
	}
}

var (
	ErrUnknownMessage = errors.New("network: unknown message type")
	errBadHandshake   = errors.New("first message must be join or spectate")
)

// attach waits for the join or spectate envelope and places the connection in a room.
func (s *Server) attach(ctx context.Context, conn *wsConn) (*room.Room, string, error) {
	env, err := readEnvelope(conn)
	if err != nil {
		return nil, "", err
	}
	ctx, cancel := context.WithTimeout(ctx, joinTimeout)
	defer cancel()

	var (
		rm  *room.Room
		res room.JoinResult
	)
	switch env.T {
	case protocol.MsgJoin:
		j, err := protocol.DecodePayload[protocol.Join](env)
		if err != nil {
			return nil, "", err
		}
		rm, res, err = s.rooms.Join(ctx, j.Room, room.Join{Conn: conn, Codec: conn.codec, Name: j.Name})
		if err != nil {
			return nil, "", err
		}
	case protocol.MsgSpectate:
		sp, err := protocol.DecodePayload[protocol.Spectate](env)
		if err != nil {
			return nil, "", err
		}
		rm, res, err = s.rooms.Spectate(ctx, sp.Room, room.Spectate{Conn: conn, Codec: conn.codec})
		if err != nil {
			return nil, "", err
		}
	default:
		return nil, "", errBadHandshake
	}
	return rm, res.PlayerID, nil
}

func readEnvelope(conn *wsConn) (protocol.Envelope, error) {
	_, msg, err := conn.ws.ReadMessage()
	if err != nil {
		return protocol.Envelope{}, err
	}
	return conn.codec.Decode(msg)
}

// toCommand turns a client envelope into the room command it stands for.
func toCommand(playerID string, env protocol.Envelope) (any, error) {
	switch env.T {
	case protocol.MsgInput:
		in, err := protocol.DecodePayload[protocol.Input](env)
		if err != nil {
			return nil, err
		}
		return room.Input{PlayerID: playerID, TargetX: in.TargetX, TargetY: in.TargetY}, nil
	case protocol.MsgAction:
		a, err := protocol.DecodePayload[protocol.Action](env)
		if err != nil {
			return nil, err
		}
		action, err := game.ParseAction(strings.ToLower(a.Type))
		if err != nil {
			return nil, err
		}
		return room.Action{PlayerID: playerID, Action: action}, nil
	case protocol.MsgReady:
		return room.Ready{PlayerID: playerID}, nil
	case protocol.MsgChat:
		c, err := protocol.DecodePayload[protocol.Chat](env)
		if err != nil {
			return nil, err
		}
		return room.Chat{PlayerID: playerID, Message: c.Message}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMessage, env.T)
	}
}
