package network

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"blobarena/protocol"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second // must stay below pongWait
	maxMessage   = 1 << 20          // 1MB
	sendBuffer   = 256
)

var (
	ErrSendBufferFull = errors.New("network: send buffer full")
	ErrConnClosed     = errors.New("network: connection closed")
)

// wsConn adapts a websocket to room.Conn. Send never blocks the room: frames
// go through a buffered channel drained by writePump.
type wsConn struct {
	ws    *websocket.Conn
	codec protocol.Codec
	send  chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newWSConn(ws *websocket.Conn, codec protocol.Codec) *wsConn {
	return &wsConn{
		ws:    ws,
		codec: codec,
		send:  make(chan []byte, sendBuffer),
		done:  make(chan struct{}),
	}
}

func (c *wsConn) Send(b []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	select {
	case c.send <- b:
		return nil
	case <-c.done:
		return ErrConnClosed
	default:
		return ErrSendBufferFull
	}
}

// Close stops the write pump, which flushes queued frames and closes the socket.
func (c *wsConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *wsConn) frameType() int {
	if c.codec == protocol.CodecMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case b := <-c.send:
			if err := c.write(c.frameType(), b); err != nil {
				log.Printf("[network] write: %v", err)
				_ = c.Close()
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}
		case <-c.done:
			c.flush()
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes whatever was queued before Close, e.g. a final game_over.
func (c *wsConn) flush() {
	for {
		select {
		case b := <-c.send:
			if err := c.write(c.frameType(), b); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *wsConn) write(msgType int, b []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(msgType, b)
}

// sendError writes an error envelope in the connection's codec.
func (c *wsConn) sendError(msg string) {
	b, err := c.codec.Encode(protocol.MsgError, protocol.Error{Message: msg})
	if err != nil {
		return
	}
	_ = c.Send(b)
}
