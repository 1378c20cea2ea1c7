package websocket

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/chess-backend/internal/config"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

// Client is one upgraded connection. Writes go through a buffered queue drained by writePump,
// so Enqueue never touches the socket.
type Client struct {
	logger *slog.Logger
	handle entity.Handle
	conn   *websocket.Conn
	conf   config.WebSocket

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(logger *slog.Logger, handle entity.Handle, conn *websocket.Conn, conf config.WebSocket) *Client {
	return &Client{
		logger: logger.With("handle", handle),
		handle: handle,
		conn:   conn,
		conf:   conf,

		send: make(chan []byte, conf.SendBuffer),
		done: make(chan struct{}),
	}
}

// Enqueue - queues message for writing. Returns false when the client is closed or its
// queue is full.
func (that *Client) Enqueue(message []byte) bool {
	select {
	case <-that.done:
		return false
	default:
	}

	select {
	case that.send <- message:
		return true
	default:
		return false
	}
}

// Close - stops the write pump, which closes the socket. Safe to call more than once.
func (that *Client) Close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}

// readPump - feeds every inbound frame to handle until the connection dies.
func (that *Client) readPump(handle func(data []byte)) {
	log := that.logger.With("method", "readPump")

	that.conn.SetReadLimit(that.conf.ReadLimit)
	_ = that.conn.SetReadDeadline(time.Now().Add(that.conf.PongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(that.conf.PongWait))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
				!errors.Is(err, websocket.ErrReadLimit) {
				log.Warn("connection lost", "error", err)
			} else {
				log.Debug("connection closed", "error", err)
			}

			return
		}

		handle(data)
	}
}

func (that *Client) writePump() {
	log := that.logger.With("method", "writePump")

	ticker := time.NewTicker(that.conf.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(that.conf.WriteWait))
			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug("failed to write message", "error", err)
				that.Close()

				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(that.conf.WriteWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("failed to write ping", "error", err)
				that.Close()

				return
			}

		case <-that.done:
			_ = that.conn.SetWriteDeadline(time.Now().Add(that.conf.WriteWait))
			_ = that.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

			return
		}
	}
}
