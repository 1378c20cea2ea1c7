package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/chess-backend/internal/broadcast"
	"github.com/rocketscienceinc/chess-backend/internal/config"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type coordinator interface {
	Connect(handle entity.Handle, peer broadcast.Peer) entity.Role
	Disconnect(handle entity.Handle)

	Move(handle entity.Handle, move entity.Move) (entity.Board, error)
	Malformed(handle entity.Handle, raw json.RawMessage)

	Resync(handle entity.Handle, fen string) error
	Reset(handle entity.Handle) error
}

type Server struct {
	logger      *slog.Logger
	conf        config.WebSocket
	coordinator coordinator
	upgrader    websocket.Upgrader

	handlers map[string]func(handle entity.Handle, message *Message) error
}

func New(logger *slog.Logger, conf config.WebSocket, coordinator coordinator) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		conf:        conf,
		coordinator: coordinator,

		handlers: make(map[string]func(entity.Handle, *Message) error),
	}

	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     server.checkOrigin,
	}

	server.handlers[actionMove] = server.handleMove
	server.handlers[actionBoardState] = server.handleBoardState
	server.handlers[actionReset] = server.handleReset

	return server
}

// Handler - returns the routes served by the WebSocket server.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the request and runs the connection until it drops.
func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		// the upgrader has already answered the request
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	handle := entity.NewHandle()
	client := newClient(that.logger, handle, conn, that.conf)

	go client.writePump()

	role := that.coordinator.Connect(handle, client)
	log.Info("WebSocket connection established", "handle", handle, "role", role)

	client.readPump(func(data []byte) {
		that.dispatch(handle, data)
	})

	that.coordinator.Disconnect(handle)
	client.Close()

	log.Info("WebSocket connection closed", "handle", handle)
}

// dispatch - decodes one frame and routes it to its handler. Bad frames are logged and skipped.
func (that *Server) dispatch(handle entity.Handle, data []byte) {
	log := that.logger.With("method", "dispatch", "handle", handle)

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		log.Warn("failed to unmarshal message", "error", err)
		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action", "action", message.Action)
		return
	}

	if err := handler(handle, &message); err != nil {
		log.Debug("message not applied", "action", message.Action, "error", err)
	}
}

func (that *Server) checkOrigin(req *http.Request) bool {
	if len(that.conf.AllowedOrigins) == 0 {
		return true
	}

	return slices.Contains(that.conf.AllowedOrigins, req.Header.Get("Origin"))
}
