package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/chess-backend/internal/apperror"
	"github.com/rocketscienceinc/chess-backend/internal/broadcast"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
	"github.com/rocketscienceinc/chess-backend/internal/metrics"
)

type stateHolder interface {
	Current() entity.Board
	ApplyMove(move entity.Move) (entity.Board, error)
	Replace(fen string) error
}

type seatRegistry interface {
	AssignSeat(handle entity.Handle) entity.Role
	Release(handle entity.Handle)
	SeatOf(handle entity.Handle) (entity.Seat, bool)
	OccupantOf(seat entity.Seat) (entity.Handle, bool)
}

type broadcaster interface {
	Register(handle entity.Handle, peer broadcast.Peer)
	Unregister(handle entity.Handle) bool
	Has(handle entity.Handle) bool
	Len() int
	Send(handle entity.Handle, event broadcast.Event) bool
	Broadcast(event broadcast.Event) []entity.Handle
}

type journal interface {
	RecordMove(move entity.Move, board entity.Board)
	RecordResync(board entity.Board)
}

// Coordinator runs the session: it seats connections, admits moves and keeps every peer
// in sync with the holder. All of its methods are safe for concurrent use.
type Coordinator struct {
	logger *slog.Logger

	// mu orders every read and write of holder, registry and hub fan-out.
	mu       sync.Mutex
	holder   stateHolder
	registry seatRegistry
	hub      broadcaster
	journal  journal
}

func NewCoordinator(logger *slog.Logger, holder stateHolder, registry seatRegistry, hub broadcaster, journal journal) *Coordinator {
	return &Coordinator{
		logger: logger.With("component", "coordinator"),

		holder:   holder,
		registry: registry,
		hub:      hub,
		journal:  journal,
	}
}

// Connect - registers peer under handle, seats it if a seat is free and sends it the role
// and the current board. Nobody else is notified.
func (that *Coordinator) Connect(handle entity.Handle, peer broadcast.Peer) entity.Role {
	log := that.logger.With("method", "Connect", "handle", handle)

	that.mu.Lock()
	defer that.mu.Unlock()

	that.hub.Register(handle, peer)
	role := that.registry.AssignSeat(handle)

	delivered := that.send(handle, broadcast.Event{Action: broadcast.ActionRole, Payload: role}) &&
		that.send(handle, that.boardEvent())
	if !delivered {
		log.Warn("peer dropped during handshake")

		return role
	}

	log.Info("connected", "role", role)

	return role
}

// Disconnect - frees the seat held by handle and stops delivering to it. Safe to call twice.
func (that *Coordinator) Disconnect(handle entity.Handle) {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, seated := that.registry.SeatOf(handle)
	that.registry.Release(handle)

	if that.hub.Unregister(handle) || seated {
		that.logger.Info("disconnected", "method", "Disconnect", "handle", handle, "seated", seated)
	}
}

// Move - admits move from handle. Only the occupant of the seat to move may play; anything
// else is answered with invalidMove to the sender alone and leaves the board untouched.
func (that *Coordinator) Move(handle entity.Handle, move entity.Move) (entity.Board, error) {
	log := that.logger.With("method", "Move", "handle", handle, "move", move.String())

	that.mu.Lock()
	defer that.mu.Unlock()

	current := that.holder.Current()

	seat, seated := that.registry.SeatOf(handle)
	if !seated {
		that.reject(handle, move)
		log.Debug("move from a connection without a seat")

		return current, apperror.ErrNotSeated
	}

	if current.Turn != seat {
		that.reject(handle, move)
		log.Debug("move out of turn", "seat", seat, "turn", current.Turn)

		return current, apperror.ErrNotYourTurn
	}

	next, err := that.holder.ApplyMove(move)
	if err != nil {
		that.reject(handle, move)
		log.Debug("move rejected", "error", err)

		return next, fmt.Errorf("failed to apply move: %w", err)
	}

	metrics.Moves.WithLabelValues(metrics.ResultAccepted).Inc()

	that.broadcast(broadcast.Event{Action: broadcast.ActionMove, Payload: move.Normalized()})
	that.broadcast(that.boardEvent())

	that.journal.RecordMove(move.Normalized(), next)

	if next.IsFinished() {
		log.Info("game finished", "outcome", next.Outcome, "by", next.Method)
	}

	return next, nil
}

// Malformed - answers a move payload that could not be decoded at all.
func (that *Coordinator) Malformed(handle entity.Handle, raw json.RawMessage) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}

	metrics.Moves.WithLabelValues(metrics.ResultRejected).Inc()
	that.send(handle, broadcast.Event{Action: broadcast.ActionInvalidMove, Payload: raw})
}

// Resync - installs fen as the authoritative board and broadcasts it. Any connected handle may
// do this, spectators included. A fen that does not parse is refused and the sender gets the
// current board back.
func (that *Coordinator) Resync(handle entity.Handle, fen string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.resyncLocked(handle, fen)
}

// Reset - puts the pieces back on the starting squares.
func (that *Coordinator) Reset(handle entity.Handle) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.resyncLocked(handle, entity.StartingFEN)
}

func (that *Coordinator) Snapshot() entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.holder.Current()
}

func (that *Coordinator) Roster() entity.Roster {
	that.mu.Lock()
	defer that.mu.Unlock()

	roster := entity.Roster{
		Seats: make(map[entity.Seat]bool, len(entity.Seats)),
	}

	seated := 0
	for _, seat := range entity.Seats {
		_, taken := that.registry.OccupantOf(seat)
		roster.Seats[seat] = taken

		if taken {
			seated++
		}
	}

	roster.Spectators = max(that.hub.Len()-seated, 0)

	return roster
}

func (that *Coordinator) resyncLocked(handle entity.Handle, fen string) error {
	log := that.logger.With("method", "Resync", "handle", handle)

	if !that.hub.Has(handle) {
		return fmt.Errorf("%w: %s", apperror.ErrUnknownHandle, handle)
	}

	if err := that.holder.Replace(fen); err != nil {
		metrics.Resyncs.WithLabelValues(metrics.ResultRejected).Inc()
		that.send(handle, that.boardEvent())
		log.Debug("resync rejected", "fen", fen, "error", err)

		return fmt.Errorf("failed to resync: %w", err)
	}

	metrics.Resyncs.WithLabelValues(metrics.ResultAccepted).Inc()

	that.broadcast(that.boardEvent())
	that.journal.RecordResync(that.holder.Current())

	log.Info("board replaced", "fen", fen)

	return nil
}

func (that *Coordinator) reject(handle entity.Handle, move entity.Move) {
	metrics.Moves.WithLabelValues(metrics.ResultRejected).Inc()
	that.send(handle, broadcast.Event{Action: broadcast.ActionInvalidMove, Payload: move})
}

// send - delivers event to handle alone. A peer dropped on the way loses its seat.
func (that *Coordinator) send(handle entity.Handle, event broadcast.Event) bool {
	if that.hub.Send(handle, event) {
		return true
	}

	that.registry.Release(handle)

	return false
}

// broadcast - fans event out and frees the seats of peers the hub had to drop.
func (that *Coordinator) broadcast(event broadcast.Event) {
	for _, handle := range that.hub.Broadcast(event) {
		that.registry.Release(handle)
	}
}

func (that *Coordinator) boardEvent() broadcast.Event {
	return broadcast.Event{Action: broadcast.ActionBoardState, Payload: that.holder.Current().FEN}
}
