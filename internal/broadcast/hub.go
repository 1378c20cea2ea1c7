package broadcast

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/chess-backend/internal/entity"
	"github.com/rocketscienceinc/chess-backend/internal/metrics"
)

const (
	ActionRole        = "role"
	ActionBoardState  = "boardState"
	ActionMove        = "move"
	ActionInvalidMove = "invalidMove"
)

// Peer is the write side of one connection.
type Peer interface {
	// Enqueue must not block. It returns false when the message cannot be queued.
	Enqueue(message []byte) bool
	Close()
}

// Event is what gets sent on the wire as {"action": ..., "payload": ...}.
type Event struct {
	Action  string `json:"action"`
	Payload any    `json:"payload,omitempty"`
}

// Hub fans events out to registered peers. Peers that cannot keep up are dropped.
type Hub struct {
	logger *slog.Logger

	mu    sync.RWMutex
	peers map[entity.Handle]Peer
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With("component", "broadcast"),
		peers:  make(map[entity.Handle]Peer),
	}
}

func (that *Hub) Register(handle entity.Handle, peer Peer) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, exists := that.peers[handle]; !exists {
		metrics.Connections.Inc()
	}

	that.peers[handle] = peer
}

// Unregister - forgets handle. Returns false if it was not registered.
func (that *Hub) Unregister(handle entity.Handle) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.removeLocked(handle)
}

func (that *Hub) Has(handle entity.Handle) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	_, ok := that.peers[handle]
	return ok
}

func (that *Hub) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.peers)
}

// Send - delivers event to a single handle. Returns false if the handle is unknown or was dropped.
func (that *Hub) Send(handle entity.Handle, event Event) bool {
	message, err := encode(event)
	if err != nil {
		that.logger.Error("failed to encode event", "action", event.Action, "error", err)
		return false
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	peer, ok := that.peers[handle]
	if !ok {
		return false
	}

	if !peer.Enqueue(message) {
		that.dropLocked(handle, peer, event.Action)
		return false
	}

	return true
}

// Broadcast - delivers event to every handle and returns the handles dropped on the way.
func (that *Hub) Broadcast(event Event) []entity.Handle {
	message, err := encode(event)
	if err != nil {
		that.logger.Error("failed to encode event", "action", event.Action, "error", err)
		return nil
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	var dropped []entity.Handle

	for handle, peer := range that.peers {
		if peer.Enqueue(message) {
			continue
		}

		that.dropLocked(handle, peer, event.Action)
		dropped = append(dropped, handle)
	}

	return dropped
}

func (that *Hub) dropLocked(handle entity.Handle, peer Peer, action string) {
	that.logger.Warn("dropping slow peer", "handle", handle, "action", action)

	that.removeLocked(handle)
	peer.Close()

	metrics.DroppedPeers.Inc()
}

func (that *Hub) removeLocked(handle entity.Handle) bool {
	if _, ok := that.peers[handle]; !ok {
		return false
	}

	delete(that.peers, handle)
	metrics.Connections.Dec()

	return true
}

func encode(event Event) ([]byte, error) {
	message, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return message, nil
}
