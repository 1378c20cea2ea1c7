package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

var errEmptyPayload = errors.New("payload is required")

func (that *Server) handleMove(handle entity.Handle, msg *Message) error {
	var move entity.Move

	if len(msg.Payload) == 0 {
		that.coordinator.Malformed(handle, msg.Payload)
		return fmt.Errorf("failed to read move: %w", errEmptyPayload)
	}

	if err := json.Unmarshal(msg.Payload, &move); err != nil {
		that.coordinator.Malformed(handle, msg.Payload)
		return fmt.Errorf("failed to unmarshal move: %w", err)
	}

	if _, err := that.coordinator.Move(handle, move); err != nil {
		return fmt.Errorf("move %s refused: %w", move, err)
	}

	return nil
}

// handleBoardState - a client overwrites the board with its own FEN.
func (that *Server) handleBoardState(handle entity.Handle, msg *Message) error {
	var fen string

	if err := json.Unmarshal(msg.Payload, &fen); err != nil {
		return fmt.Errorf("failed to unmarshal board state: %w", err)
	}

	if err := that.coordinator.Resync(handle, fen); err != nil {
		return fmt.Errorf("resync refused: %w", err)
	}

	return nil
}

func (that *Server) handleReset(handle entity.Handle, _ *Message) error {
	if err := that.coordinator.Reset(handle); err != nil {
		return fmt.Errorf("reset refused: %w", err)
	}

	return nil
}
