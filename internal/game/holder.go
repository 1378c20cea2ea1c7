package game

import (
	"fmt"

	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

type evaluator interface {
	Evaluate(fen string, move entity.Move) (*entity.Board, error)
	Describe(fen string) (*entity.Board, error)
}

// Holder owns the single authoritative board. It is not safe for concurrent use:
// callers serialise access.
type Holder struct {
	board     entity.Board
	evaluator evaluator
}

func NewHolder(evaluator evaluator) *Holder {
	return &Holder{
		board:     entity.NewBoard(),
		evaluator: evaluator,
	}
}

func (that *Holder) Current() entity.Board {
	return that.board
}

// ApplyMove - commits move if the evaluator accepts it. A rejected move leaves the board untouched.
func (that *Holder) ApplyMove(move entity.Move) (entity.Board, error) {
	next, err := that.evaluator.Evaluate(that.board.FEN, move)
	if err != nil {
		return that.board, fmt.Errorf("failed to apply move %s: %w", move, err)
	}

	that.board = *next

	return that.board, nil
}

// Replace - installs fen verbatim without checking how the position was reached.
func (that *Holder) Replace(fen string) error {
	next, err := that.evaluator.Describe(fen)
	if err != nil {
		return fmt.Errorf("failed to replace board: %w", err)
	}

	that.board = *next

	return nil
}

func (that *Holder) Reset() {
	that.board = entity.NewBoard()
}
