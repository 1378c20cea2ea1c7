package rules

import (
	"fmt"

	"github.com/notnil/chess"

	"github.com/rocketscienceinc/chess-backend/internal/apperror"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

var promotions = map[string]chess.PieceType{
	"q": chess.Queen,
	"r": chess.Rook,
	"b": chess.Bishop,
	"n": chess.Knight,
}

// Evaluator is a stateless chess legality checker. Every call rebuilds the position from FEN.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate - plays move on the position encoded by fen and returns the resulting board.
func (that *Evaluator) Evaluate(fen string, move entity.Move) (board *entity.Board, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			board = nil
			err = fmt.Errorf("%w: evaluator panic on %s: %v", apperror.ErrIllegalMove, move, recovered)
		}
	}()

	move = move.Normalized()
	if err = validateShape(move); err != nil {
		return nil, err
	}

	game, err := load(fen)
	if err != nil {
		return nil, err
	}

	chosen := findMove(game.ValidMoves(), move)
	if chosen == nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrIllegalMove, move)
	}

	if err = game.Move(chosen); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	return describe(game), nil
}

// Describe - parses fen and reports side to move and outcome.
func (that *Evaluator) Describe(fen string) (board *entity.Board, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			board = nil
			err = fmt.Errorf("%w: %v", apperror.ErrInvalidBoardState, recovered)
		}
	}()

	game, err := load(fen)
	if err != nil {
		return nil, err
	}

	board = describe(game)
	board.FEN = fen

	return board, nil
}

func load(fen string) (*chess.Game, error) {
	option, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidBoardState, err)
	}

	return chess.NewGame(option), nil
}

func describe(game *chess.Game) *entity.Board {
	turn := entity.FirstSeat
	if game.Position().Turn() == chess.Black {
		turn = entity.SecondSeat
	}

	board := &entity.Board{
		FEN:     game.FEN(),
		Turn:    turn,
		Outcome: string(game.Outcome()),
	}

	if game.Outcome() != chess.NoOutcome {
		board.Method = game.Method().String()
	}

	return board
}

// validateShape - rejects candidates that cannot name a move on an 8x8 board.
func validateShape(move entity.Move) error {
	if !isSquare(move.From) || !isSquare(move.To) {
		return fmt.Errorf("%w: squares %q -> %q", apperror.ErrMalformedMove, move.From, move.To)
	}

	if move.Promotion == "" {
		return nil
	}

	if _, ok := promotions[move.Promotion]; !ok {
		return fmt.Errorf("%w: promotion %q", apperror.ErrMalformedMove, move.Promotion)
	}

	return nil
}

func isSquare(square string) bool {
	return len(square) == 2 &&
		square[0] >= 'a' && square[0] <= 'h' &&
		square[1] >= '1' && square[1] <= '8'
}

// findMove picks the legal move matching the candidate squares. A promotion choice only
// matters when the move actually promotes, and defaults to a queen.
func findMove(legal []*chess.Move, move entity.Move) *chess.Move {
	promo := chess.Queen
	if move.Promotion != "" {
		promo = promotions[move.Promotion]
	}

	for _, candidate := range legal {
		if candidate.S1().String() != move.From || candidate.S2().String() != move.To {
			continue
		}

		if candidate.Promo() != chess.NoPieceType && candidate.Promo() != promo {
			continue
		}

		return candidate
	}

	return nil
}
