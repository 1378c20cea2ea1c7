package entity

import "time"

const (
	StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	OutcomeNone = "*"
)

const (
	HistoryKindMove   = "move"
	HistoryKindResync = "resync"
)

// Board is a snapshot of the authoritative position.
type Board struct {
	FEN     string `json:"fen"`
	Turn    Seat   `json:"turn"`
	Outcome string `json:"outcome"`
	Method  string `json:"method,omitempty"`
}

func NewBoard() Board {
	return Board{
		FEN:     StartingFEN,
		Turn:    FirstSeat,
		Outcome: OutcomeNone,
	}
}

func (that *Board) IsFinished() bool {
	return that.Outcome != "" && that.Outcome != OutcomeNone
}

// HistoryEntry is one record of the move journal.
type HistoryEntry struct {
	Seq  int64     `json:"seq"`
	Kind string    `json:"kind"`
	Move *Move     `json:"move,omitempty"`
	FEN  string    `json:"fen"`
	At   time.Time `json:"at"`
}
