package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUndecodableMove = errors.New("undecodable move")

// Move is a move candidate as sent by a client. Nothing in it is trusted.
type Move struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// UnmarshalJSON accepts both {"from":"e2","to":"e4"} and the long algebraic string "e2e4".
func (that *Move) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return that.parseLongAlgebraic(text)
	}

	type plain Move

	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("%w: %w", ErrUndecodableMove, err)
	}

	*that = Move(decoded)

	return nil
}

func (that *Move) parseLongAlgebraic(text string) error {
	text = strings.TrimSpace(text)
	if len(text) != 4 && len(text) != 5 {
		return fmt.Errorf("%w: %q", ErrUndecodableMove, text)
	}

	that.From = text[0:2]
	that.To = text[2:4]
	that.Promotion = text[4:]

	return nil
}

// Normalized returns a copy with lower-cased, trimmed fields.
func (that Move) Normalized() Move {
	return Move{
		From:      strings.ToLower(strings.TrimSpace(that.From)),
		To:        strings.ToLower(strings.TrimSpace(that.To)),
		Promotion: strings.ToLower(strings.TrimSpace(that.Promotion)),
	}
}

func (that Move) String() string {
	return that.From + that.To + that.Promotion
}
