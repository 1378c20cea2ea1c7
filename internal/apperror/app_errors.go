package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove       = errors.New("illegal move")
	ErrMalformedMove     = fmt.Errorf("%w: malformed candidate", ErrIllegalMove)
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrNotSeated         = errors.New("connection does not hold a seat")
	ErrInvalidBoardState = errors.New("invalid board state")
	ErrUnknownHandle     = errors.New("unknown connection handle")
)
