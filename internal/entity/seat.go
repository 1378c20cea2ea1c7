package entity

import "github.com/google/uuid"

// Handle identifies one live connection. It is never reused.
type Handle string

// NewHandle - generates a new connection handle.
func NewHandle() Handle {
	return Handle(uuid.NewString())
}

type Seat string

const (
	FirstSeat  Seat = "w"
	SecondSeat Seat = "b"
)

// Seats lists the seats in assignment order.
var Seats = [2]Seat{FirstSeat, SecondSeat}

type Role string

const (
	RoleFirstSeat  Role = "w"
	RoleSecondSeat Role = "b"
	RoleSpectator  Role = "spectator"
)

func (that Seat) Role() Role {
	switch that {
	case FirstSeat:
		return RoleFirstSeat
	case SecondSeat:
		return RoleSecondSeat
	default:
		return RoleSpectator
	}
}

func (that Seat) Opponent() Seat {
	if that == FirstSeat {
		return SecondSeat
	}
	return FirstSeat
}

func (that Role) IsSpectator() bool {
	return that == RoleSpectator
}

// Roster describes who is sitting where, without exposing handles.
type Roster struct {
	Seats      map[Seat]bool `json:"seats"`
	Spectators int           `json:"spectators"`
}
