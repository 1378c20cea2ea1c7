package session

import "github.com/rocketscienceinc/chess-backend/internal/entity"

// Registry maps the two seats to connection handles. It is not safe for concurrent use.
type Registry struct {
	occupants map[entity.Seat]entity.Handle
}

func NewRegistry() *Registry {
	return &Registry{
		occupants: make(map[entity.Seat]entity.Handle, len(entity.Seats)),
	}
}

// AssignSeat - gives handle the first free seat, or the spectator role when both are taken.
func (that *Registry) AssignSeat(handle entity.Handle) entity.Role {
	if seat, ok := that.SeatOf(handle); ok {
		return seat.Role()
	}

	for _, seat := range entity.Seats {
		if _, taken := that.occupants[seat]; taken {
			continue
		}

		that.occupants[seat] = handle

		return seat.Role()
	}

	return entity.RoleSpectator
}

// Release - frees whatever seat handle holds.
func (that *Registry) Release(handle entity.Handle) {
	if seat, ok := that.SeatOf(handle); ok {
		delete(that.occupants, seat)
	}
}

func (that *Registry) SeatOf(handle entity.Handle) (entity.Seat, bool) {
	for seat, occupant := range that.occupants {
		if occupant == handle {
			return seat, true
		}
	}

	return "", false
}

func (that *Registry) OccupantOf(seat entity.Seat) (entity.Handle, bool) {
	handle, ok := that.occupants[seat]
	return handle, ok
}
