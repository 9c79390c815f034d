package game

import (
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("game: unknown action")

type Action uint8

const (
	ActionSplit Action = iota + 1
	ActionEject
)

func (a Action) String() string {
	switch a {
	case ActionSplit:
		return "split"
	case ActionEject:
		return "eject"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

func ParseAction(s string) (Action, error) {
	switch s {
	case "split":
		return ActionSplit, nil
	case "eject":
		return ActionEject, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

func (s *State) apply(p *Player, a Action) {
	if p.Dead {
		return
	}
	switch a {
	case ActionSplit:
		s.split(p)
	case ActionEject:
		s.eject(p)
	}
}

// split halves every cell heavy enough while the player is under MaxCells.
// The new half is placed one radius ahead along the pointer heading and
// launched with an impulse; both halves go on merge cooldown.
func (s *State) split(p *Player) {
	n := len(p.Cells)
	for i := 0; i < n && len(p.Cells) < MaxCells; i++ {
		c := p.Cells[i]
		if c.mass < SplitMinMass {
			continue
		}
		half := c.mass / 2
		c.SetMass(half)
		ux, uy := heading(p, c.X, c.Y)

		nc := s.newCell(
			clamp(c.X+ux*c.radius, 0, WorldWidth),
			clamp(c.Y+uy*c.radius, 0, WorldHeight),
			half,
		)
		nc.IX, nc.IY = ux*SplitSpeed, uy*SplitSpeed
		nc.MergeAt = s.Now + MergeCooldown
		c.MergeAt = nc.MergeAt
		p.Cells = append(p.Cells, nc)
	}
}

// eject fires a pellet of EjectMass from every cell heavy enough.
func (s *State) eject(p *Player) {
	for _, c := range p.Cells {
		if c.mass < EjectMinMass {
			continue
		}
		c.SetMass(c.mass - EjectMass)
		ux, uy := heading(p, c.X, c.Y)
		s.Food = append(s.Food, &Food{
			ID:    s.id(),
			Kind:  FoodEjected,
			X:     clamp(c.X+ux*(c.radius+EjectGap), 0, WorldWidth),
			Y:     clamp(c.Y+uy*(c.radius+EjectGap), 0, WorldHeight),
			VX:    ux * EjectSpeed,
			VY:    uy * EjectSpeed,
			Mass:  EjectMass,
			Color: p.Color,
		})
	}
}
