package game

import "fmt"

// Occupant identifies what a body in the combat pass belongs to.
// The set of implementations is closed: PlayerCell and BotCell.
type Occupant interface {
	occupant()
}

type PlayerCell struct {
	Player *Player
	Cell   *Cell
}

type BotCell struct {
	Bot *Bot
}

func (PlayerCell) occupant() {}
func (BotCell) occupant()    {}

func bodyOf(o Occupant) *Body {
	switch v := o.(type) {
	case PlayerCell:
		return &v.Cell.Body
	case BotCell:
		return &v.Bot.Body
	default:
		panic(fmt.Sprintf("game: unknown occupant %T", o))
	}
}

func sameOwner(a, b Occupant) bool {
	pa, ok := a.(PlayerCell)
	if !ok {
		return false
	}
	pb, ok := b.(PlayerCell)
	return ok && pa.Player == pb.Player
}

// rewardFor is the fraction of prey mass a predator gains.
func rewardFor(prey Occupant) float64 {
	switch prey.(type) {
	case PlayerCell:
		return PlayerEatReward
	case BotCell:
		return BotEatReward
	default:
		panic(fmt.Sprintf("game: unknown occupant %T", prey))
	}
}

// occupants lists every living player cell in join order, then every bot.
func (s *State) occupants() []Occupant {
	var out []Occupant
	for _, p := range s.SortedPlayers() {
		if p.Dead {
			continue
		}
		for _, c := range p.Cells {
			out = append(out, PlayerCell{Player: p, Cell: c})
		}
	}
	for _, b := range s.Bots {
		out = append(out, BotCell{Bot: b})
	}
	return out
}

// resolveCombat runs the predator/prey pass over players and bots. Every
// ordered pair with different owners is tested once; the first predator in
// iteration order to qualify takes the prey, which is then skipped by every
// later check this tick. Eaten bots respawn at once under a new id.
func (s *State) resolveCombat() {
	occ := s.occupants()
	for _, pred := range occ {
		pb := bodyOf(pred)
		for _, prey := range occ {
			if s.isConsumed(pb.ID) {
				break
			}
			qb := bodyOf(prey)
			if pb == qb || sameOwner(pred, prey) || s.isConsumed(qb.ID) {
				continue
			}
			if !CanEat(pb, qb) {
				continue
			}
			pb.AddMass(qb.mass * rewardFor(prey))
			s.consume(qb.ID)
			if b, ok := prey.(BotCell); ok {
				s.respawnBot(b.Bot)
				// the fresh bot sits out the rest of this pass
				s.consume(b.Bot.ID)
			}
		}
	}
	s.sweepPlayers()
}
