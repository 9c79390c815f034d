package game

import (
	"cmp"
	"math"
	"slices"
)

// Input is what the room buffered for one player since the previous tick.
type Input struct {
	TargetX, TargetY float64
	HasTarget        bool
	Actions          []Action
}

// Step advances the simulation by one tick. Order:
// clock, inputs, respawns, player movement and sibling merge, bots,
// projectiles and virus feeding, food pickup, virus pops, combat, zone decay.
func Step(s *State, inputs map[string]Input) {
	s.Tick++
	s.Now = float64(s.Tick) / float64(s.Settings.TickHz)
	s.Timer = s.Settings.MatchSeconds - s.Now
	s.Events = s.Events[:0]
	clear(s.consumed)

	for _, p := range s.SortedPlayers() {
		inp, ok := inputs[p.ID]
		if !ok {
			continue
		}
		if inp.HasTarget {
			_ = p.SetTarget(inp.TargetX, inp.TargetY)
		}
		for _, a := range inp.Actions {
			s.apply(p, a)
		}
	}

	s.respawnPlayers()
	s.movePlayers()
	s.stepBots()
	s.flyProjectiles()
	s.feedViruses()
	s.eatFood()
	s.popViruses()
	s.resolveCombat()
	s.applyDecay()
}

func (s *State) respawnPlayers() {
	for _, p := range s.SortedPlayers() {
		if !p.Dead || s.Now < p.DeathTime+RespawnDelay {
			continue
		}
		c := s.spawnPlayer(p, math.Max(SpawnMass, RespawnPenalty*p.LastScore))
		s.Events = append(s.Events, Event{Kind: EventRespawn, PlayerID: p.ID, X: c.X, Y: c.Y})
	}
}

// MatchOver reports whether the match clock has run out.
func (s *State) MatchOver() bool { return s.Timer <= 0 }

type Standing struct {
	PlayerID string
	Name     string
	Score    float64
	Dead     bool
}

// Standings ranks every player, dead or alive, by RankScore; ties go to the
// earlier joiner. Both the live leaderboard and the round winner use it.
func (s *State) Standings() []Standing {
	ps := s.SortedPlayers()
	slices.SortStableFunc(ps, func(a, b *Player) int {
		return cmp.Compare(b.RankScore(), a.RankScore())
	})
	out := make([]Standing, 0, len(ps))
	for _, p := range ps {
		out = append(out, Standing{PlayerID: p.ID, Name: p.Name, Score: p.RankScore(), Dead: p.Dead})
	}
	return out
}
