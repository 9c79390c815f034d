package game

import "math"

func (s *State) retargetBot(b *Bot) {
	b.TargetX = s.rnd(WorldWidth)
	b.TargetY = s.rnd(WorldHeight)
	b.RetargetAt = s.Now + BotDwellMin + s.rnd(BotDwellMax-BotDwellMin)
}

// stepBots seeks each bot toward its wander target, picking a new one on
// arrival or once the dwell time runs out.
func (s *State) stepBots() {
	for _, b := range s.Bots {
		d := dist(b.X, b.Y, b.TargetX, b.TargetY)
		if d < BotArrivalRadius || s.Now >= b.RetargetAt {
			s.retargetBot(b)
			d = dist(b.X, b.Y, b.TargetX, b.TargetY)
		}
		if d == 0 {
			continue
		}
		step := math.Min(SpeedForMass(b.mass), d)
		b.X = clamp(b.X+(b.TargetX-b.X)/d*step, 0, WorldWidth)
		b.Y = clamp(b.Y+(b.TargetY-b.Y)/d*step, 0, WorldHeight)
	}
}
