package game

// SafeZoneRadiusAt is the zone radius with `remaining` seconds left in a match
// whose zone starts shrinking at `shrinkSeconds` remaining. It holds at
// SafeZoneMaxRadius until then and falls linearly to SafeZoneMinRadius at zero.
func SafeZoneRadiusAt(remaining, shrinkSeconds float64) float64 {
	if remaining <= 0 {
		return SafeZoneMinRadius
	}
	if remaining >= shrinkSeconds {
		return SafeZoneMaxRadius
	}
	progress := (shrinkSeconds - remaining) / shrinkSeconds
	return SafeZoneMaxRadius + (SafeZoneMinRadius-SafeZoneMaxRadius)*progress
}

func (s *State) SafeZoneRadius() float64 {
	return SafeZoneRadiusAt(s.Timer, s.Settings.ShrinkSeconds)
}

func insideZone(x, y, radius float64) bool {
	return dist(WorldWidth/2, WorldHeight/2, x, y) <= radius
}

// decayBody shrinks b by its tiered rate and reports whether it hit the floor.
func decayBody(b *Body, zone, dt float64) bool {
	rate := DecayRate(b.mass, !insideZone(b.X, b.Y, zone))
	if rate > 0 {
		b.SetMass(b.mass * (1 - rate*dt))
	}
	return b.mass <= MassFloor
}

// applyDecay runs tiered decay for every cell and bot. Cells at the floor are
// removed from their owner; bots at the floor respawn.
func (s *State) applyDecay() {
	zone := s.SafeZoneRadius()
	dt := s.Dt()
	for _, p := range s.SortedPlayers() {
		if p.Dead {
			continue
		}
		for _, c := range p.Cells {
			if s.isConsumed(c.ID) {
				continue
			}
			if decayBody(&c.Body, zone, dt) {
				s.consume(c.ID)
			}
		}
	}
	for _, b := range s.Bots {
		if s.isConsumed(b.ID) {
			continue
		}
		if decayBody(&b.Body, zone, dt) {
			s.respawnBot(b)
		}
	}
	s.sweepPlayers()
}
