package game

import "math"

// feedViruses lets viruses absorb ejected mass that touches them. A virus that
// reaches VirusExplodeMass resets and launches VirusChildren viruses along the
// impact heading.
func (s *State) feedViruses() {
	for _, f := range s.Food {
		if !f.Projectile() || s.isConsumed(f.ID) {
			continue
		}
		for _, v := range s.Viruses {
			if s.isConsumed(v.ID) || !Touching(v.X, v.Y, v.radius, f.X, f.Y, f.Radius()) {
				continue
			}
			s.consume(f.ID)
			v.AddMass(VirusFeedMass)
			v.Evolution++
			if v.mass >= VirusExplodeMass {
				s.splitVirus(v, math.Atan2(v.Y-f.Y, v.X-f.X))
			}
			break
		}
	}
	s.sweepFood()
	s.sweepViruses()
}

func (s *State) splitVirus(v *Virus, impact float64) {
	v.SetMass(VirusBaseMass)
	v.Evolution = 0

	if len(s.Viruses)+VirusChildren > MaxViruses {
		return
	}
	offsets := [VirusChildren]float64{-VirusSpreadAngle, 0, VirusSpreadAngle}
	for _, off := range offsets {
		a := impact + off
		ux, uy := math.Cos(a), math.Sin(a)
		child := s.newVirus(
			clamp(v.X+ux*v.radius, 0, WorldWidth),
			clamp(v.Y+uy*v.radius, 0, WorldHeight),
		)
		child.VX, child.VY = ux*VirusLaunchSpeed, uy*VirusLaunchSpeed
		s.Viruses = append(s.Viruses, child)
	}
}

// eatFood resolves pellet pickup for every living cell and bot. A pellet is
// eaten when its center lies inside the eater; projectiles only once at rest.
func (s *State) eatFood() {
	s.grid.Clear()
	for i, f := range s.Food {
		if f.Projectile() && !f.AtRest() {
			continue
		}
		s.grid.Insert(f.X, f.Y, i)
	}

	// replacements are appended after the grid was built, so nothing
	// spawned this pass can be eaten this pass
	var buf []int
	eat := func(b *Body) {
		buf = s.grid.QueryBuf(b.X, b.Y, b.radius, buf[:0])
		for _, idx := range buf {
			f := s.Food[idx]
			if s.isConsumed(f.ID) || !Contains(b.X, b.Y, b.radius, f.X, f.Y) {
				continue
			}
			s.consume(f.ID)
			b.AddMass(f.Mass)
			if f == s.Jackpot {
				s.Jackpot = nil
			}
			if !f.Projectile() {
				s.Food = append(s.Food, s.newFood(true))
			}
		}
	}

	for _, p := range s.SortedPlayers() {
		if p.Dead {
			continue
		}
		for _, c := range p.Cells {
			if !s.isConsumed(c.ID) {
				eat(&c.Body)
			}
		}
	}
	for _, b := range s.Bots {
		if !s.isConsumed(b.ID) {
			eat(&b.Body)
		}
	}
	s.sweepFood()
}

// popViruses lets a dominating player cell destroy a virus. The virus is
// replaced elsewhere and the cell bursts into up to VirusBurstPieces extra
// cells, limited by MaxCells and VirusBurstMinMass.
func (s *State) popViruses() {
	for _, p := range s.SortedPlayers() {
		if p.Dead {
			continue
		}
		// cells appended by a burst are not re-checked this tick
		n := len(p.Cells)
		for i := 0; i < n; i++ {
			c := p.Cells[i]
			if s.isConsumed(c.ID) {
				continue
			}
			for _, v := range s.Viruses {
				if s.isConsumed(v.ID) || !CanEat(&c.Body, &v.Body) {
					continue
				}
				s.consume(v.ID)
				s.Viruses = append(s.Viruses, s.newVirus(s.rnd(WorldWidth), s.rnd(WorldHeight)))
				s.burst(p, c)
				break
			}
		}
	}
	s.sweepViruses()
}

func (s *State) burst(p *Player, c *Cell) {
	pieces := min(VirusBurstPieces, MaxCells-len(p.Cells))
	pieces = min(pieces, int(c.mass/VirusBurstMinMass)-1)
	if pieces <= 0 {
		return
	}
	share := c.mass / float64(pieces+1)
	c.SetMass(share)
	c.MergeAt = s.Now + MergeCooldown
	s.launch(c)
	for k := 0; k < pieces; k++ {
		n := s.newCell(c.X, c.Y, share)
		n.MergeAt = c.MergeAt
		s.launch(n)
		p.Cells = append(p.Cells, n)
	}
}

func (s *State) launch(c *Cell) {
	a := s.rnd(2 * math.Pi)
	speed := VirusBurstSpeedMin + s.rnd(VirusBurstSpeedMax-VirusBurstSpeedMin)
	c.IX, c.IY = math.Cos(a)*speed, math.Sin(a)*speed
}

func (s *State) sweepFood() {
	s.Food = sweep(s.Food, s, func(f *Food) EntityID { return f.ID })
}

func (s *State) sweepViruses() {
	s.Viruses = sweep(s.Viruses, s, func(v *Virus) EntityID { return v.ID })
}

// sweepPlayers drops consumed cells and marks players with no cells left as
// dead, capturing the mass they held at that moment.
func (s *State) sweepPlayers() {
	for _, p := range s.SortedPlayers() {
		if p.Dead {
			continue
		}
		held := p.totalMass()
		p.Cells = sweep(p.Cells, s, func(c *Cell) EntityID { return c.ID })
		if len(p.Cells) == 0 {
			p.Dead = true
			p.DeathTime = s.Now
			p.LastScore = held
			p.Score = 0
			s.Events = append(s.Events, Event{Kind: EventDeath, PlayerID: p.ID})
			continue
		}
		p.Score = p.totalMass()
	}
}

// sweep compacts items in place, dropping everything in the consumed ledger.
func sweep[T any](items []T, s *State, id func(T) EntityID) []T {
	out := items[:0]
	for _, it := range items {
		if !s.isConsumed(id(it)) {
			out = append(out, it)
		}
	}
	clear(items[len(out):])
	return out
}
