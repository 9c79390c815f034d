package game

import "math"

// steer sets the cell's velocity toward (tx, ty) at its mass-dependent speed,
// stopping exactly on the target instead of overshooting it.
func steer(c *Cell, tx, ty float64) {
	dx, dy := tx-c.X, ty-c.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		c.VX, c.VY = 0, 0
		return
	}
	speed := math.Min(SpeedForMass(c.mass), d)
	c.VX = dx / d * speed
	c.VY = dy / d * speed
}

// moveCell applies impulse, then steering, then clamps to the world.
// Impulse is applied on its own so a freshly split cell still launches
// while the pointer pulls it elsewhere.
func moveCell(c *Cell) {
	c.X += c.IX
	c.Y += c.IY
	c.IX, c.IY = decayImpulse(c.IX), decayImpulse(c.IY)

	c.X += c.VX
	c.Y += c.VY
	c.X = clamp(c.X, 0, WorldWidth)
	c.Y = clamp(c.Y, 0, WorldHeight)
}

func decayImpulse(v float64) float64 {
	v *= ImpulseFriction
	if math.Abs(v) < ImpulseEpsilon {
		return 0
	}
	return v
}

// movePlayers advances every living player's cells and then resolves
// sibling repulsion and merging.
func (s *State) movePlayers() {
	for _, p := range s.SortedPlayers() {
		if p.Dead {
			continue
		}
		for _, c := range p.Cells {
			if p.HasTarget {
				steer(c, p.TargetX, p.TargetY)
			} else {
				c.VX, c.VY = 0, 0
			}
			moveCell(c)
		}
		s.resolveSiblings(p)
	}
	s.sweepPlayers()
}

// flyProjectiles moves ejected mass and launched viruses, bleeding off speed.
func (s *State) flyProjectiles() {
	for _, f := range s.Food {
		if !f.Projectile() || f.AtRest() {
			continue
		}
		f.X = clamp(f.X+f.VX, 0, WorldWidth)
		f.Y = clamp(f.Y+f.VY, 0, WorldHeight)
		f.VX *= ProjectileFriction
		f.VY *= ProjectileFriction
		if math.Abs(f.VX) < ProjectileRest && math.Abs(f.VY) < ProjectileRest {
			f.VX, f.VY = 0, 0
		}
	}
	for _, v := range s.Viruses {
		if v.VX == 0 && v.VY == 0 {
			continue
		}
		v.X = clamp(v.X+v.VX, 0, WorldWidth)
		v.Y = clamp(v.Y+v.VY, 0, WorldHeight)
		v.VX, v.VY = v.VX*VirusFriction, v.VY*VirusFriction
		if math.Abs(v.VX) < ProjectileRest && math.Abs(v.VY) < ProjectileRest {
			v.VX, v.VY = 0, 0
		}
	}
}
