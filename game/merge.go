package game

import "math"

// resolveSiblings handles every pair of a player's cells once per tick.
// Pairs where either cell is still on merge cooldown are pushed apart in
// proportion to their overlap; pairs past cooldown merge when their centers
// are closer than MergeOverlapFraction of the combined radius. A cell that
// took part in a merge is not considered for another merge in the same pass.
func (s *State) resolveSiblings(p *Player) {
	merged := make(map[EntityID]bool)
	for i := 0; i < len(p.Cells); i++ {
		a := p.Cells[i]
		for j := i + 1; j < len(p.Cells); j++ {
			b := p.Cells[j]
			if s.isConsumed(a.ID) {
				break
			}
			if s.isConsumed(b.ID) {
				continue
			}
			combined := a.radius + b.radius
			d := dist(a.X, a.Y, b.X, b.Y)

			if s.Now < a.MergeAt || s.Now < b.MergeAt {
				if d < combined {
					repel(a, b, d, combined)
				}
				continue
			}
			if merged[a.ID] || merged[b.ID] || d >= combined*MergeOverlapFraction {
				continue
			}
			big, small := a, b
			if b.mass > a.mass {
				big, small = b, a
			}
			big.SetMass(big.mass + small.mass)
			s.consume(small.ID)
			merged[big.ID] = true
			merged[small.ID] = true
		}
	}
}

// repel pushes a and b apart symmetrically along their center line.
func repel(a, b *Cell, d, combined float64) {
	nx, ny := 1.0, 0.0
	if d > 0 {
		nx, ny = (a.X-b.X)/d, (a.Y-b.Y)/d
	}
	push := (combined - d) * RepelStiffness / 2
	a.X = clamp(a.X+nx*push, 0, WorldWidth)
	a.Y = clamp(a.Y+ny*push, 0, WorldHeight)
	b.X = clamp(b.X-nx*push, 0, WorldWidth)
	b.Y = clamp(b.Y-ny*push, 0, WorldHeight)
}

// heading returns the unit vector from (x, y) toward the player's target,
// or straight down when there is no usable target.
func heading(p *Player, x, y float64) (float64, float64) {
	if !p.HasTarget {
		return 0, 1
	}
	dx, dy := p.TargetX-x, p.TargetY-y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return 0, 1
	}
	return dx / d, dy / d
}
