package game

import "testing"

func newProjectile(s *State, x, y float64) *Food {
	return &Food{ID: s.id(), Kind: FoodEjected, X: x, Y: y, Mass: EjectMass}
}

func TestVirusExplodesAfterSevenShots(t *testing.T) {
	s := newTestState()
	s.Settings.VirusCount = 1
	v := s.newVirus(1000, 1000)
	s.Viruses = []*Virus{v}

	for shot := 1; shot <= 7; shot++ {
		s.Food = append(s.Food, newProjectile(s, 960, 1000))
		s.feedViruses()
		if shot < 7 && len(s.Viruses) != 1 {
			t.Fatalf("virus split early after %d shots", shot)
		}
	}

	if len(s.Food) != 0 {
		t.Fatalf("expected all projectiles absorbed, %d left", len(s.Food))
	}
	if v.Mass() != VirusBaseMass {
		t.Fatalf("virus mass after explosion = %f, want %f", v.Mass(), VirusBaseMass)
	}
	if len(s.Viruses) != 1+VirusChildren {
		t.Fatalf("viruses after explosion = %d, want %d", len(s.Viruses), 1+VirusChildren)
	}
	for _, c := range s.Viruses[1:] {
		if !finite(c.X) || !finite(c.Y) || c.X < 0 || c.X > WorldWidth || c.Y < 0 || c.Y > WorldHeight {
			t.Fatalf("child virus at invalid position (%f,%f)", c.X, c.Y)
		}
		if c.VX <= 0 {
			t.Fatalf("child should be launched away from the shooter (+x), got VX=%f", c.VX)
		}
	}
}

func TestFoodPickupRespawnsReplacement(t *testing.T) {
	s := newTestState()
	p := addPlayerAt(s, "p1", 1000, 1000, 50)
	s.Food = []*Food{
		{ID: s.id(), Kind: FoodNormal, X: 1005, Y: 1000, Mass: FoodMass},
		{ID: s.id(), Kind: FoodNormal, X: 3000, Y: 3000, Mass: FoodMass},
	}

	s.eatFood()

	if got := p.Cells[0].Mass(); got != 50+FoodMass {
		t.Fatalf("mass after pickup = %f, want %f", got, 50+FoodMass)
	}
	if len(s.Food) != 2 {
		t.Fatalf("food count = %d, want 2 (eaten pellet replaced)", len(s.Food))
	}
}

func TestJackpotPickupClearsReference(t *testing.T) {
	s := newTestState()
	p := addPlayerAt(s, "p1", 1000, 1000, 50)
	jp := &Food{ID: s.id(), Kind: FoodJackpot, X: 1000, Y: 1000, Mass: JackpotMass}
	s.Food = []*Food{jp}
	s.Jackpot = jp

	s.eatFood()

	if s.Jackpot == jp {
		t.Fatalf("jackpot reference not cleared")
	}
	if got := p.Cells[0].Mass(); got != 50+JackpotMass {
		t.Fatalf("mass after jackpot = %f, want %f", got, 50+JackpotMass)
	}
}

func TestProjectileInFlightIsNotEaten(t *testing.T) {
	s := newTestState()
	p := addPlayerAt(s, "p1", 1000, 1000, 50)
	f := newProjectile(s, 1000, 1000)
	f.VX = 5
	s.Food = []*Food{f}

	s.eatFood()
	if len(s.Food) != 1 || p.Cells[0].Mass() != 50 {
		t.Fatalf("moving projectile was eaten")
	}

	f.VX = 0
	s.eatFood()
	if len(s.Food) != 0 || p.Cells[0].Mass() != 50+EjectMass {
		t.Fatalf("resting projectile not eaten: food=%d mass=%f", len(s.Food), p.Cells[0].Mass())
	}
}

func TestProjectileSlowsToRest(t *testing.T) {
	s := newTestState()
	f := newProjectile(s, 1000, 1000)
	f.VX = EjectSpeed
	s.Food = []*Food{f}

	for i := 0; i < 200 && !f.AtRest(); i++ {
		s.flyProjectiles()
	}
	if !f.AtRest() {
		t.Fatalf("projectile never came to rest, v=(%f,%f)", f.VX, f.VY)
	}
	if f.X <= 1000 {
		t.Fatalf("projectile did not travel, x=%f", f.X)
	}
}

func TestLargeCellPopsVirusAndBursts(t *testing.T) {
	s := newTestState()
	s.Settings.VirusCount = 1
	p := addPlayerAt(s, "p1", 1000, 1000, 400)
	s.Viruses = []*Virus{s.newVirus(1000, 1000)}
	popped := s.Viruses[0]

	s.popViruses()

	if len(s.Viruses) != 1 || s.Viruses[0] == popped {
		t.Fatalf("expected popped virus replaced by a fresh one")
	}
	if len(p.Cells) != 1+VirusBurstPieces {
		t.Fatalf("cells after burst = %d, want %d", len(p.Cells), 1+VirusBurstPieces)
	}
	total := 0.0
	for _, c := range p.Cells {
		total += c.Mass()
		if c.IX == 0 && c.IY == 0 {
			t.Fatalf("burst cell %d has no impulse", c.ID)
		}
		if c.MergeAt <= s.Now {
			t.Fatalf("burst cell %d not on merge cooldown", c.ID)
		}
	}
	if total < 399.999 || total > 400.001 {
		t.Fatalf("burst should conserve mass, total=%f", total)
	}
}

func TestBurstRespectsCellBudget(t *testing.T) {
	s := newTestState()
	p := addPlayerAt(s, "p1", 1000, 1000, 400)
	for len(p.Cells) < MaxCells-2 {
		p.Cells = append(p.Cells, s.newCell(100, 100, 20))
	}
	s.Viruses = []*Virus{s.newVirus(1000, 1000)}

	s.popViruses()

	if len(p.Cells) != MaxCells {
		t.Fatalf("cells after capped burst = %d, want %d", len(p.Cells), MaxCells)
	}
}

func TestSmallCellDoesNotPopVirus(t *testing.T) {
	s := newTestState()
	p := addPlayerAt(s, "p1", 1000, 1000, 110)
	v := s.newVirus(1000, 1000)
	s.Viruses = []*Virus{v}

	s.popViruses()

	if len(s.Viruses) != 1 || s.Viruses[0] != v || len(p.Cells) != 1 {
		t.Fatalf("cell of mass 110 should not dominate a virus of mass %f", v.Mass())
	}
}

// feedUntilExplodes shoots the first virus until it resets to base mass.
func feedUntilExplodes(t *testing.T, s *State) {
	t.Helper()
	v := s.Viruses[0]
	for shot := 0; shot < 7; shot++ {
		s.Food = append(s.Food, newProjectile(s, v.X-40, v.Y))
		s.feedViruses()
	}
	if v.Mass() != VirusBaseMass || v.Evolution != 0 {
		t.Fatalf("virus did not explode: mass=%f evolution=%d", v.Mass(), v.Evolution)
	}
}

func TestVirusExplosionIgnoresSeededCount(t *testing.T) {
	s := newTestState()
	if s.Settings.VirusCount != 0 {
		t.Fatalf("test world should seed no viruses")
	}
	s.Viruses = []*Virus{s.newVirus(1000, 1000)}

	feedUntilExplodes(t, s)

	if len(s.Viruses) != 1+VirusChildren {
		t.Fatalf("viruses after explosion = %d, want %d", len(s.Viruses), 1+VirusChildren)
	}
}

func TestVirusExplosionNearCeilingIsAllOrNothing(t *testing.T) {
	fill := func(s *State, total int) {
		s.Viruses = []*Virus{s.newVirus(1000, 1000)}
		for len(s.Viruses) < total {
			s.Viruses = append(s.Viruses, s.newVirus(4000, 4000))
		}
	}

	s := newTestState()
	fill(s, MaxViruses-VirusChildren)
	feedUntilExplodes(t, s)
	if len(s.Viruses) != MaxViruses {
		t.Fatalf("viruses = %d, want all %d children up to %d", len(s.Viruses), VirusChildren, MaxViruses)
	}

	s = newTestState()
	fill(s, MaxViruses-VirusChildren+1)
	feedUntilExplodes(t, s)
	if len(s.Viruses) != MaxViruses-VirusChildren+1 {
		t.Fatalf("viruses = %d, want no partial spawn past the ceiling", len(s.Viruses))
	}
}
