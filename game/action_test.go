package game

import (
	"errors"
	"testing"
)

func TestSplitHalvesAndLaunchesTowardTarget(t *testing.T) {
	s := newTestState()
	s.Now = 3
	p := addPlayerAt(s, "p1", 1000, 1000, 100)
	_ = p.SetTarget(2000, 1000)

	s.split(p)

	if len(p.Cells) != 2 {
		t.Fatalf("cells after split = %d, want 2", len(p.Cells))
	}
	orig, half := p.Cells[0], p.Cells[1]
	if orig.Mass() != 50 || half.Mass() != 50 {
		t.Fatalf("split masses = %f, %f, want 50 each", orig.Mass(), half.Mass())
	}
	if half.X <= orig.X || half.IX <= 0 {
		t.Fatalf("new half should sit ahead and move toward +x, x=%f ix=%f", half.X, half.IX)
	}
	if orig.MergeAt != 3+MergeCooldown || half.MergeAt != 3+MergeCooldown {
		t.Fatalf("merge cooldown not applied: %f, %f", orig.MergeAt, half.MergeAt)
	}
}

func TestSplitSkipsLightCellsAndRespectsCap(t *testing.T) {
	s := newTestState()
	p := addPlayerAt(s, "p1", 1000, 1000, SplitMinMass-1)
	s.split(p)
	if len(p.Cells) != 1 {
		t.Fatalf("cell under %f split", SplitMinMass)
	}

	p.Cells[0].SetMass(10000)
	for i := 0; i < 10; i++ {
		s.split(p)
	}
	if len(p.Cells) != MaxCells {
		t.Fatalf("cells after repeated splits = %d, want %d", len(p.Cells), MaxCells)
	}
}

func TestEjectSpendsMassOnProjectile(t *testing.T) {
	s := newTestState()
	p := addPlayerAt(s, "p1", 1000, 1000, 100)
	_ = p.SetTarget(1000, 0)

	s.eject(p)

	if got := p.Cells[0].Mass(); got != 100-EjectMass {
		t.Fatalf("mass after eject = %f, want %f", got, 100-EjectMass)
	}
	if len(s.Food) != 1 {
		t.Fatalf("expected 1 projectile, got %d food", len(s.Food))
	}
	f := s.Food[0]
	if !f.Projectile() || f.Mass != EjectMass || f.VY >= 0 {
		t.Fatalf("projectile wrong: kind=%d mass=%f vy=%f", f.Kind, f.Mass, f.VY)
	}
	if d := dist(f.X, f.Y, p.Cells[0].X, p.Cells[0].Y); d <= p.Cells[0].Radius() {
		t.Fatalf("projectile spawned inside its cell (d=%f)", d)
	}
}

func TestDeadPlayerActionsAreIgnored(t *testing.T) {
	s := newTestState()
	p := addPlayerAt(s, "p1", 1000, 1000, 100)
	p.Cells, p.Dead = nil, true

	s.apply(p, ActionSplit)
	s.apply(p, ActionEject)

	if len(p.Cells) != 0 || len(s.Food) != 0 {
		t.Fatalf("dead player acted: cells=%d food=%d", len(p.Cells), len(s.Food))
	}
}

func TestParseAction(t *testing.T) {
	if a, err := ParseAction("split"); err != nil || a != ActionSplit {
		t.Fatalf("ParseAction(split) = %v, %v", a, err)
	}
	if a, err := ParseAction("eject"); err != nil || a != ActionEject {
		t.Fatalf("ParseAction(eject) = %v, %v", a, err)
	}
	if _, err := ParseAction("teleport"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("ParseAction(teleport) err = %v, want ErrUnknownAction", err)
	}
}
