package game

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"time"
)

// Internal truth authoritative game state

var ErrNonFiniteTarget = errors.New("game: non-finite movement target")

type EntityID uint64

// Settings are the per-room knobs that are not fixed gameplay constants.
type Settings struct {
	TickHz        int
	MatchSeconds  float64
	ShrinkSeconds float64 // remaining time at which the safe zone starts shrinking
	FoodCount     int
	BotCount      int
	VirusCount    int
	Seed          int64 // 0 seeds from the clock
}

func DefaultSettings() Settings {
	return Settings{
		TickHz:        60,
		MatchSeconds:  180,
		ShrinkSeconds: 120,
		FoodCount:     300,
		BotCount:      20,
		VirusCount:    10,
	}
}

// Body is the circular, mass-bearing part shared by cells, bots and viruses.
// The radius is derived from mass on every write and cannot be set directly.
type Body struct {
	ID     EntityID
	X, Y   float64
	mass   float64
	radius float64
}

func (b *Body) Mass() float64   { return b.mass }
func (b *Body) Radius() float64 { return b.radius }

// SetMass clamps to MassFloor (NaN included) before recomputing the radius.
func (b *Body) SetMass(m float64) {
	if math.IsNaN(m) || m < MassFloor {
		m = MassFloor
	}
	b.mass = m
	b.radius = RadiusForMass(m)
}

func (b *Body) AddMass(dm float64) { b.SetMass(b.mass + dm) }

type Cell struct {
	Body
	VX, VY  float64 // steering
	IX, IY  float64 // decaying impulse
	MergeAt float64 // sim seconds; may merge with siblings once Now >= MergeAt
}

type Player struct {
	ID    string
	Name  string
	Color string
	Seq   int // join order, used for deterministic iteration

	Cells     []*Cell
	Dead      bool
	DeathTime float64
	LastScore float64
	Score     float64

	TargetX, TargetY float64
	HasTarget        bool
}

// SetTarget rejects NaN and infinite coordinates without touching the player.
func (p *Player) SetTarget(x, y float64) error {
	if !finite(x) || !finite(y) {
		return ErrNonFiniteTarget
	}
	p.TargetX, p.TargetY = x, y
	p.HasTarget = true
	return nil
}

// RankScore is what standings sort by: live score, or the score at death.
func (p *Player) RankScore() float64 {
	if p.Dead {
		return p.LastScore
	}
	return p.Score
}

func (p *Player) totalMass() float64 {
	sum := 0.0
	for _, c := range p.Cells {
		sum += c.mass
	}
	return sum
}

type Bot struct {
	Body
	Color            string
	TargetX, TargetY float64
	RetargetAt       float64
}

type FoodKind uint8

const (
	FoodNormal FoodKind = iota
	FoodJackpot
	FoodEjected // ejected mass; flies with friction, edible once at rest
)

type Food struct {
	ID     EntityID
	Kind   FoodKind
	X, Y   float64
	VX, VY float64
	Mass   float64
	Color  string
}

func (f *Food) Radius() float64 { return FoodRadius(f.Mass) }

func (f *Food) Projectile() bool { return f.Kind == FoodEjected }

func (f *Food) AtRest() bool { return f.VX == 0 && f.VY == 0 }

type Virus struct {
	Body
	VX, VY    float64
	Evolution int
}

type EventKind uint8

const (
	EventRespawn EventKind = iota
	EventDeath
)

// Event is a per-tick notification the room forwards to clients.
type Event struct {
	Kind     EventKind
	PlayerID string
	X, Y     float64
}

type State struct {
	Settings Settings
	Tick     int
	Now      float64 // sim seconds since match start
	Timer    float64 // seconds remaining

	Players map[string]*Player
	Bots    []*Bot
	Food    []*Food
	Viruses []*Virus
	Jackpot *Food
	Events  []Event

	rng      *rand.Rand
	palette  *Palette
	grid     SpatialGrid
	nextID   EntityID
	nextSeq  int
	consumed map[EntityID]struct{}
}

func NewState(cfg Settings) *State {
	if cfg.TickHz <= 0 {
		cfg.TickHz = DefaultSettings().TickHz
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &State{
		Settings: cfg,
		Players:  make(map[string]*Player),
		rng:      rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
		palette:  NewPalette(seed),
		grid:     NewSpatialGrid(WorldWidth, WorldHeight),
		consumed: make(map[EntityID]struct{}),
	}
	s.ResetWorld()
	return s
}

func (s *State) Dt() float64 { return 1 / float64(s.Settings.TickHz) }

// ResetWorld repopulates food, bots and viruses and rewinds the match clock.
// Players stay but are not respawned; see StartMatch.
func (s *State) ResetWorld() {
	s.Tick = 0
	s.Now = 0
	s.Timer = s.Settings.MatchSeconds
	s.Jackpot = nil
	s.Events = s.Events[:0]
	clear(s.consumed)

	s.Food = make([]*Food, 0, s.Settings.FoodCount)
	for i := 0; i < s.Settings.FoodCount; i++ {
		s.Food = append(s.Food, s.newFood(false))
	}
	s.Bots = make([]*Bot, 0, s.Settings.BotCount)
	for i := 0; i < s.Settings.BotCount; i++ {
		b := &Bot{Color: "#888888"}
		s.respawnBot(b)
		s.Bots = append(s.Bots, b)
	}
	s.Viruses = make([]*Virus, 0, s.Settings.VirusCount)
	for i := 0; i < s.Settings.VirusCount; i++ {
		s.Viruses = append(s.Viruses, s.newVirus(s.rnd(WorldWidth), s.rnd(WorldHeight)))
	}
}

// StartMatch resets the world and gives every player a fresh spawn.
func (s *State) StartMatch() {
	s.ResetWorld()
	for _, p := range s.SortedPlayers() {
		p.LastScore = 0
		s.spawnPlayer(p, SpawnMass)
	}
}

func (s *State) AddPlayer(id, name string) *Player {
	s.nextSeq++
	p := &Player{
		ID:    id,
		Name:  name,
		Color: s.palette.PlayerColor(s.rng.Float64()),
		Seq:   s.nextSeq,
	}
	s.Players[id] = p
	s.spawnPlayer(p, SpawnMass)
	return p
}

func (s *State) RemovePlayer(id string) {
	delete(s.Players, id)
}

// SortedPlayers returns players in join order.
func (s *State) SortedPlayers() []*Player {
	out := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Player) int { return a.Seq - b.Seq })
	return out
}

// spawnPlayer replaces the player's cells with a single cell inside the safe zone.
func (s *State) spawnPlayer(p *Player, mass float64) *Cell {
	angle := s.rnd(2 * math.Pi)
	r := s.rnd(s.SafeZoneRadius() * RespawnZoneFrac)
	x := clamp(WorldWidth/2+math.Cos(angle)*r, 0, WorldWidth)
	y := clamp(WorldHeight/2+math.Sin(angle)*r, 0, WorldHeight)

	c := s.newCell(x, y, mass)
	p.Cells = []*Cell{c}
	p.Dead = false
	p.Score = c.mass
	p.HasTarget = false
	return c
}

func (s *State) newCell(x, y, mass float64) *Cell {
	c := &Cell{Body: Body{ID: s.id(), X: x, Y: y}}
	c.SetMass(mass)
	return c
}

func (s *State) newFood(allowJackpot bool) *Food {
	f := &Food{
		ID:   s.id(),
		Kind: FoodNormal,
		X:    s.rnd(WorldWidth),
		Y:    s.rnd(WorldHeight),
		Mass: FoodMass,
	}
	if allowJackpot && s.Jackpot == nil && s.rng.Float64() < JackpotChance {
		f.Kind = FoodJackpot
		f.Mass = JackpotMass
		f.Color = "#FFD700"
		s.Jackpot = f
		return f
	}
	f.Color = s.palette.FoodColor(f.X, f.Y)
	return f
}

func (s *State) newVirus(x, y float64) *Virus {
	v := &Virus{Body: Body{ID: s.id(), X: x, Y: y}}
	v.SetMass(VirusBaseMass)
	return v
}

// respawnBot gives the bot a fresh identity, position, mass and wander target.
func (s *State) respawnBot(b *Bot) {
	b.ID = s.id()
	b.X = s.rnd(WorldWidth)
	b.Y = s.rnd(WorldHeight)
	b.SetMass(BotMinMass + s.rnd(BotMaxMass-BotMinMass))
	s.retargetBot(b)
}

func (s *State) id() EntityID {
	s.nextID++
	return s.nextID
}

func (s *State) rnd(max float64) float64 { return s.rng.Float64() * max }

// consume marks an entity as removed for the rest of the tick.
func (s *State) consume(id EntityID) { s.consumed[id] = struct{}{} }

func (s *State) isConsumed(id EntityID) bool {
	_, ok := s.consumed[id]
	return ok
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
