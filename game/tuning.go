package game

import "math"

const (
	WorldWidth  = 4500.0
	WorldHeight = 4500.0

	BaseRadius  = 10.0
	RadiusScale = 5.0
	MassFloor   = 10.0 // cells at or under this are removed

	SpawnMass       = 20.0
	RespawnDelay    = 5.0 // seconds dead before respawn
	RespawnPenalty  = 0.8 // fraction of lastScore kept on respawn
	RespawnZoneFrac = 0.8 // respawn within this fraction of the safe radius
	MaxCells        = 16

	BaseSpeed     = 8.0
	MinSpeed      = 2.0
	SpeedExponent = 0.1 // speed = BaseSpeed * mass^-SpeedExponent

	ImpulseFriction = 0.9
	ImpulseEpsilon  = 0.05

	MergeCooldown        = 10.0 // seconds after a split before siblings may merge
	MergeOverlapFraction = 0.5
	RepelStiffness       = 0.5

	DominanceMargin    = 0.2 // predator.mass > prey.mass * (1 + margin)
	EatOverlapFraction = 0.4
	PlayerEatReward    = 0.6 // fraction of a player cell's mass gained when eaten
	BotEatReward       = 0.4

	SplitMinMass = 35.0
	SplitSpeed   = 20.0

	EjectMinMass       = 35.0
	EjectMass          = 10.0
	EjectSpeed         = 15.0
	EjectGap           = 15.0
	ProjectileFriction = 0.95
	ProjectileRest     = 0.1

	FoodMass       = 1.0
	JackpotMass    = 50.0
	JackpotChance  = 0.005
	FoodBaseRadius = 4.0
	FoodScale      = 3.0

	BotMinMass       = 20.0
	BotMaxMass       = 60.0
	BotArrivalRadius = 20.0
	BotDwellMin      = 3.0
	BotDwellMax      = 8.0

	VirusBaseMass       = 100.0
	VirusFeedMass       = 5.0
	VirusExplodeMass    = 135.0
	VirusChildren       = 3
	VirusSpreadAngle    = math.Pi / 6
	VirusLaunchSpeed    = 12.0
	VirusFriction       = 0.92
	VirusBurstPieces    = 7
	VirusBurstMinMass   = 17.5 // smallest piece a virus explosion may produce
	VirusBurstSpeedMin  = 10.0
	VirusBurstSpeedMax  = 20.0
	MaxViruses          = 200 // an explosion spawns all of its children or none past this

	SafeZoneMaxRadius = 3200.0 // covers the whole 4500x4500 world from its center
	SafeZoneMinRadius = 300.0
	ZoneBaseDecay     = 0.01 // per second, floor for the tier rate outside the zone
	ZonePenalty       = 6.0
)

// decayTiers maps a minimum mass to a per-second fractional decay rate.
// Tiers must stay sorted by MinMass.
var decayTiers = []struct {
	MinMass float64
	Rate    float64
}{
	{0, 0},
	{100, 0.002},
	{500, 0.005},
	{2000, 0.01},
	{5000, 0.02},
}

// RadiusForMass is the only way a radius is produced for cells, bots and viruses.
func RadiusForMass(mass float64) float64 {
	return BaseRadius + math.Sqrt(mass)*RadiusScale
}

func FoodRadius(mass float64) float64 {
	return FoodBaseRadius + math.Sqrt(mass)*FoodScale
}

// SpeedForMass is monotonically decreasing in mass and never below MinSpeed.
func SpeedForMass(mass float64) float64 {
	if mass <= 0 {
		return BaseSpeed
	}
	return math.Max(MinSpeed, BaseSpeed*math.Pow(mass, -SpeedExponent))
}

// DecayRate returns the per-second decay fraction for a body of the given mass.
func DecayRate(mass float64, outsideZone bool) float64 {
	rate := 0.0
	for _, t := range decayTiers {
		if mass >= t.MinMass {
			rate = t.Rate
		}
	}
	if outsideZone {
		rate = math.Max(rate, ZoneBaseDecay) * ZonePenalty
	}
	return rate
}
