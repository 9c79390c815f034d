package game

import "math"

func dist(ax, ay, bx, by float64) float64 {
	return math.Hypot(ax-bx, ay-by)
}

// Touching reports whether two circles overlap at all.
func Touching(ax, ay, ar, bx, by, br float64) bool {
	return dist(ax, ay, bx, by) < ar+br
}

// Contains reports whether the point lies strictly inside the circle.
func Contains(cx, cy, r, px, py float64) bool {
	return dist(cx, cy, px, py) < r
}

// Dominates is the single size rule used by every predator/prey matchup.
func Dominates(predatorMass, preyMass float64) bool {
	return predatorMass > preyMass*(1+DominanceMargin)
}

// CanEat combines dominance with the eat-overlap test: the prey must be
// covered by at least EatOverlapFraction of the smaller radius.
func CanEat(predator, prey *Body) bool {
	if !Dominates(predator.mass, prey.mass) {
		return false
	}
	reach := predator.radius + prey.radius - EatOverlapFraction*math.Min(predator.radius, prey.radius)
	return dist(predator.X, predator.Y, prey.X, prey.Y) < reach
}
