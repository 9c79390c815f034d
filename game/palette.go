package game

import (
	"fmt"
	"math"

	perlin "github.com/aquilax/go-perlin"
)

const paletteScale = 600.0 // world units per noise period

// Palette colors food from a smooth noise field so neighbouring pellets share hues.
type Palette struct {
	noise *perlin.Perlin
}

func NewPalette(seed int64) *Palette {
	return &Palette{noise: perlin.NewPerlin(2, 2, 3, seed)}
}

func (p *Palette) FoodColor(x, y float64) string {
	n := p.noise.Noise2D(x/paletteScale, y/paletteScale) // roughly -1..1
	hue := math.Mod((n+1)*180+360, 360)
	return fmt.Sprintf("hsl(%d, 100%%, 70%%)", int(hue))
}

// PlayerColor samples the noise field along one axis, so u in [0,1) picks a
// saturated hue that stays stable for a given seed.
func (p *Palette) PlayerColor(u float64) string {
	n := p.noise.Noise1D(u * 8) // roughly -1..1
	hue := math.Mod((n+1)*180+u*360+360, 360)
	return fmt.Sprintf("hsl(%d, 100%%, 50%%)", int(hue))
}
