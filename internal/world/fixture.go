// Package world generates the static plaza scenery: trees, rocks, bushes and
// houses. The fixture is built once at startup and never mutated afterwards;
// every connection receives the same snapshot.
package world

import (
	"math/rand"

	"pixel-plaza/internal/config"
)

// Object is a decorative static object (tree, rock or bush).
type Object struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// MiniGame describes the arcade embedded in a house.
type MiniGame struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// House is a static interactive structure. A house may carry an embedded
// arcade mini-game; most are plain scenery.
type House struct {
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	Size float64   `json:"size"`
	Game *MiniGame `json:"game,omitempty"`
}

// Fixture is the complete static world layout. Treat as read-only after
// Generate returns; it is shared by every connection without copying.
type Fixture struct {
	Trees  []Object `json:"trees"`
	Rocks  []Object `json:"rocks"`
	Bushes []Object `json:"bushes"`
	Houses []House  `json:"houses"`
}

// Size ranges per category: base + rand*spread.
const (
	treeSizeBase    = 50
	treeSizeSpread  = 30
	rockSizeBase    = 25
	rockSizeSpread  = 20
	bushSizeBase    = 30
	bushSizeSpread  = 15
	houseSizeBase   = 70
	houseSizeSpread = 20
)

// ArcadeGame is the mini-game hosted by the anchor house.
var ArcadeGame = MiniGame{Name: "Pixel Jumper", Type: "platformer"}

// Generate builds the fixture from the world configuration. Positions are
// uniform within the configured insets so nothing spawns flush against a
// boundary. The first house is anchored at the world center and hosts the
// arcade, so players can always find it; the rest are placed randomly.
func Generate(cfg config.WorldConfig, rng *rand.Rand) *Fixture {
	f := &Fixture{
		Trees:  make([]Object, 0, cfg.Trees),
		Rocks:  make([]Object, 0, cfg.Rocks),
		Bushes: make([]Object, 0, cfg.Bushes),
		Houses: make([]House, 0, cfg.Houses),
	}

	for i := 0; i < cfg.Trees; i++ {
		x, y := randomPoint(cfg, cfg.ObjectInset, rng)
		f.Trees = append(f.Trees, Object{X: x, Y: y, Size: rng.Float64()*treeSizeSpread + treeSizeBase})
	}
	for i := 0; i < cfg.Rocks; i++ {
		x, y := randomPoint(cfg, cfg.ObjectInset, rng)
		f.Rocks = append(f.Rocks, Object{X: x, Y: y, Size: rng.Float64()*rockSizeSpread + rockSizeBase})
	}
	for i := 0; i < cfg.Bushes; i++ {
		x, y := randomPoint(cfg, cfg.ObjectInset, rng)
		f.Bushes = append(f.Bushes, Object{X: x, Y: y, Size: rng.Float64()*bushSizeSpread + bushSizeBase})
	}

	for i := 0; i < cfg.Houses; i++ {
		if i == 0 {
			// Anchor house: fixed position, hosts the arcade.
			game := ArcadeGame
			f.Houses = append(f.Houses, House{
				X:    cfg.Width / 2,
				Y:    cfg.Height / 2,
				Size: houseSizeBase + houseSizeSpread,
				Game: &game,
			})
			continue
		}
		x, y := randomPoint(cfg, cfg.HouseInset, rng)
		f.Houses = append(f.Houses, House{X: x, Y: y, Size: rng.Float64()*houseSizeSpread + houseSizeBase})
	}

	return f
}

// Snapshot returns the full fixture. The returned value is shared and must
// not be modified; generation happens exactly once so repeated calls always
// observe identical data.
func (f *Fixture) Snapshot() *Fixture {
	return f
}

// Count returns the total number of static objects.
func (f *Fixture) Count() int {
	return len(f.Trees) + len(f.Rocks) + len(f.Bushes) + len(f.Houses)
}

func randomPoint(cfg config.WorldConfig, inset float64, rng *rand.Rand) (float64, float64) {
	x := rng.Float64()*(cfg.Width-2*inset) + inset
	y := rng.Float64()*(cfg.Height-2*inset) + inset
	return x, y
}
