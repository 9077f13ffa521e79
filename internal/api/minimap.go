package api

import (
	"net/http"

	"github.com/fogleman/gg"

	"pixel-plaza/internal/logging"
	"pixel-plaza/internal/world"
)

// Minimap rendering. A scaled-down top-down view of the static fixture,
// useful for checking generated layouts without opening the client.

const minimapSize = 600

var (
	mapGrass  = [3]float64{0.55, 0.76, 0.29}
	mapTree   = [3]float64{0.18, 0.49, 0.20}
	mapRock   = [3]float64{0.55, 0.57, 0.55}
	mapBush   = [3]float64{0.40, 0.68, 0.30}
	mapHouse  = [3]float64{0.63, 0.39, 0.24}
	mapArcade = [3]float64{0.85, 0.23, 0.23}
)

func (h *routerHandlers) handleWorldMap(w http.ResponseWriter, r *http.Request) {
	fixture := h.state.WorldSnapshot()

	dc := renderMinimap(fixture, minimapSize)

	w.Header().Set("Content-Type", "image/png")
	if err := dc.EncodePNG(w); err != nil {
		logging.Log.Warnf("⚠️ Minimap encode error: %v", err)
	}
}

// renderMinimap draws the fixture onto a square canvas. The world is assumed
// square as well; positions scale uniformly.
// fixtureExtent finds the world extent from the fixture itself so the map
// stays correct for non-default world sizes. Every category is scanned; a
// sparse fixture still scales by whatever objects it has.
func fixtureExtent(f *world.Fixture) float64 {
	extent := 1.0
	scan := func(x, y float64) {
		if x > extent {
			extent = x
		}
		if y > extent {
			extent = y
		}
	}
	for _, o := range f.Trees {
		scan(o.X, o.Y)
	}
	for _, o := range f.Rocks {
		scan(o.X, o.Y)
	}
	for _, o := range f.Bushes {
		scan(o.X, o.Y)
	}
	for _, hs := range f.Houses {
		scan(hs.X, hs.Y)
	}
	// Objects are inset from the edge; pad back out to the boundary.
	return extent * 1.05
}

func renderMinimap(f *world.Fixture, size int) *gg.Context {
	dc := gg.NewContext(size, size)

	dc.SetRGB(mapGrass[0], mapGrass[1], mapGrass[2])
	dc.Clear()

	scale := float64(size) / fixtureExtent(f)

	for _, o := range f.Rocks {
		dc.SetRGB(mapRock[0], mapRock[1], mapRock[2])
		dc.DrawCircle(o.X*scale, o.Y*scale, o.Size*scale/2)
		dc.Fill()
	}
	for _, o := range f.Bushes {
		dc.SetRGB(mapBush[0], mapBush[1], mapBush[2])
		dc.DrawCircle(o.X*scale, o.Y*scale, o.Size*scale/2)
		dc.Fill()
	}
	for _, o := range f.Trees {
		dc.SetRGB(mapTree[0], mapTree[1], mapTree[2])
		dc.DrawCircle(o.X*scale, o.Y*scale, o.Size*scale/2)
		dc.Fill()
	}
	for _, hs := range f.Houses {
		if hs.Game != nil {
			dc.SetRGB(mapArcade[0], mapArcade[1], mapArcade[2])
		} else {
			dc.SetRGB(mapHouse[0], mapHouse[1], mapHouse[2])
		}
		side := hs.Size * scale
		dc.DrawRectangle(hs.X*scale-side/2, hs.Y*scale-side/2, side, side/1.5)
		dc.Fill()
	}

	return dc
}
