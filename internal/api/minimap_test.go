package api

import (
	"testing"

	"pixel-plaza/internal/world"
)

// TestFixtureExtentScansAllCategories tests that rock/bush-only fixtures
// still scale by their real positions instead of the degenerate unit extent
func TestFixtureExtentScansAllCategories(t *testing.T) {
	f := &world.Fixture{
		Rocks:  []world.Object{{X: 2900, Y: 1500, Size: 30}},
		Bushes: []world.Object{{X: 1200, Y: 2700, Size: 30}},
	}

	extent := fixtureExtent(f)
	if extent < 2900 {
		t.Errorf("Extent should cover the farthest rock, got %f", extent)
	}
}

// TestFixtureExtentEmpty tests the empty-fixture fallback
func TestFixtureExtentEmpty(t *testing.T) {
	if extent := fixtureExtent(&world.Fixture{}); extent <= 0 {
		t.Errorf("Empty fixture must still yield a positive extent, got %f", extent)
	}
}

// TestRenderMinimapSparseFixture tests rendering a fixture with no trees or
// houses
func TestRenderMinimapSparseFixture(t *testing.T) {
	f := &world.Fixture{
		Rocks: []world.Object{{X: 2900, Y: 2900, Size: 30}},
	}

	dc := renderMinimap(f, 100)
	if dc.Width() != 100 || dc.Height() != 100 {
		t.Errorf("Expected 100x100 canvas, got %dx%d", dc.Width(), dc.Height())
	}
}
