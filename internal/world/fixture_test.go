package world

import (
	"math/rand"
	"reflect"
	"testing"

	"pixel-plaza/internal/config"
)

// TestGenerateCounts tests that the fixture honors the configured counts
func TestGenerateCounts(t *testing.T) {
	cfg := config.DefaultWorld()
	f := Generate(cfg, rand.New(rand.NewSource(1)))

	if len(f.Trees) != cfg.Trees {
		t.Errorf("Expected %d trees, got %d", cfg.Trees, len(f.Trees))
	}
	if len(f.Rocks) != cfg.Rocks {
		t.Errorf("Expected %d rocks, got %d", cfg.Rocks, len(f.Rocks))
	}
	if len(f.Bushes) != cfg.Bushes {
		t.Errorf("Expected %d bushes, got %d", cfg.Bushes, len(f.Bushes))
	}
	if len(f.Houses) != cfg.Houses {
		t.Errorf("Expected %d houses, got %d", cfg.Houses, len(f.Houses))
	}
	if f.Count() != cfg.Trees+cfg.Rocks+cfg.Bushes+cfg.Houses {
		t.Errorf("Count() mismatch: got %d", f.Count())
	}
}

// TestGenerateInsets tests that nothing spawns flush against a boundary
func TestGenerateInsets(t *testing.T) {
	cfg := config.DefaultWorld()
	f := Generate(cfg, rand.New(rand.NewSource(2)))

	checkInset := func(kind string, x, y, inset float64) {
		if x < inset || x > cfg.Width-inset {
			t.Errorf("%s x=%f outside inset %f", kind, x, inset)
		}
		if y < inset || y > cfg.Height-inset {
			t.Errorf("%s y=%f outside inset %f", kind, y, inset)
		}
	}

	for _, o := range f.Trees {
		checkInset("tree", o.X, o.Y, cfg.ObjectInset)
	}
	for _, o := range f.Rocks {
		checkInset("rock", o.X, o.Y, cfg.ObjectInset)
	}
	for _, o := range f.Bushes {
		checkInset("bush", o.X, o.Y, cfg.ObjectInset)
	}
	for _, h := range f.Houses[1:] {
		checkInset("house", h.X, h.Y, cfg.HouseInset)
	}
}

// TestGenerateSizeRanges tests per-category size ranges
func TestGenerateSizeRanges(t *testing.T) {
	cfg := config.DefaultWorld()
	f := Generate(cfg, rand.New(rand.NewSource(3)))

	for _, o := range f.Trees {
		if o.Size < treeSizeBase || o.Size > treeSizeBase+treeSizeSpread {
			t.Errorf("Tree size %f out of range", o.Size)
		}
	}
	for _, o := range f.Rocks {
		if o.Size < rockSizeBase || o.Size > rockSizeBase+rockSizeSpread {
			t.Errorf("Rock size %f out of range", o.Size)
		}
	}
	for _, o := range f.Bushes {
		if o.Size < bushSizeBase || o.Size > bushSizeBase+bushSizeSpread {
			t.Errorf("Bush size %f out of range", o.Size)
		}
	}
	for _, h := range f.Houses {
		if h.Size < houseSizeBase || h.Size > houseSizeBase+houseSizeSpread {
			t.Errorf("House size %f out of range", h.Size)
		}
	}
}

// TestArcadeHouseAnchored tests that the arcade house is at a fixed spot
func TestArcadeHouseAnchored(t *testing.T) {
	cfg := config.DefaultWorld()
	f := Generate(cfg, rand.New(rand.NewSource(4)))

	anchor := f.Houses[0]
	if anchor.X != cfg.Width/2 || anchor.Y != cfg.Height/2 {
		t.Errorf("Anchor house at (%f, %f), expected world center", anchor.X, anchor.Y)
	}
	if anchor.Game == nil {
		t.Fatal("Anchor house should host the arcade")
	}
	if anchor.Game.Name != ArcadeGame.Name || anchor.Game.Type != ArcadeGame.Type {
		t.Errorf("Unexpected arcade descriptor: %+v", anchor.Game)
	}

	for _, h := range f.Houses[1:] {
		if h.Game != nil {
			t.Error("Only the anchor house should host a mini-game")
		}
	}
}

// TestSnapshotStable tests that repeated snapshots observe identical data
func TestSnapshotStable(t *testing.T) {
	f := Generate(config.DefaultWorld(), rand.New(rand.NewSource(5)))

	first := f.Snapshot()
	second := f.Snapshot()

	if first != second {
		t.Error("Snapshot should return the same fixture, not a regeneration")
	}
	if !reflect.DeepEqual(first.Trees, second.Trees) {
		t.Error("Snapshots should be identical")
	}
}

// TestZeroCounts tests that a zeroed config yields an empty but valid fixture
func TestZeroCounts(t *testing.T) {
	cfg := config.DefaultWorld()
	cfg.Trees, cfg.Rocks, cfg.Bushes, cfg.Houses = 0, 0, 0, 0

	f := Generate(cfg, rand.New(rand.NewSource(6)))
	if f.Count() != 0 {
		t.Errorf("Expected empty fixture, got %d objects", f.Count())
	}
}
