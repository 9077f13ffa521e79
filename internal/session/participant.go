// Package session implements the authoritative presence state: the registry
// of connected participants, the protocol transitions that mutate it, and the
// arcade leaderboard. All mutations happen from a single goroutine (the hub
// run loop); the registry lock covers both map and field writes so the REST
// read views can take coherent value snapshots from other goroutines.
package session

import "math/rand"

// Participant is the server's authoritative record of one joined player.
// The ID equals the underlying connection identity and is stable for the
// connection's lifetime. Color is immutable after join; position is updated
// only by that participant's own move events.
type Participant struct {
	ID    string  `json:"id"`
	Name  string  `json:"username"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// palette matches the original client's cosmetic colors.
var palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E2",
}

// pickColor returns the requested color, or a random palette color when the
// client left the choice to the server.
func pickColor(requested string, rng *rand.Rand) string {
	if requested != "" {
		return requested
	}
	return palette[rng.Intn(len(palette))]
}
