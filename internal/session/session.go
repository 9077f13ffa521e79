package session

import (
	"encoding/json"
	"math/rand"
	"time"

	"pixel-plaza/internal/config"
	"pixel-plaza/internal/world"
)

// Engine is the session/state synchronization core. Every inbound event maps
// to one transition method that mutates the registry or leaderboard and
// returns the outbound events to fan out. Transitions are pure with respect
// to the transport: the hub owns delivery, the engine owns state.
//
// The hub calls Dispatch and HandleDisconnect from a single goroutine, so a
// transition always runs to completion before the next one starts.
type Engine struct {
	registry    *Registry
	leaderboard *Leaderboard
	fixture     *world.Fixture
	worldCfg    config.WorldConfig

	rng *rand.Rand
	now func() time.Time

	eventLog *EventLog // optional, nil when disabled

	handlers map[string]func(connID string, data json.RawMessage) []Outbound
}

// NewEngine creates a session engine over a generated world fixture.
func NewEngine(worldCfg config.WorldConfig, sessCfg config.SessionConfig, fixture *world.Fixture, rng *rand.Rand) *Engine {
	e := &Engine{
		registry:    NewRegistry(),
		leaderboard: NewLeaderboard(sessCfg.LeaderboardSize),
		fixture:     fixture,
		worldCfg:    worldCfg,
		rng:         rng,
		now:         time.Now,
	}
	e.handlers = map[string]func(string, json.RawMessage) []Outbound{
		EventJoin:            e.handleJoin,
		EventGetWorldObjects: e.handleGetWorldObjects,
		EventMove:            e.handleMove,
		EventChat:            e.handleChat,
		EventPlatformerScore: e.handleScore,
		EventGetLeaderboard:  e.handleGetLeaderboard,
	}
	return e
}

// SetEventLog attaches a session event log. Pass nil to disable.
func (e *Engine) SetEventLog(el *EventLog) {
	e.eventLog = el
}

// SetClock overrides the timestamp source. Tests use this for deterministic
// chat timestamps.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Dispatch routes one inbound event to its transition. Unknown events and
// malformed payloads degrade to no-ops; the protocol never fails a
// connection over a bad message.
func (e *Engine) Dispatch(connID, event string, data json.RawMessage) []Outbound {
	h, ok := e.handlers[event]
	if !ok {
		return nil
	}
	return h(connID, data)
}

// handleJoin creates the participant and produces the init snapshot for the
// joiner plus the join notification for everyone else. A duplicate join on
// an already-registered connection is silently ignored; the first join's
// name, color and spawn stand.
func (e *Engine) handleJoin(connID string, data json.RawMessage) []Outbound {
	var req JoinRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil
	}

	p := &Participant{
		ID:    connID,
		Name:  req.Name,
		Color: pickColor(req.Color, e.rng),
	}
	p.X, p.Y = e.spawnPosition()

	if !e.registry.Add(p) {
		return nil
	}

	e.logEvent(LogPlayerJoin, connID, joinLogPayload{Name: p.Name, X: p.X, Y: p.Y, Color: p.Color})

	// Init must precede the playerJoined broadcast: the joiner's local view
	// has to be consistent before peers learn about the join.
	return []Outbound{
		{Event: EventInit, Audience: AudienceSelf, Data: InitData{ID: connID, Players: e.registry.Snapshot()}},
		{Event: EventPlayerJoined, Audience: AudienceOthers, Data: *p},
	}
}

func (e *Engine) handleGetWorldObjects(connID string, _ json.RawMessage) []Outbound {
	return []Outbound{
		{Event: EventWorldObjects, Audience: AudienceSelf, Data: e.fixture.Snapshot()},
	}
}

// handleMove overwrites the sender's position unconditionally; movement
// legality is the client's responsibility. The update is not echoed back,
// the mover already holds the authoritative local position.
func (e *Engine) handleMove(connID string, data json.RawMessage) []Outbound {
	var req MoveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil
	}

	if !e.registry.UpdatePosition(connID, req.X, req.Y) {
		return nil
	}

	return []Outbound{
		{Event: EventPlayerMoved, Audience: AudienceOthers, Data: MoveData{ID: connID, X: req.X, Y: req.Y}},
	}
}

// handleChat broadcasts to everyone including the sender, so all clients
// order messages by the same server timestamp.
func (e *Engine) handleChat(connID string, data json.RawMessage) []Outbound {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return nil
	}

	p := e.registry.Get(connID)
	if p == nil {
		return nil
	}

	e.logEvent(LogChat, connID, chatLogPayload{Name: p.Name, Length: len(text)})

	return []Outbound{
		{Event: EventChatMessage, Audience: AudienceAll, Data: ChatData{
			SenderID:  connID,
			Name:      p.Name,
			Text:      text,
			Timestamp: e.now().UnixMilli(),
		}},
	}
}

// handleScore records an arcade run and pushes the fresh top list to every
// connection, so displayed leaderboards stay current without polling.
func (e *Engine) handleScore(connID string, data json.RawMessage) []Outbound {
	var req ScoreRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil
	}

	top := e.leaderboard.Submit(LeaderboardEntry{
		Name:        req.Name,
		Score:       req.Score,
		Time:        req.Time,
		SubmittedAt: e.now().UnixMilli(),
	})

	e.logEvent(LogScore, connID, scoreLogPayload{Name: req.Name, Score: req.Score, Time: req.Time})

	return []Outbound{
		{Event: EventLeaderboard, Audience: AudienceAll, Data: top},
	}
}

func (e *Engine) handleGetLeaderboard(connID string, _ json.RawMessage) []Outbound {
	return []Outbound{
		{Event: EventLeaderboard, Audience: AudienceSelf, Data: e.leaderboard.Top()},
	}
}

// HandleDisconnect removes the participant and notifies the remaining
// connections. Idempotent: a second call for the same id is a no-op.
func (e *Engine) HandleDisconnect(connID string) []Outbound {
	p := e.registry.Remove(connID)
	if p == nil {
		return nil
	}

	e.logEvent(LogPlayerLeave, connID, leaveLogPayload{Name: p.Name})

	return []Outbound{
		{Event: EventPlayerLeft, Audience: AudienceOthers, Data: LeaveData{ID: connID}},
	}
}

// spawnPosition picks a uniform position inside the spawn margin.
func (e *Engine) spawnPosition() (float64, float64) {
	x := e.rng.Float64()*(e.worldCfg.Width-2*e.worldCfg.SpawnMargin) + e.worldCfg.SpawnMargin
	y := e.rng.Float64()*(e.worldCfg.Height-2*e.worldCfg.SpawnMargin) + e.worldCfg.SpawnMargin
	return x, y
}

func (e *Engine) logEvent(t LogEventType, connID string, payload any) {
	if e.eventLog != nil {
		e.eventLog.EmitSimple(t, connID, payload)
	}
}

// Read-only views for the REST handlers. All return value copies taken
// under the registry lock, so they are safe from any goroutine.

// Participants returns all joined participants.
func (e *Engine) Participants() []Participant {
	return e.registry.List()
}

// ParticipantCount returns the number of joined participants.
func (e *Engine) ParticipantCount() int {
	return e.registry.Len()
}

// TopScores returns the current arcade leaderboard.
func (e *Engine) TopScores() []LeaderboardEntry {
	return e.leaderboard.Top()
}

// WorldSnapshot returns the static world fixture.
func (e *Engine) WorldSnapshot() *world.Fixture {
	return e.fixture.Snapshot()
}
