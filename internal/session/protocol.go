package session

// Wire event names. Inbound names come from the browser client, outbound
// names are what it listens for; both sets are part of the public protocol.
const (
	// Inbound (client -> server)
	EventJoin            = "join"
	EventGetWorldObjects = "getWorldObjects"
	EventMove            = "move"
	EventChat            = "chat"
	EventPlatformerScore = "platformerScore"
	EventGetLeaderboard  = "getPlatformerLeaderboard"

	// Outbound (server -> client)
	EventInit         = "init"
	EventWorldObjects = "worldObjects"
	EventPlayerJoined = "playerJoined"
	EventPlayerMoved  = "playerMoved"
	EventPlayerLeft   = "playerLeft"
	EventChatMessage  = "chatMessage"
	EventLeaderboard  = "platformerLeaderboard"
)

// Audience selects the fan-out set for an outbound event.
type Audience int

const (
	// AudienceSelf delivers to the originating connection only.
	AudienceSelf Audience = iota
	// AudienceOthers delivers to every active connection except the origin.
	AudienceOthers
	// AudienceAll delivers to every active connection, origin included.
	AudienceAll
)

// String returns the audience tag name, mainly for metrics labels.
func (a Audience) String() string {
	switch a {
	case AudienceSelf:
		return "self"
	case AudienceOthers:
		return "others"
	case AudienceAll:
		return "all"
	default:
		return "unknown"
	}
}

// Outbound is one event produced by a protocol transition, tagged with the
// audience it must reach. The transport delivers outbounds in slice order,
// which is what guarantees a joiner sees its init snapshot before anyone
// else learns about the join.
type Outbound struct {
	Event    string
	Audience Audience
	Data     any
}

// Inbound payloads.

// JoinRequest is the payload of a join event.
type JoinRequest struct {
	Name  string `json:"username"`
	Color string `json:"color,omitempty"`
}

// MoveRequest is the payload of a move event.
type MoveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScoreRequest is the payload of a platformerScore event.
type ScoreRequest struct {
	Name      string `json:"playerName"`
	Score     int    `json:"score"`
	Time      int    `json:"time"`
	Timestamp int64  `json:"timestamp"`
}

// Outbound payloads.

// InitData is the initialization snapshot sent to a joiner: its own
// connection id plus the full current registry (itself included). Players
// are value copies so the snapshot is stable once produced.
type InitData struct {
	ID      string                 `json:"id"`
	Players map[string]Participant `json:"players"`
}

// MoveData notifies peers of a position update.
type MoveData struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// LeaveData notifies peers of a departure.
type LeaveData struct {
	ID string `json:"id"`
}

// ChatData carries a chat message with the server-assigned timestamp. It is
// echoed to the sender too, so everyone orders messages identically.
type ChatData struct {
	SenderID  string `json:"id"`
	Name      string `json:"username"`
	Text      string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix millis
}
