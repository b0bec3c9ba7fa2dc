package events

import (
	"time"

	"github.com/tablero-dev/tablero/internal/types"
)

// ProtocolVersion is bumped when the wire format changes incompatibly
const ProtocolVersion = 1

// EventType indicates what kind of change occurred
type EventType string

const (
	EventEdgeAdded     EventType = "edge_added"
	EventEdgeRemoved   EventType = "edge_removed"
	EventCardCommitted EventType = "card_committed"
	EventPing          EventType = "ping"
	EventPong          EventType = "pong"
)

// Event represents one accepted mutation on a board. Delivery is
// fire-and-forget with at-least-once semantics downstream; subscribers
// deduplicate via SequenceID.
type Event struct {
	Type       EventType
	BoardID    types.BoardID // which board was modified
	CardID     types.CardID  // card committed, or edge source for edge events
	TargetID   types.CardID  `json:",omitempty"` // edge target, edge events only
	Kind       string        `json:",omitempty"` // relationship kind, edge events only
	Version    types.Version `json:",omitempty"` // new version, card_committed only
	Actor      types.ActorID `json:",omitempty"`
	Timestamp  time.Time     // when the event occurred
	SequenceID int64         // monotonically increasing sequence number for ordering
}

// SubscribeMessage is sent by clients to subscribe to specific board updates
type SubscribeMessage struct {
	BoardID types.BoardID // 0 = all boards, >0 = specific board
}

// Message wraps events and control messages for the wire protocol
type Message struct {
	Version   int               `json:",omitempty"` // protocol version
	Type      string            // "event", "subscribe", "ping", "pong"
	Event     *Event            `json:",omitempty"`
	Subscribe *SubscribeMessage `json:",omitempty"`
}
