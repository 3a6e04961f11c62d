package ws

// clientMessage is the inbound envelope. Type selects the action; the
// remaining fields are read only by the types that use them.
type clientMessage struct {
	Type  string  `json:"type"`
	Title *string `json:"title"`
	Value any     `json:"value"`
}

// Outbound events, one struct per type so every field the protocol
// requires is present even when null.

type errorEvent struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

type joinedEvent struct {
	Type  string       `json:"type"`
	User  string       `json:"user"`
	State RoomSnapshot `json:"state"`
}

type leftEvent struct {
	Type  string       `json:"type"`
	User  string       `json:"user"`
	State RoomSnapshot `json:"state"`
}

type titleSetEvent struct {
	Type  string       `json:"type"`
	Title *string      `json:"title"`
	State RoomSnapshot `json:"state"`
}

type voteEvent struct {
	Type  string       `json:"type"`
	User  string       `json:"user"`
	Value any          `json:"value"`
	State RoomSnapshot `json:"state"`
}

type resetEvent struct {
	Type  string       `json:"type"`
	State RoomSnapshot `json:"state"`
}

type stateEvent struct {
	Type  string       `json:"type"`
	State RoomSnapshot `json:"state"`
}
