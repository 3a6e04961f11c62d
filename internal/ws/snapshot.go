package ws

import (
	"fmt"
	"strconv"
)

// available is the deck offered to every room.
var available = []int{1, 2, 3, 5, 8, 13, 21, 34}

const (
	// pendingKey counts users that have not voted this round.
	pendingKey = "pending"
	// noTitle is recorded in history when a round is reset without a title.
	noTitle = "no title"
)

// RoomSnapshot is the externally visible projection of a room, recomputed
// on every mutation and carried on every state-bearing event.
type RoomSnapshot struct {
	Users     map[string]UserView `json:"users"`
	Available []int               `json:"available"`
	Counts    map[string]int      `json:"counts"`
	Title     *string             `json:"title"`
	History   []HistoryEntry      `json:"history"`
}

// UserView is a user's slice of the snapshot. Vote is null until cast.
type UserView struct {
	Vote any `json:"vote"`
}

// HistoryEntry records one completed round: its title (or the no-title
// sentinel) and the tally at reset time. Immutable once appended.
type HistoryEntry struct {
	Title   string         `json:"title"`
	Results map[string]int `json:"results"`
}

// EmptySnapshot is what an absent (or just-destroyed) room projects to.
func EmptySnapshot() RoomSnapshot {
	return RoomSnapshot{
		Users:     map[string]UserView{},
		Available: available,
		Counts:    map[string]int{pendingKey: 0},
		History:   []HistoryEntry{},
	}
}

// voteKey canonicalizes a client-supplied vote value into a counts key.
// JSON numbers decode as float64; integral ones print without a decimal
// point so a vote of 5 tallies under "5".
func voteKey(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
