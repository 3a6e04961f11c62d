package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// User is one participant's entry in a room. The conn is owned by the
// session that created it; the room only fans out through it.
type User struct {
	vote any
	conn *Conn
}

// Room holds one voting session. users, title, and history are guarded
// by mu; every mutation holds it for the full read-modify-write and
// computes the returned snapshot before releasing, so broadcast payloads
// are never torn.
type Room struct {
	id  string
	log *slog.Logger

	mu      sync.Mutex
	users   map[string]*User
	title   *string
	history []HistoryEntry
	closed  bool // set by the registry once removed; joins must retry
}

func newRoom(id string, log *slog.Logger) *Room {
	return &Room{id: id, log: log, users: map[string]*User{}}
}

// Join inserts the connection under requestedName, suffixing a random
// disambiguator if the name is taken. A colliding join is never
// rejected. Returns the effective name and the post-join snapshot;
// ok is false when the room was already removed and the caller must
// look it up again.
func (r *Room) Join(requestedName string, c *Conn) (string, RoomSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", RoomSnapshot{}, false
	}

	name := requestedName
	for {
		if _, taken := r.users[name]; !taken {
			break
		}
		name = requestedName + "_" + uuid.NewString()[:4]
	}
	r.users[name] = &User{conn: c}
	return name, r.snapshotLocked(), true
}

// Leave removes the user and reports how many remain alongside the
// post-leave snapshot.
func (r *Room) Leave(name string) (RoomSnapshot, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, name)
	return r.snapshotLocked(), len(r.users)
}

// SetTitle replaces the current round's title (nil clears it).
func (r *Room) SetTitle(title *string) RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.title = title
	return r.snapshotLocked()
}

// SetVote records name's vote for the current round, overwriting any
// prior one. The value is tallied verbatim, not validated.
func (r *Room) SetVote(name string, value any) RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[name]; ok {
		u.vote = value
	}
	return r.snapshotLocked()
}

// Reset archives the current round into history (title falls back to
// the no-title sentinel), then clears every vote and the title.
func (r *Room) Reset() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	title := noTitle
	if r.title != nil {
		title = *r.title
	}
	r.history = append(r.history, HistoryEntry{Title: title, Results: r.countsLocked()})

	for _, u := range r.users {
		u.vote = nil
	}
	r.title = nil
	return r.snapshotLocked()
}

// Snapshot projects the room's current state.
func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// closeIfEmpty marks the room dead when no users remain, so a stale
// pointer held by a racing join can no longer be used.
func (r *Room) closeIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.users) > 0 {
		return false
	}
	r.closed = true
	return true
}

func (r *Room) countsLocked() map[string]int {
	counts := map[string]int{pendingKey: 0}
	for _, u := range r.users {
		if u.vote == nil {
			counts[pendingKey]++
			continue
		}
		counts[voteKey(u.vote)]++
	}
	return counts
}

func (r *Room) snapshotLocked() RoomSnapshot {
	users := make(map[string]UserView, len(r.users))
	for name, u := range r.users {
		users[name] = UserView{Vote: u.vote}
	}
	history := make([]HistoryEntry, len(r.history))
	copy(history, r.history)

	return RoomSnapshot{
		Users:     users,
		Available: available,
		Counts:    r.countsLocked(),
		Title:     r.title,
		History:   history,
	}
}

// Broadcast marshals the event once and fans it out to every member.
// A peer whose buffer is full just misses this delivery; its own read
// loop will clean it up shortly, so one bad peer never aborts the rest.
func (r *Room) Broadcast(event any) {
	raw, err := json.Marshal(event)
	if err != nil {
		r.log.Error("broadcast.marshal", "room", r.id, "err", err)
		return
	}

	r.mu.Lock()
	type member struct {
		name string
		conn *Conn
	}
	members := make([]member, 0, len(r.users))
	for name, u := range r.users {
		members = append(members, member{name, u.conn})
	}
	r.mu.Unlock()

	for _, m := range members {
		if !m.conn.Send(raw) {
			r.log.Debug("broadcast.drop", "room", r.id, "user", m.name)
		}
	}
}
