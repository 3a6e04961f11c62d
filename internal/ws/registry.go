package ws

import (
	"log/slog"
	"sync"

	"github.com/wachuleru/backPesanding/pkg/metrics"
)

// Registry maps room IDs to live rooms. Its mutex guards only the map
// itself; each room serializes its own state. When both locks are
// needed the registry's is taken first.
type Registry struct {
	log *slog.Logger

	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{log: log, rooms: map[string]*Room{}}
}

// GetOrCreate returns the room for id, creating it empty on first
// reference.
func (g *Registry) GetOrCreate(id string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm := g.rooms[id]
	if rm == nil {
		rm = newRoom(id, g.log)
		g.rooms[id] = rm
		metrics.RoomsActive.Inc()
		g.log.Info("room.created", "room", id)
	}
	return rm
}

// RemoveIfEmpty drops the room once its last user is gone, discarding
// title and history. Emptiness is re-checked under both locks so a join
// racing the last leave keeps its room.
func (g *Registry) RemoveIfEmpty(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm := g.rooms[id]
	if rm == nil || !rm.closeIfEmpty() {
		return false
	}
	delete(g.rooms, id)
	metrics.RoomsActive.Dec()
	g.log.Info("room.destroyed", "room", id)
	return true
}

// Lookup returns the live room for id, or nil.
func (g *Registry) Lookup(id string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rooms[id]
}
