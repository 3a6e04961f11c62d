package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"log/slog"
	"nhooyr.io/websocket"

	"github.com/wachuleru/backPesanding/pkg/metrics"
)

// Hub owns the room registry and runs one session loop per websocket
// connection.
type Hub struct {
	log *slog.Logger
	reg *Registry
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{log: logger, reg: NewRegistry(logger)}
}

// Registry exposes the hub's room registry.
func (h *Hub) Registry() *Registry { return h.reg }

// ServeWS handles a new /ws connection addressed by ?room= and ?user=.
// Missing either parameter gets a single error frame, then the
// connection closes without a session.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roomID := r.URL.Query().Get("room")
	requested := r.URL.Query().Get("user")

	sock, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	if roomID == "" || requested == "" {
		raw, _ := json.Marshal(errorEvent{Type: "error", Msg: "missing room or user"})
		_ = sock.Write(ctx, websocket.MessageText, raw)
		_ = sock.Close(websocket.StatusPolicyViolation, "missing room or user")
		return
	}

	c := NewConn(sock)
	go c.WriteLoop(ctx)
	metrics.ConnectionsActive.Inc()
	defer metrics.ConnectionsActive.Dec()

	// Retry on the rare race where the room is removed between lookup
	// and join.
	var (
		rm   *Room
		name string
		snap RoomSnapshot
	)
	for {
		rm = h.reg.GetOrCreate(roomID)
		var ok bool
		if name, snap, ok = rm.Join(requested, c); ok {
			break
		}
	}
	h.log.Info("ws.join", "room", roomID, "user", name)
	rm.Broadcast(joinedEvent{Type: "joined", User: name, State: snap})

	h.session(ctx, rm, name, c)

	// Part runs the same way for graceful and abrupt closes.
	snap, remaining := rm.Leave(name)
	if remaining == 0 {
		h.reg.RemoveIfEmpty(roomID)
	} else {
		rm.Broadcast(leftEvent{Type: "left", User: name, State: snap})
	}
	h.log.Info("ws.leave", "room", roomID, "user", name, "remaining", remaining)
	_ = c.Close()
}

// session consumes inbound frames until the transport closes. Malformed
// payloads and unknown types are dropped without ending the session.
func (h *Hub) session(ctx context.Context, rm *Room, name string, c *Conn) {
	for {
		raw, ok := c.Read(ctx)
		if !ok {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "set_title":
			metrics.Messages.WithLabelValues(msg.Type).Inc()
			snap := rm.SetTitle(msg.Title)
			rm.Broadcast(titleSetEvent{Type: "title_set", Title: msg.Title, State: snap})

		case "vote":
			metrics.Messages.WithLabelValues(msg.Type).Inc()
			snap := rm.SetVote(name, msg.Value)
			rm.Broadcast(voteEvent{Type: "vote", User: name, Value: msg.Value, State: snap})

		case "reset":
			metrics.Messages.WithLabelValues(msg.Type).Inc()
			rm.Broadcast(resetEvent{Type: "reset", State: rm.Reset()})

		case "request_state":
			// Read-only, answered to the requester alone.
			metrics.Messages.WithLabelValues(msg.Type).Inc()
			reply, _ := json.Marshal(stateEvent{Type: "state", State: rm.Snapshot()})
			if !c.Send(reply) {
				h.log.Debug("unicast.drop", "room", rm.id, "user", name)
			}
		}
	}
}
