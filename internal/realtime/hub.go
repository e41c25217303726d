package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aryan0dhankhar/hrportal/internal/observability/metrics"
)

// Hub tracks connected clients by room and delivers bus events to them.
type Hub struct {
	bus    Bus
	logger *slog.Logger

	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

func NewHub(bus Bus, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if bus == nil {
		bus = NewLocalBus()
	}
	return &Hub{
		bus:    bus,
		logger: logger.With(slog.String("component", "realtime")),
		rooms:  map[string]map[*client]struct{}{},
	}
}

// Start subscribes the hub to its bus until ctx ends.
func (h *Hub) Start(ctx context.Context) error {
	return h.bus.Subscribe(ctx, h.deliver)
}

// Notify publishes a named event to room. Failures are logged, never
// returned: a missed refresh must not fail the request that caused it.
func (h *Hub) Notify(ctx context.Context, room, name string, data any) {
	ev := Event{Room: room, Name: name}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			h.logger.Warn("encode realtime payload", slog.String("event", name), slog.String("error", err.Error()))
			return
		}
		ev.Data = raw
	}
	if err := h.bus.Publish(ctx, ev); err != nil {
		h.logger.Warn("publish realtime event",
			slog.String("room", room),
			slog.String("event", name),
			slog.String("error", err.Error()),
		)
		return
	}
	metrics.ObserveRealtimeEvent(name)
}

// Connections reports how many clients are in room.
func (h *Hub) Connections(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) join(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range c.rooms {
		members, ok := h.rooms[room]
		if !ok {
			members = map[*client]struct{}{}
			h.rooms[room] = members
		}
		members[c] = struct{}{}
	}
	metrics.RealtimeConnected(1)
}

func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range c.rooms {
		delete(h.rooms[room], c)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	metrics.RealtimeConnected(-1)
}

func (h *Hub) deliver(ev Event) {
	msg, err := json.Marshal(frame{Event: ev.Name, Data: ev.Data})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[ev.Room] {
		select {
		case c.send <- msg:
		default:
			h.logger.Debug("client send buffer full, dropping event",
				slog.String("room", ev.Room),
				slog.String("event", ev.Name),
			)
		}
	}
}
