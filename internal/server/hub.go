package server

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

// Hub is the room registry: it creates rooms and hands out live ones.
// A room with no clients keeps its state for reconnects; only
// RemoveRoom takes it away.
type Hub struct {
	logger   *zap.Logger
	recorder *table.Recorder

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewHub creates an empty hub. The recorder may be nil when journaling
// is disabled.
func NewHub(recorder *table.Recorder, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:   logger,
		recorder: recorder,
		rooms:    make(map[string]*Room),
	}
}

// CreateRoom registers a new room around the given initial state.
func (h *Hub) CreateRoom(id string, initial *table.Store) (*Room, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("room id is required")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.rooms[id]; exists {
		return nil, fmt.Errorf("room %s already exists", id)
	}
	room := NewRoom(id, initial, h.recorder, h.logger)
	h.rooms[id] = room

	h.logger.Info("room created",
		zap.String("room_id", id),
		zap.Int("objects", len(room.State().Objects)),
	)
	return room, nil
}

// Room returns the live room with the given id.
func (h *Hub) Room(id string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[id]
	return room, ok
}

// GetOrCreateRoom returns the room, creating an empty one on demand.
func (h *Hub) GetOrCreateRoom(id string) *Room {
	if room, ok := h.Room(id); ok {
		return room
	}
	room, err := h.CreateRoom(id, nil)
	if err != nil {
		// Lost the create race; the winner's room is the one to use.
		if existing, ok := h.Room(id); ok {
			return existing
		}
	}
	return room
}

// RemoveRoom drops the room and its journal. Connected clients keep
// their store pointer until their connections die.
func (h *Hub) RemoveRoom(id string) {
	h.mu.Lock()
	room, ok := h.rooms[id]
	if ok {
		delete(h.rooms, id)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	h.recorder.Drop(id)
	h.logger.Info("room removed",
		zap.String("room_id", id),
		zap.Int("clients", room.ClientCount()),
	)
}

// RoomIDs returns the live room ids, sorted.
func (h *Hub) RoomIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.rooms))
	for id := range h.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RoomCount returns the number of live rooms.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}
