package server

import (
	"encoding/json"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

// Room owns one table session: the authoritative store, the connected
// clients, and the journal recorder. Apply is the room's single write
// path; everything a client receives is either the join snapshot or a
// verbatim re-broadcast of an applied action.
type Room struct {
	ID string

	mu      sync.RWMutex
	state   *table.Store
	clients map[*Client]bool

	recorder *table.Recorder
	logger   *zap.Logger
}

// NewRoom wraps an initial store; nil means an empty table.
func NewRoom(id string, initial *table.Store, recorder *table.Recorder, logger *zap.Logger) *Room {
	if initial == nil {
		initial = table.NewStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Room{
		ID:       id,
		state:    initial,
		clients:  make(map[*Client]bool),
		recorder: recorder,
		logger:   logger,
	}
}

// State returns the current store. Stores are immutable between
// applications, so the pointer stays valid for readers.
func (r *Room) State() *table.Store {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Apply runs an action through the reducer and records it. This is the
// only place the room's state pointer changes.
func (r *Room) Apply(a table.Action) *table.Store {
	r.mu.Lock()
	prev := r.state
	r.state = table.Apply(r.state, a)
	next := r.state
	r.mu.Unlock()

	if a.Type == table.ActionReturnAll && len(next.Objects) < len(prev.Objects) {
		// Foreign cards whose origin deck no longer exists are deleted
		// during reconciliation rather than returned.
		r.logger.Debug("return all deleted orphaned cards",
			zap.String("room_id", r.ID),
			zap.String("deck_id", a.ID),
			zap.Int("deleted", len(prev.Objects)-len(next.Objects)),
		)
	}

	r.recorder.Record(r.ID, a)
	return next
}

// Replace swaps in a freshly loaded store, keeping the live view
// transform so connected clients do not lose their cameras.
func (r *Room) Replace(loaded *table.Store) *table.Store {
	r.mu.Lock()
	loaded.View = r.state.View
	r.state = loaded
	next := r.state
	r.mu.Unlock()
	return next
}

// ClientCount returns the number of connected clients.
func (r *Room) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// PlayerIDs returns the connected players' ids, sorted.
func (r *Room) PlayerIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.playerIDsLocked()
}

func (r *Room) playerIDsLocked() []string {
	ids := make([]string, 0, len(r.clients))
	for c := range r.clients {
		ids = append(ids, c.actor.PlayerID)
	}
	sort.Strings(ids)
	return ids
}

// Join registers a client, sends it the full-state snapshot, and
// announces the arrival to everyone else.
func (r *Room) Join(c *Client) {
	r.mu.Lock()
	r.clients[c] = true
	state := r.state
	players := r.playerIDsLocked()
	r.mu.Unlock()

	snapshot, err := table.EncodeSnapshot(state)
	if err != nil {
		r.logger.Error("failed to encode join snapshot",
			zap.String("room_id", r.ID),
			zap.String("player_id", c.actor.PlayerID),
			zap.Error(err),
		)
	} else if data, err := encodeEnvelope(MsgState, r.ID, json.RawMessage(snapshot)); err == nil {
		c.trySend(data)
	}

	joined, err := encodeEnvelope(MsgPlayerJoined, r.ID, presencePayload{
		PlayerID: c.actor.PlayerID,
		Name:     c.name,
		Players:  players,
	})
	if err == nil {
		r.broadcast(joined, c)
	}

	r.logger.Info("client joined room",
		zap.String("room_id", r.ID),
		zap.String("player_id", c.actor.PlayerID),
		zap.Bool("gm", c.actor.GM),
		zap.Int("clients", len(players)),
	)
}

// Leave unregisters a client and announces the departure. The write
// pump exits when the send channel closes.
func (r *Room) Leave(c *Client) {
	r.mu.Lock()
	if _, ok := r.clients[c]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.clients, c)
	c.closeSend()
	players := r.playerIDsLocked()
	r.mu.Unlock()

	left, err := encodeEnvelope(MsgPlayerLeft, r.ID, presencePayload{
		PlayerID: c.actor.PlayerID,
		Name:     c.name,
		Players:  players,
	})
	if err == nil {
		r.broadcast(left, nil)
	}

	r.logger.Info("client left room",
		zap.String("room_id", r.ID),
		zap.String("player_id", c.actor.PlayerID),
		zap.Int("clients", len(players)),
	)
}

// HandleAction is the inbound path for one client's ACTION frame: the
// action is authorized against the current state, applied, and the raw
// frame re-broadcast verbatim to every other client. The sender already
// applied it locally, so echoing it back would double-apply.
func (r *Room) HandleAction(from *Client, a table.Action, raw []byte) {
	if table.IsClientLocal(a.Type) {
		// Per-client state never crosses the wire to peers.
		r.logger.Debug("dropping client-local action",
			zap.String("room_id", r.ID),
			zap.String("player_id", from.actor.PlayerID),
			zap.String("action", string(a.Type)),
		)
		return
	}

	if !authorize(from.actor, a, r.State()) {
		r.logger.Debug("action denied",
			zap.String("room_id", r.ID),
			zap.String("player_id", from.actor.PlayerID),
			zap.String("action", string(a.Type)),
			zap.String("object_id", a.ID),
		)
		return
	}

	r.Apply(a)
	r.broadcast(raw, from)
}

// broadcast queues a frame on every client except the excluded one,
// dropping clients whose buffers are full.
func (r *Room) broadcast(msg []byte, exclude *Client) {
	r.mu.Lock()
	var stale []*Client
	for c := range r.clients {
		if c == exclude {
			continue
		}
		if !c.trySend(msg) {
			stale = append(stale, c)
		}
	}
	for _, c := range stale {
		delete(r.clients, c)
		c.closeSend()
		r.logger.Warn("dropping unresponsive client",
			zap.String("room_id", r.ID),
			zap.String("player_id", c.actor.PlayerID),
		)
	}
	r.mu.Unlock()
}

// BroadcastState pushes a full snapshot to every client, used after a
// save slot is loaded over the live session.
func (r *Room) BroadcastState() {
	snapshot, err := table.EncodeSnapshot(r.State())
	if err != nil {
		r.logger.Error("failed to encode state broadcast",
			zap.String("room_id", r.ID),
			zap.Error(err),
		)
		return
	}
	if data, err := encodeEnvelope(MsgState, r.ID, json.RawMessage(snapshot)); err == nil {
		r.broadcast(data, nil)
	}
}

// authorize decides whether the actor may dispatch the action against
// the current state. Denial is silent at the protocol level; the
// reducer never sees the action. Spoofed player ids are the main thing
// screened here since clients otherwise self-report.
func authorize(actor table.Actor, a table.Action, s *table.Store) bool {
	if a.PlayerID != "" && a.PlayerID != actor.PlayerID && !actor.GM {
		return false
	}
	switch a.Type {
	case table.ActionMoveObject,
		table.ActionDeleteObject,
		table.ActionLockObject,
		table.ActionUnlockObject,
		table.ActionPinToViewport,
		table.ActionUnpinFromViewport,
		table.ActionLayerUp,
		table.ActionLayerDown:
		if obj := s.Object(a.ID); obj != nil && !actor.CanMove(obj) {
			return false
		}
	}
	return true
}
