package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
)

// ErrInvalidSnapshot marks persisted state that failed structural
// validation. Loading rejects it and leaves the current session state
// untouched.
var ErrInvalidSnapshot = errors.New("invalid table snapshot")

// Snapshot is the JSON persistence and transfer form of a Store: the
// full object map flattened to a sorted list, plus players, active
// player, dice log, and view transform. All cross-references are
// string ids, so the structure is cycle-free by construction.
type Snapshot struct {
	Objects        []ObjectEnvelope `json:"objects"`
	Players        []*Player        `json:"players"`
	ActivePlayerID string           `json:"activePlayerId,omitempty"`
	DiceLog        []DiceRoll       `json:"diceLog,omitempty"`
	View           geometry.Camera  `json:"view"`
	Checksum       string           `json:"checksum,omitempty"`
}

// TakeSnapshot captures the store into its persistence form. Objects
// are sorted by id so encoded output is stable.
func TakeSnapshot(s *Store) *Snapshot {
	ids := make([]string, 0, len(s.Objects))
	for id := range s.Objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	snap := &Snapshot{
		Objects:        make([]ObjectEnvelope, 0, len(ids)),
		Players:        make([]*Player, 0, len(s.Players)),
		ActivePlayerID: s.ActivePlayerID,
		DiceLog:        append([]DiceRoll(nil), s.DiceLog...),
		View:           s.View,
		Checksum:       Checksum(s),
	}
	for _, id := range ids {
		snap.Objects = append(snap.Objects, ObjectEnvelope{Object: s.Objects[id].Copy()})
	}
	for _, p := range s.Players {
		cp := *p
		snap.Players = append(snap.Players, &cp)
	}
	return snap
}

// EncodeSnapshot serializes the store to its JSON snapshot form.
func EncodeSnapshot(s *Store) ([]byte, error) {
	data, err := json.Marshal(TakeSnapshot(s))
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses and structurally validates persisted state,
// returning the reconstructed store. The object list and player list
// must both be present; duplicate object ids are rejected. The caller
// decides what to do with the snapshot's view transform — a live
// session keeps its own.
func DecodeSnapshot(data []byte) (*Store, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if _, ok := probe["objects"]; !ok {
		return nil, fmt.Errorf("%w: missing object list", ErrInvalidSnapshot)
	}
	if _, ok := probe["players"]; !ok {
		return nil, fmt.Errorf("%w: missing player list", ErrInvalidSnapshot)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	s := NewStore()
	s.ActivePlayerID = snap.ActivePlayerID
	s.DiceLog = append([]DiceRoll(nil), snap.DiceLog...)
	s.View = snap.View
	for _, env := range snap.Objects {
		if env.Object == nil {
			return nil, fmt.Errorf("%w: null object entry", ErrInvalidSnapshot)
		}
		id := env.Object.Core().ID
		if id == "" {
			return nil, fmt.Errorf("%w: object without id", ErrInvalidSnapshot)
		}
		if _, dup := s.Objects[id]; dup {
			return nil, fmt.Errorf("%w: duplicate object id %s", ErrInvalidSnapshot, id)
		}
		s.Objects[id] = env.Object
	}
	for _, p := range snap.Players {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("%w: player without id", ErrInvalidSnapshot)
		}
		cp := *p
		s.Players = append(s.Players, &cp)
	}
	return s, nil
}
